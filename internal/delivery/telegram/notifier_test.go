package telegram

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

func TestQuizPollParams(t *testing.T) {
	question := entities.Question{
		Text:            "Сұрақ?",
		Options:         []string{"А", "Ә", "Б"},
		CorrectOptionID: 0,
	}

	params, err := quizPollParams(42, question, 12*time.Hour)
	if err != nil {
		t.Fatalf("quizPollParams() error: %v", err)
	}

	want := map[string]string{
		"chat_id":  "42",
		"question": "Сұрақ?",
		"type":     "quiz",
		// A correct first option must survive as an explicit zero.
		"correct_option_id": "0",
		"is_anonymous":      "false",
		"open_period":       "43200",
		"protect_content":   "true",
	}
	for key, value := range want {
		if got := params[key]; got != value {
			t.Errorf("params[%q] = %q, want %q", key, got, value)
		}
	}

	var options []string
	if err := json.Unmarshal([]byte(params["options"]), &options); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(options) != 3 || options[1] != "Ә" {
		t.Errorf("options = %v, want the original three", options)
	}
}
