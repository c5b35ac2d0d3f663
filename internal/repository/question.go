package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

var (
	ErrQuestionsNotFound = errors.New("questions file not found")
	ErrNoQuestions       = errors.New("questions file contains no questions")
)

// QuestionRepository provides read-only access to the quiz question catalog.
// The catalog is loaded from a JSON file once at construction time.
type QuestionRepository struct {
	questions []entities.Question
}

// NewQuestionRepository loads the catalog from the given JSON file.
func NewQuestionRepository(path string) (*QuestionRepository, error) {
	questions, err := loadQuestions(path)
	if err != nil {
		return nil, err
	}

	return &QuestionRepository{
		questions: questions,
	}, nil
}

// Random draws one question uniformly from the catalog. Draws are
// independent, so repeats across calls are possible.
func (r *QuestionRepository) Random() entities.Question {
	return r.questions[rand.Intn(len(r.questions))]
}

// All returns every question in catalog order.
func (r *QuestionRepository) All() []entities.Question {
	return r.questions
}

func loadQuestions(path string) ([]entities.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrQuestionsNotFound
		}
		return nil, fmt.Errorf("read questions file: %w", err)
	}

	var questions []entities.Question
	if err = json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	for i, q := range questions {
		if q.CorrectOptionID < 0 || q.CorrectOptionID >= len(q.Options) {
			return nil, fmt.Errorf("question %d: correct_option_id %d out of range for %d options",
				i, q.CorrectOptionID, len(q.Options))
		}
	}

	return questions, nil
}
