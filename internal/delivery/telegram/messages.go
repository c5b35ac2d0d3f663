package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aqylbek/islamquiz-bot/internal/service"
)

const (
	msgQuizReady         = "Сізге арнайы сұрақ дайын! Жақсы бағың келсін! 🎯"
	msgQuizUnavailable   = "Сұрақ жіберу мүмкін болмады. Кейінірек қайталап көріңіз."
	msgScoreUnavailable  = "Ұпайларды жүктеу мүмкін болмады. Кейінірек қайталап көріңіз."
	msgNobodyScoredYet   = "Әзірше ешкім ұпай жинаған жоқ 🤷‍♂️"
	msgChatRegistered    = "Чат сәтті тіркелді! Енді күнделікті сұрақтар осы чатқа жіберіледі."
	msgChatAlreadyActive = "Бұл чат бұрыннан тіркелген!"
	msgNobodyScoredWeek  = "Бұл аптада ешкім ұпай жинаған жоқ 😔"

	msgDailyQuizIntro = "*Бүгінгі IslamQuiz сұрағы!* 🌙\n\n" +
		"Құрметті қатысушылар, жаңа сұраққа дайын болыңыздар!\n" +
		"Дұрыс жауап берсеңіз, ұпай аласыз. Жауап беру уақыты: 24 сағат."

	msgDailyReminder = "🌙 *IslamQuiz ескертуі*\n\n" +
		"Құрметті қатысушылар, бүгінгі сұраққа жауап беруді ұмытпаңыз!\n" +
		"Білім - ең үлкен байлық! 📚"
)

// newMessage creates a message with Markdown parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg
}

func buildWelcome(firstName string) string {
	return fmt.Sprintf(
		"Ассаламу алейкум, %s! 🌙\n\n"+
			"*IslamQuiz* ботына қош келдіңіз!\n\n"+
			"Бұл бот арқылы ислам дінінің әр түрлі салалары бойынша білімінізді тексере аласыз.\n\n"+
			"Күн сайын жаңа сұрақ жіберіледі. Дұрыс жауап бергеніңіз үшін ұпай аласыз.\n"+
			"Апта соңында ең көп ұпай жинағандар анықталады!\n\n"+
			"Бот командалары:\n"+
			"/quiz - арнайы сұрақ сұрату\n"+
			"/score - өз ұпайыңызды тексеру\n"+
			"/leaderboard - көшбасшылар тізімін көру\n\n"+
			"Бүгінгі сұраққа дайынсыз ба? 😊",
		firstName,
	)
}

func buildGreeting(firstName string) string {
	return fmt.Sprintf(
		"Ассаламу алейкум, %s! 🌙\n\n"+
			"*IslamQuiz* чатына қош келдіңіз!\n"+
			"Бүгінгі сұраққа жауап беруге дайынсыз ба?",
		firstName,
	)
}

func buildScore(total, weekly int) string {
	return fmt.Sprintf(
		"*Сіздің ұпайыңыз:*\nБарлық ұпай: %d\nОсы аптадағы ұпай: %d",
		total, weekly,
	)
}

func buildReveal(correctOption, explanation, motivation string) string {
	return fmt.Sprintf(
		"*Дұрыс жауап:* %s\n\n*Түсіндірме:*\n%s\n\n%s",
		correctOption, explanation, motivation,
	)
}

// buildLeaderboard renders the /leaderboard reply. names maps ledger user
// ids to display names.
func buildLeaderboard(entries []service.LedgerEntry, names map[string]string) string {
	var sb strings.Builder
	sb.WriteString("*Апталық көшбасшылар:*\n\n")

	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s: %d ұпай\n", i+1, names[entry.UserID], entry.Score.Weekly))
	}

	return sb.String()
}

// buildWeeklyResults renders the weekly digest with medal markers for the
// top three ranks.
func buildWeeklyResults(entries []service.LedgerEntry, names map[string]string) string {
	var sb strings.Builder
	sb.WriteString("*Апталық нәтижелер!* 🏆\n\n")
	sb.WriteString("Ең көп дұрыс жауап берген қатысушылар:\n\n")

	medals := map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}
	for i, entry := range entries {
		rank := i + 1
		if medal, ok := medals[rank]; ok {
			sb.WriteString(fmt.Sprintf("%s %s: %d ұпай\n", medal, names[entry.UserID], entry.Score.Weekly))
		} else {
			sb.WriteString(fmt.Sprintf("%d. %s: %d ұпай\n", rank, names[entry.UserID], entry.Score.Weekly))
		}
	}

	sb.WriteString("\nБарлық қатысушыларға рахмет! Жаңа аптада жаңа білім мен жаңа сұрақтар күтіңіздер! 📚")

	return sb.String()
}
