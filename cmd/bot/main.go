package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/config"
	"github.com/aqylbek/islamquiz-bot/internal/delivery/telegram"
	"github.com/aqylbek/islamquiz-bot/internal/infra/postgres"
	pgrepository "github.com/aqylbek/islamquiz-bot/internal/infra/postgres/repository"
	"github.com/aqylbek/islamquiz-bot/internal/logger"
	"github.com/aqylbek/islamquiz-bot/internal/repository"
	"github.com/aqylbek/islamquiz-bot/internal/service"
	"github.com/aqylbek/islamquiz-bot/internal/storage"
)

func main() {
	// Load a local .env if present; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zlog.Fatal("failed to create bot api", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "quiz",
			Description: "Арнайы сұрақ сұрату",
		},
		{
			Command:     "score",
			Description: "Өз ұпайыңызды тексеру",
		},
		{
			Command:     "leaderboard",
			Description: "Көшбасшылар тізімін көру",
		},
		{
			Command:     "register",
			Description: "Чатты күнделікті сұрақтарға тіркеу",
		},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zlog.Warn("failed to set bot commands", zap.Error(err))
	}

	zlog.Info("authorized", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		zlog.Fatal("failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	questionRepo, err := repository.NewQuestionRepository(cfg.QuestionsJSONPath)
	if err != nil {
		zlog.Fatal("failed to load question catalog", zap.Error(err))
	}

	// The score ledger lives in the JSON file unless DATABASE_URL is set.
	var scoreRepo service.ScoreRepository
	if cfg.DB.URL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			zlog.Fatal("failed to create postgres pool", zap.Error(err))
		}
		defer pool.Close()

		pgScoreRepo := pgrepository.NewScoreRepository(pool)
		if err = pgScoreRepo.Migrate(ctx); err != nil {
			zlog.Fatal("failed to migrate scores table", zap.Error(err))
		}
		scoreRepo = pgScoreRepo

		zlog.Info("score ledger backed by postgres")
	} else {
		scoreRepo = repository.NewScoreRepository(cfg.ScoresJSONPath)
		zlog.Info("score ledger backed by file", zap.String("path", cfg.ScoresJSONPath))
	}

	polls := storage.NewPollStorage()
	chats := storage.NewChatStorage()

	ledger := service.NewScoreLedger(scoreRepo, zlog)
	quizService := service.NewQuizService(polls, ledger, zlog, cfg.RevealAfter)
	jobService := service.NewJobService(chats, questionRepo, quizService, ledger, zlog, service.Schedule{
		Location:          location,
		DailyQuizTime:     cfg.Jobs.DailyQuizTime,
		DailyReminderTime: cfg.Jobs.DailyReminderTime,
		WeeklyDigestTime:  cfg.Jobs.WeeklyDigestTime,
		WeeklyDigestDay:   cfg.Jobs.WeeklyDigestDay,
	})

	handler := telegram.NewHandler(
		bot,
		zlog,
		questionRepo,
		quizService,
		ledger,
		chats,
		cfg.RevealAfter,
	)

	quizService.SetNotifier(handler)
	jobService.SetBroadcaster(handler)

	go func() {
		if err := jobService.Start(ctx); err != nil {
			zlog.Error("job service failed", zap.Error(err))
		}
	}()

	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zlog.Fatal("handler stopped", zap.Error(err))
	}

	zlog.Info("shutdown signal received")
}
