package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/config"
	httpdelivery "github.com/aliskhannn/trivia-quiz-bot/internal/delivery/http"
	"github.com/aliskhannn/trivia-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/opentdb"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/rediscache"
	"github.com/aliskhannn/trivia-quiz-bot/internal/logger"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
	"github.com/aliskhannn/trivia-quiz-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}

	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "quiz", Description: "Set up a new quiz"},
		{Command: "restart", Description: "Abandon the current quiz"},
		{Command: "score", Description: "Show the current score"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	// Users and preferences live in Postgres when it is configured.
	var (
		users      service.UserRepository
		settings   service.SettingsRepository
		transactor service.Transactor
	)
	if cfg.DB.Enabled() {
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return err
		}
		defer pool.Close()

		users = repository.NewUserRepository(pool)
		settings = repository.NewSettingsRepository(pool)
		transactor = postgres.NewTransactor(pool)
		lg.Info("using postgres storage")
	} else {
		users = storage.NewUserStorage()
		settings = storage.NewSettingsStorage()
		transactor = storage.NoopTransactor{}
		lg.Info("database not configured, using in-memory storage")
	}

	var cache service.CategoryCache
	if cfg.Redis.Enabled() {
		client, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		cache = rediscache.NewCategoryCache(client, cfg.Cache.CategoriesTTL)
		lg.Info("using redis category cache", zap.String("addr", cfg.Redis.Addr))
	}

	trivia := opentdb.NewClient(opentdb.Config{
		BaseURL:   cfg.OpenTDB.BaseURL,
		BatchSize: cfg.OpenTDB.BatchSize,
		Timeout:   cfg.OpenTDB.Timeout,
	}, lg)

	sessions := storage.NewSessionStorage(nil)

	categoryService := service.NewCategoryService(trivia, cache, cfg.Cache.CategoriesTTL, lg)
	settingsService := service.NewSettingsService(settings)
	userService := service.NewUserService(users, settings, transactor, lg)
	quizService := service.NewQuizService(sessions, categoryService, trivia, settingsService, lg)
	maintenance := service.NewMaintenanceService(categoryService, sessions, cfg.Session.IdleTTL, lg)

	handler := telegram.NewHandler(bot, lg, quizService, userService, cfg.Telegram.Workers)

	var wg conc.WaitGroup
	defer wg.Wait()

	wg.Go(func() {
		maintenance.Start(ctx)
	})

	if cfg.HTTPAddr != "" {
		ops := httpdelivery.NewServer(cfg.HTTPAddr, sessions, lg)
		wg.Go(func() {
			if err := ops.Run(ctx); err != nil {
				lg.Error("ops server failed", zap.Error(err))
			}
		})
	}

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("shutdown signal received")
	return nil
}
