package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/group_finder_bot/internal/app"
	"github.com/Freeeeeet/group_finder_bot/internal/config"
	"github.com/Freeeeeet/group_finder_bot/internal/controller"
	"github.com/Freeeeeet/group_finder_bot/internal/controller/handlers"
	"github.com/Freeeeeet/group_finder_bot/internal/controller/state"
	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
	"github.com/Freeeeeet/group_finder_bot/internal/locale"
	"github.com/Freeeeeet/group_finder_bot/internal/repository"
	"github.com/Freeeeeet/group_finder_bot/internal/repository/memory"
	"github.com/Freeeeeet/group_finder_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot exited with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting group finder bot",
		zap.String("environment", cfg.Environment),
		zap.Bool("storage", cfg.StorageEnabled()),
	)

	var (
		userStore   service.UserStore
		lookupStore service.LookupStore
	)

	if cfg.StorageEnabled() {
		pool, err := app.NewPool(ctx, cfg.GetDBDSN())
		if err != nil {
			return err
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsTable, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}

		userStore = repository.NewUserRepository(pool)
		lookupStore = repository.NewLookupRepository(pool)
	} else {
		logger.Warn("DB_DSN is not set, users and history are kept in memory")
		userStore = memory.NewUserRepository()
		lookupStore = memory.NewLookupRepository()
	}

	userService := service.NewUserService(userStore, logger)
	lookupService := service.NewLookupService(lookupStore, cfg.HistoryLimit, logger)

	sessions := state.NewManager(cfg.SessionTTL)
	engine := dialog.NewEngine(locale.MustLoad())
	cmdHandlers := handlers.NewHandlers(engine, sessions, userService, lookupService, logger)

	rateLimiter := handlers.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	b, err := bot.New(cfg.TelegramToken,
		bot.WithDefaultHandler(cmdHandlers.HandleTextMessage),
		bot.WithMiddlewares(
			handlers.Recover(logger),
			rateLimiter.Middleware(),
		),
		bot.WithErrorsHandler(func(err error) {
			logger.Error("Telegram API error", zap.Error(err))
		}),
	)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Без меню команд бот всё равно работает
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	sweeper := app.NewSweeper(cfg.SessionSweepInterval, logger,
		app.SweepTarget{Name: "sessions", Store: sessions},
		app.SweepTarget{Name: "rate_limiters", Store: rateLimiter},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return botController.Start(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })

	return g.Wait()
}
