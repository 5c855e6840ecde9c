package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/studio_scheduler/internal/app"
	"github.com/Freeeeeet/studio_scheduler/internal/config"
	"github.com/Freeeeeet/studio_scheduler/internal/controller"
	"github.com/Freeeeeet/studio_scheduler/internal/repository"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/Freeeeeet/studio_scheduler/migrations"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	logger.Info("Starting studio scheduler bot",
		zap.String("environment", cfg.Environment),
		zap.Int("capacity", cfg.MaxCapacity),
		zap.Int("classes", cfg.Timetable.SlotCount()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return err
	}

	store := repository.NewStudioStore(pool, cfg.Timetable, logger)
	snap, err := store.LoadAll(ctx)
	if err != nil {
		return err
	}

	state := service.NewState(snap)
	booking := service.NewBookingService(state, store, cfg.MaxCapacity, logger)
	students := service.NewStudentService(state, store, logger)
	payments := service.NewPaymentService(state, store, logger)
	journal := service.NewJournalService(state, store, cfg.Location, logger)

	var ctrl *controller.BotController
	b, err := bot.New(cfg.TelegramToken,
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			ctrl.HandleUnmatched(ctx, b, update)
		}),
	)
	if err != nil {
		return err
	}

	ctrl = controller.NewBotController(b, booking, students, payments, store, cfg, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		logger.Warn("Continuing without command menu", zap.Error(err))
	}

	scheduler := app.NewScheduler(journal, cfg.JournalCron, cfg.JournalWeeksAhead, cfg.Location, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Start(gctx)
	})
	g.Go(func() error {
		return scheduler.Start(gctx)
	})

	return g.Wait()
}
