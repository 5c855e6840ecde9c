package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JournalMaterializer строит журнал посещаемости на несколько недель вперёд
type JournalMaterializer interface {
	Materialize(ctx context.Context, now time.Time, weeksAhead int) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron       *cron.Cron
	journal    JournalMaterializer
	spec       string
	weeksAhead int
	logger     *zap.Logger
}

// NewScheduler создаёт новый планировщик. spec стандартное cron-выражение из пяти полей.
func NewScheduler(journal JournalMaterializer, spec string, weeksAhead int, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		journal:    journal,
		spec:       spec,
		weeksAhead: weeksAhead,
		logger:     logger,
	}
}

// Start запускает фоновые задачи и блокируется до отмены ctx
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler", zap.String("journal_cron", s.spec))

	_, err := s.cron.AddFunc(s.spec, func() {
		s.materializeJournal(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule journal job: %w", err)
	}

	// Первый запуск сразу при старте
	s.materializeJournal(ctx)

	s.cron.Start()
	<-ctx.Done()
	s.Stop()

	return nil
}

// Stop останавливает фоновые задачи и ждёт завершения текущей
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) materializeJournal(ctx context.Context) {
	s.logger.Info("Starting attendance journal materialization")

	written, err := s.journal.Materialize(ctx, time.Now(), s.weeksAhead)
	if err != nil {
		s.logger.Error("Failed to materialize attendance journal", zap.Error(err))
		return
	}

	s.logger.Info("Attendance journal materialization completed", zap.Int64("written", written))
}
