package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"go.uber.org/zap"
)

// JournalService материализует журнал посещаемости из текущего расписания
type JournalService struct {
	state  *State
	writer JournalWriter
	loc    *time.Location
	logger *zap.Logger
}

func NewJournalService(state *State, writer JournalWriter, loc *time.Location, logger *zap.Logger) *JournalService {
	if loc == nil {
		loc = time.UTC
	}
	return &JournalService{
		state:  state,
		writer: writer,
		loc:    loc,
		logger: logger,
	}
}

// Build строит строки журнала за период [from, to]
func (s *JournalService) Build(from, to time.Time) ([]model.AttendanceRecord, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	return attendance.BuildJournal(s.state.schedule.All(), from.In(s.loc), to.In(s.loc))
}

// Materialize записывает журнал с начала текущей недели на weeksAhead недель вперёд
func (s *JournalService) Materialize(ctx context.Context, now time.Time, weeksAhead int) (int64, error) {
	if weeksAhead <= 0 {
		weeksAhead = 1
	}

	from, _ := calendar.WeekBounds(now.In(s.loc))
	to := from.AddDate(0, 0, 7*weeksAhead-1)

	records, err := s.Build(from, to)
	if err != nil {
		return 0, fmt.Errorf("build journal: %w", err)
	}

	written, err := s.writer.ReplaceJournal(ctx, calendar.FormatDate(from), calendar.FormatDate(to), records)
	if err != nil {
		return 0, &PersistenceError{Op: "replace journal", Err: err}
	}

	s.logger.Info("Attendance journal materialized",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("records", len(records)),
		zap.Int64("written", written),
	)

	return written, nil
}
