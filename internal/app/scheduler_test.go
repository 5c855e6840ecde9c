package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMaterializer struct {
	calls      int
	weeksAhead int
	err        error
	onCall     func()
}

func (f *fakeMaterializer) Materialize(_ context.Context, _ time.Time, weeksAhead int) (int64, error) {
	f.calls++
	f.weeksAhead = weeksAhead
	if f.onCall != nil {
		f.onCall()
	}
	return 3, f.err
}

func TestSchedulerRunsJournalOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	journal := &fakeMaterializer{onCall: cancel}
	s := NewScheduler(journal, "0 3 * * *", 4, time.UTC, zap.NewNop())

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 1, journal.calls)
	assert.Equal(t, 4, journal.weeksAhead)
}

func TestSchedulerSurvivesJournalFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	journal := &fakeMaterializer{err: errors.New("db down"), onCall: cancel}
	s := NewScheduler(journal, "@every 1h", 1, nil, zap.NewNop())

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 1, journal.calls)
}

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	journal := &fakeMaterializer{}
	s := NewScheduler(journal, "not a cron", 1, time.UTC, zap.NewNop())

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Zero(t, journal.calls)
}
