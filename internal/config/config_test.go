package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"DB_DSN": "postgres://localhost/studio"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5, cfg.MaxCapacity)
	assert.Equal(t, 4, cfg.JournalWeeksAhead)
	assert.Equal(t, "0 3 * * *", cfg.JournalCron)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Location.String())
	assert.Equal(t, schedule.DefaultTimetable(), cfg.Timetable)
	assert.True(t, cfg.IsStaff(42))
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DB_DSN":              "postgres://localhost/studio",
		"ENV":                 "production",
		"MAX_CAPACITY":        "6",
		"JOURNAL_WEEKS_AHEAD": "2",
		"STAFF_CHAT_IDS":      "100, 200",
		"TIMEZONE":            "UTC",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 6, cfg.MaxCapacity)
	assert.Equal(t, 2, cfg.JournalWeeksAhead)
	assert.Equal(t, []int64{100, 200}, cfg.StaffChatIDs)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.IsStaff(200))
	assert.False(t, cfg.IsStaff(300))
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{}},
		{"bad capacity", map[string]string{"DB_DSN": "x", "MAX_CAPACITY": "zero"}},
		{"negative capacity", map[string]string{"DB_DSN": "x", "MAX_CAPACITY": "-1"}},
		{"bad chat id", map[string]string{"DB_DSN": "x", "STAFF_CHAT_IDS": "abc"}},
		{"bad timezone", map[string]string{"DB_DSN": "x", "TIMEZONE": "Mars/Olympus"}},
		{"missing timetable", map[string]string{"DB_DSN": "x", "TIMETABLE_FILE": "/nonexistent/timetable.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			require.Error(t, err)
		})
	}
}

func TestLoadTimetable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timetable.yaml")
	content := `
days:
  - weekday: lunes
    code: l
    hours: [18, 16]
  - weekday: friday
    code: V
    hours: [9]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tt, err := LoadTimetable(path)
	require.NoError(t, err)

	want := schedule.Timetable{
		{Weekday: time.Monday, Code: "L", Hours: []int{18, 16}},
		{Weekday: time.Friday, Code: "V", Hours: []int{9}},
	}
	assert.Equal(t, want, tt)
}

func TestParseTimetableRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown weekday": "days:\n  - weekday: funday\n    code: F\n    hours: [9]\n",
		"duplicate code":  "days:\n  - weekday: monday\n    code: L\n    hours: [9]\n  - weekday: tuesday\n    code: L\n    hours: [9]\n",
		"hour range":      "days:\n  - weekday: monday\n    code: L\n    hours: [24]\n",
		"empty":           "days: []\n",
		"not yaml":        "days: [",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTimetable([]byte(content))
			require.Error(t, err)
		})
	}
}
