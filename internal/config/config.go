package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/studio_scheduler/internal/schedule"
	"github.com/joho/godotenv"
)

const (
	defaultTimezone    = "America/Argentina/Buenos_Aires"
	defaultJournalCron = "0 3 * * *"
	defaultWeeksAhead  = 4
	defaultCapacity    = 5
)

type Config struct {
	TelegramToken     string
	DBDSN             string
	Environment       string
	LogFile           string
	TimetableFile     string
	MaxCapacity       int
	JournalCron       string
	JournalWeeksAhead int
	StaffChatIDs      []int64
	Location          *time.Location
	Timetable         schedule.Timetable
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded: env=%s capacity=%d timezone=%s\n", cfg.Environment, cfg.MaxCapacity, cfg.Location)

	return cfg, nil
}

// FromEnv собирает конфигурацию из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV"),
		LogFile:       getenv("LOG_FILE"),
		TimetableFile: getenv("TIMETABLE_FILE"),
		JournalCron:   getenv("JOURNAL_CRON"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.JournalCron == "" {
		cfg.JournalCron = defaultJournalCron
	}

	var err error
	cfg.MaxCapacity, err = intOrDefault(getenv("MAX_CAPACITY"), defaultCapacity)
	if err != nil {
		return nil, fmt.Errorf("MAX_CAPACITY: %w", err)
	}
	cfg.JournalWeeksAhead, err = intOrDefault(getenv("JOURNAL_WEEKS_AHEAD"), defaultWeeksAhead)
	if err != nil {
		return nil, fmt.Errorf("JOURNAL_WEEKS_AHEAD: %w", err)
	}

	cfg.StaffChatIDs, err = parseChatIDs(getenv("STAFF_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("STAFF_CHAT_IDS: %w", err)
	}

	tz := getenv("TIMEZONE")
	if tz == "" {
		tz = defaultTimezone
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	if cfg.TimetableFile != "" {
		cfg.Timetable, err = LoadTimetable(cfg.TimetableFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg.Timetable = schedule.DefaultTimetable()
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

// IsStaff проверяет что чат входит в список сотрудников. Пустой список пускает всех.
func (c *Config) IsStaff(chatID int64) bool {
	if len(c.StaffChatIDs) == 0 {
		return true
	}
	for _, id := range c.StaffChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func intOrDefault(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
