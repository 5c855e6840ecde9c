package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout ISO формат дат, используемый во всех записях (строки сравниваются лексикографически)
const DateLayout = "2006-01-02"

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает строку YYYY-MM-DD в указанной зоне
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// IsDate проверяет что строка в точности YYYY-MM-DD
func IsDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// MonthKey возвращает ключ месяца YYYY-MM для даты YYYY-MM-DD
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthKeyOf возвращает ключ месяца для time.Time
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// Today возвращает сегодняшнюю дату в зоне студии
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(time.Now().In(loc))
}

// NormalizeDate приводит даты из старой таблицы (DD/MM/YYYY, DD-MM-YY) к YYYY-MM-DD
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	var parts []string
	switch {
	case strings.Contains(s, "/"):
		parts = strings.Split(s, "/")
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
		if len(parts[0]) == 4 {
			if !IsDate(s) {
				return "", fmt.Errorf("invalid date %q", s)
			}
			return s, nil
		}
	default:
		return "", fmt.Errorf("unsupported date format %q", s)
	}

	if len(parts) != 3 {
		return "", fmt.Errorf("unsupported date format %q", s)
	}

	day, month, year := parts[0], parts[1], parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	normalized := fmt.Sprintf("%s-%s-%s", year, padTwo(month), padTwo(day))
	if !IsDate(normalized) {
		return "", fmt.Errorf("invalid date %q", s)
	}
	return normalized, nil
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
