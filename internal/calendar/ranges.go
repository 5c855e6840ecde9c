package calendar

import "time"

// StartOfDay нормализует время к началу дня
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekBounds возвращает понедельник и воскресенье недели, в которую попадает дата
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := StartOfDay(t)
	start := day.AddDate(0, 0, -WeekdayIndex(day.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// WeekDates возвращает даты Пн-Пт недели, в которую попадает дата
func WeekDates(t time.Time) []time.Time {
	start, _ := WeekBounds(t)
	dates := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// ShiftWeek сдвигает дату на n недель
func ShiftWeek(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

// MonthWeekdays возвращает все будние дни (Пн-Пт) месяца
func MonthWeekdays(year int, month time.Month, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	var days []time.Time
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() >= time.Monday && d.Weekday() <= time.Friday {
			days = append(days, d)
		}
	}
	return days
}

// MonthBounds возвращает первый и последний день месяца
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}

// IsWeekday проверяет что дата YYYY-MM-DD выпадает на день недели
func IsWeekday(date string, wd time.Weekday) bool {
	t, err := ParseDate(date, time.UTC)
	return err == nil && t.Weekday() == wd
}

// NextOnWeekday возвращает первую дату не раньше date, выпадающую на день недели
func NextOnWeekday(date string, wd time.Weekday) (string, error) {
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", err
	}
	shift := (int(wd) - int(t.Weekday()) + 7) % 7
	return FormatDate(t.AddDate(0, 0, shift)), nil
}
