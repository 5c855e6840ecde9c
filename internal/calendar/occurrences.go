package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Occurrences возвращает даты (YYYY-MM-DD) еженедельного слота в диапазоне [from, to] включительно
func Occurrences(weekday time.Weekday, hour int, from, to time.Time) ([]string, error) {
	if to.Before(from) {
		return nil, nil
	}

	start := StartOfDay(from)
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[weekday]},
		Dtstart:   start.Add(time.Duration(hour) * time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}

	end := StartOfDay(to).Add(24*time.Hour - time.Second)
	times := r.Between(start, end, true)

	dates := make([]string, 0, len(times))
	for _, t := range times {
		dates = append(dates, FormatDate(t))
	}
	return dates, nil
}
