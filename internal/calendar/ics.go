package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event одно занятие для экспорта в iCalendar
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// BuildICS сериализует занятия в календарь iCalendar
func BuildICS(name string, events []Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//studio_scheduler//classes//ES")
	cal.SetName(name)

	for _, e := range events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(now)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetSummary(e.Summary)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
	}

	return cal.Serialize()
}
