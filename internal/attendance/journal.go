package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
)

// BuildJournal разворачивает слоты в строки журнала посещаемости за период [from, to]
func BuildJournal(slots []*model.ClassSlot, from, to time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord

	for _, slot := range slots {
		dates, err := calendar.Occurrences(slot.Weekday, slot.Hour, from, to)
		if err != nil {
			return nil, fmt.Errorf("expand class %s: %w", slot.ID, err)
		}
		for _, date := range dates {
			records = append(records, journalForDate(slot, date)...)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.ClassID != b.ClassID {
			return a.ClassID < b.ClassID
		}
		return a.StudentID < b.StudentID
	})

	return records, nil
}

func journalForDate(slot *model.ClassSlot, date string) []model.AttendanceRecord {
	p := Resolve(slot, date)
	var out []model.AttendanceRecord

	scheduled := model.AttendanceScheduled
	if slot.IsCancelled {
		scheduled = model.AttendanceClassCancelled
	}

	for _, id := range p.PresentIDs.Sorted() {
		assignment := model.AssignmentRecurring
		if !p.PermanentIDs.Has(id) {
			assignment = model.AssignmentGuest
			for _, o := range slot.OneTimeBookings {
				if o.StudentID == id && o.Date == date && o.Makeup {
					assignment = model.AssignmentMakeup
					break
				}
			}
		}
		out = append(out, model.AttendanceRecord{
			Date:       date,
			ClassID:    slot.ID,
			StudentID:  id,
			Assignment: assignment,
			Status:     scheduled,
		})
	}

	for _, a := range slot.Absences {
		if a.Date != date || p.PresentIDs.Has(a.StudentID) {
			continue
		}
		b := slot.PermanentBooking(a.StudentID)
		if b == nil || b.StartDate > date {
			continue
		}
		status := model.AttendanceCancelledNoNotice
		if a.WithNotice {
			status = model.AttendanceCancelledNotice
		}
		out = append(out, model.AttendanceRecord{
			Date:       date,
			ClassID:    slot.ID,
			StudentID:  a.StudentID,
			Assignment: model.AssignmentRecurring,
			Status:     status,
		})
	}

	return out
}
