package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
)

// Schedule набор слотов студии по дням недели. Набор слотов неизменен после создания,
// меняются только записи внутри слотов.
type Schedule struct {
	days  map[time.Weekday][]*model.ClassSlot
	byID  map[string]*model.ClassSlot
	codes map[string]time.Weekday
}

// New создаёт пустое расписание по сетке
func New(tt Timetable) *Schedule {
	s := &Schedule{
		days:  make(map[time.Weekday][]*model.ClassSlot),
		byID:  make(map[string]*model.ClassSlot),
		codes: make(map[string]time.Weekday),
	}

	for _, day := range tt {
		s.codes[day.Code] = day.Weekday
		for _, hour := range sortedHours(day.Hours) {
			slot := &model.ClassSlot{
				ID:      ClassID(day.Code, hour),
				Weekday: day.Weekday,
				Hour:    hour,
			}
			s.days[day.Weekday] = append(s.days[day.Weekday], slot)
			s.byID[slot.ID] = slot
		}
	}

	return s
}

// Class возвращает слот по ID или nil
func (s *Schedule) Class(id string) *model.ClassSlot {
	return s.byID[id]
}

// SlotsFor возвращает слоты дня недели, отсортированные по часу
func (s *Schedule) SlotsFor(weekday time.Weekday) []*model.ClassSlot {
	return s.days[weekday]
}

// SlotsForDate возвращает слоты дня недели, на который приходится дата YYYY-MM-DD
func (s *Schedule) SlotsForDate(date string) ([]*model.ClassSlot, error) {
	t, err := calendar.ParseDate(date, time.UTC)
	if err != nil {
		return nil, err
	}
	return s.days[t.Weekday()], nil
}

// Weekdays возвращает дни недели с занятиями, начиная с понедельника
func (s *Schedule) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, len(s.days))
	for wd := range s.days {
		out = append(out, wd)
	}
	sort.Slice(out, func(i, j int) bool {
		return calendar.WeekdayIndex(out[i]) < calendar.WeekdayIndex(out[j])
	})
	return out
}

// All возвращает все слоты по порядку: день недели, затем час
func (s *Schedule) All() []*model.ClassSlot {
	var out []*model.ClassSlot
	for _, wd := range s.Weekdays() {
		out = append(out, s.days[wd]...)
	}
	return out
}

// FindByCode находит слот по коду вида "M9" или "L09" (день + час)
func (s *Schedule) FindByCode(code string) (*model.ClassSlot, error) {
	if len(code) < 2 {
		return nil, fmt.Errorf("invalid class code %q", code)
	}
	wd, ok := s.codes[code[:1]]
	if !ok {
		return nil, fmt.Errorf("unknown day code in %q", code)
	}
	var hour int
	if _, err := fmt.Sscanf(code[1:], "%d", &hour); err != nil {
		return nil, fmt.Errorf("invalid hour in %q", code)
	}
	for _, slot := range s.days[wd] {
		if slot.Hour == hour {
			return slot, nil
		}
	}
	return nil, fmt.Errorf("no class at %q", code)
}

// Restore подменяет содержимое слота сохранённой копией (ID и место в сетке не меняются)
func (s *Schedule) Restore(snapshot *model.ClassSlot) {
	if slot, ok := s.byID[snapshot.ID]; ok {
		*slot = *snapshot.Clone()
	}
}

// CountPermanentBookings считает постоянные записи ученицы во всех слотах
func (s *Schedule) CountPermanentBookings(studentID string) int {
	n := 0
	for _, slot := range s.byID {
		if slot.HasPermanentBooking(studentID) {
			n++
		}
	}
	return n
}

// PermanentClasses возвращает слоты, где у ученицы есть постоянная запись
func (s *Schedule) PermanentClasses(studentID string) []*model.ClassSlot {
	var out []*model.ClassSlot
	for _, slot := range s.All() {
		if slot.HasPermanentBooking(studentID) {
			out = append(out, slot)
		}
	}
	return out
}
