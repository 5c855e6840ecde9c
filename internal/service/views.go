package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
)

// PresentStudent присутствующая ученица и путь её присутствия
type PresentStudent struct {
	Student *model.Student
	Source  attendance.Source
}

// ClassView состав класса на дату
type ClassView struct {
	ClassID     string
	Weekday     time.Weekday
	Hour        int
	Date        string
	IsCancelled bool
	Present     []PresentStudent
	AbsentIDs   []string
	Occupancy   int
	Capacity    int
	LevelRank   int
}

// IsFull проверяет что свободных мест нет
func (v *ClassView) IsFull() bool {
	return v.Occupancy >= v.Capacity
}

// Candidate ученица, которую можно записать в класс
type Candidate struct {
	Student         *model.Student
	LevelCompatible bool
}

// ClassSummary слот в обзоре дня
type ClassSummary struct {
	ClassID      string
	Hour         int
	Occupancy    int
	Capacity     int
	IsCancelled  bool
	StudentNames []string
}

// DayOverview слоты одного дня недели с заполненностью
type DayOverview struct {
	Date    string
	Weekday time.Weekday
	Classes []ClassSummary
}

// Presence разрешает присутствие в классе на дату
func (s *BookingService) Presence(classID, date string) (attendance.Presence, error) {
	if !calendar.IsDate(date) {
		return attendance.Presence{}, ErrInvalidDate
	}

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	slot, err := s.state.class(classID)
	if err != nil {
		return attendance.Presence{}, err
	}
	return attendance.Resolve(slot, date), nil
}

// ClassView собирает состав класса на дату с уровнем класса
func (s *BookingService) ClassView(classID, date string) (*ClassView, error) {
	if !calendar.IsDate(date) {
		return nil, ErrInvalidDate
	}

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	slot, err := s.state.class(classID)
	if err != nil {
		return nil, err
	}
	presence := attendance.Resolve(slot, date)

	students := s.presentStudentsLocked(presence)
	view := &ClassView{
		ClassID:     slot.ID,
		Weekday:     slot.Weekday,
		Hour:        slot.Hour,
		Date:        date,
		IsCancelled: slot.IsCancelled,
		AbsentIDs:   presence.AbsentIDs.Sorted(),
		Occupancy:   presence.Occupancy(),
		Capacity:    s.maxCapacity,
		LevelRank:   attendance.ClassLevelRank(students),
	}
	for _, st := range students {
		view.Present = append(view.Present, PresentStudent{
			Student: st.Clone(),
			Source:  presence.Source(st.ID),
		})
	}

	return view, nil
}

// presentStudentsLocked возвращает присутствующих, отсортированных по имени.
// ID без профиля (удалённая ученица) пропускаются.
func (s *BookingService) presentStudentsLocked(presence attendance.Presence) []*model.Student {
	var out []*model.Student
	for id := range presence.PresentIDs {
		if st, ok := s.state.students[id]; ok {
			out = append(out, st)
		}
	}
	sortStudents(out)
	return out
}

// Candidates возвращает активных учениц, которых нет в классе на дату.
// search фильтрует по "имя фамилия" без учёта регистра.
func (s *BookingService) Candidates(classID, date, search string, onlyWithCredits bool) ([]Candidate, error) {
	if !calendar.IsDate(date) {
		return nil, ErrInvalidDate
	}

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	slot, err := s.state.class(classID)
	if err != nil {
		return nil, err
	}
	presence := attendance.Resolve(slot, date)
	rank := attendance.ClassLevelRank(s.presentStudentsLocked(presence))
	needle := strings.ToLower(strings.TrimSpace(search))

	var out []Candidate
	for _, st := range s.state.sortedStudents() {
		if presence.PresentIDs.Has(st.ID) {
			continue
		}
		if onlyWithCredits && st.MakeupCredits <= 0 {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(st.FullName()), needle) {
			continue
		}
		out = append(out, Candidate{
			Student:         st.Clone(),
			LevelCompatible: attendance.IsLevelCompatible(st.Level, rank),
		})
	}

	return out, nil
}

// WeekOverview обзор рабочей недели (пн-пт), в которую попадает дата
func (s *BookingService) WeekOverview(date string, loc *time.Location) ([]DayOverview, error) {
	t, err := calendar.ParseDate(date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	var out []DayOverview
	for _, day := range calendar.WeekDates(t) {
		iso := calendar.FormatDate(day)
		overview := DayOverview{Date: iso, Weekday: day.Weekday()}
		for _, slot := range s.state.schedule.SlotsFor(day.Weekday()) {
			presence := attendance.Resolve(slot, iso)
			summary := ClassSummary{
				ClassID:     slot.ID,
				Hour:        slot.Hour,
				Occupancy:   presence.Occupancy(),
				Capacity:    s.maxCapacity,
				IsCancelled: slot.IsCancelled,
			}
			for _, st := range s.presentStudentsLocked(presence) {
				summary.StudentNames = append(summary.StudentNames, st.FullName())
			}
			overview.Classes = append(overview.Classes, summary)
		}
		out = append(out, overview)
	}

	return out, nil
}

// Student возвращает копию профиля ученицы
func (s *BookingService) Student(studentID string) (*model.Student, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	st, err := s.state.student(studentID)
	if err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

// Students возвращает активных учениц, отсортированных по имени
func (s *BookingService) Students() []*model.Student {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	list := s.state.sortedStudents()
	out := make([]*model.Student, 0, len(list))
	for _, st := range list {
		out = append(out, st.Clone())
	}
	return out
}

// PermanentClasses возвращает копии слотов с постоянной записью ученицы
func (s *BookingService) PermanentClasses(studentID string) []*model.ClassSlot {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	var out []*model.ClassSlot
	for _, slot := range s.state.schedule.PermanentClasses(studentID) {
		out = append(out, slot.Clone())
	}
	return out
}

// FindClass находит слот по коду вида "M9"
func (s *BookingService) FindClass(code string) (string, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	slot, err := s.state.schedule.FindByCode(strings.ToUpper(code))
	if err != nil {
		return "", ErrClassNotFound
	}
	return slot.ID, nil
}

// StudentICS календарь постоянных занятий ученицы на weeks недель вперёд от from.
// Даты, где ученица отмечена отсутствующей, и отменённые классы пропускаются.
func (s *BookingService) StudentICS(studentID string, from time.Time, weeks int) (string, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	student, err := s.state.student(studentID)
	if err != nil {
		return "", err
	}

	to := from.AddDate(0, 0, 7*weeks)
	var events []calendar.Event
	for _, slot := range s.state.schedule.All() {
		if slot.IsCancelled {
			continue
		}
		dates, err := calendar.Occurrences(slot.Weekday, slot.Hour, from, to)
		if err != nil {
			return "", fmt.Errorf("expand class %s: %w", slot.ID, err)
		}
		for _, date := range dates {
			if !attendance.Resolve(slot, date).PresentIDs.Has(studentID) {
				continue
			}
			day, err := calendar.ParseDate(date, from.Location())
			if err != nil {
				return "", err
			}
			start := day.Add(time.Duration(slot.Hour) * time.Hour)
			events = append(events, calendar.Event{
				UID:     fmt.Sprintf("%s-%s-%s@studio", slot.ID, date, studentID),
				Summary: fmt.Sprintf("Clase %s", slot.ID),
				Start:   start,
				End:     start.Add(time.Hour),
			})
		}
	}

	return calendar.BuildICS(student.FullName(), events, time.Now()), nil
}
