package schedule

import (
	"fmt"
	"sort"
	"time"
)

// TimetableDay часы занятий одного дня недели
type TimetableDay struct {
	Weekday time.Weekday
	Code    string // буквенный код дня, из него строится ID класса (L16, M8 ...)
	Hours   []int
}

// Timetable фиксированная сетка студии, задаётся конфигурацией
type Timetable []TimetableDay

// DefaultTimetable возвращает сетку студии по умолчанию
func DefaultTimetable() Timetable {
	return Timetable{
		{Weekday: time.Monday, Code: "L", Hours: []int{16, 17, 18, 19}},
		{Weekday: time.Tuesday, Code: "M", Hours: []int{8, 9, 10, 16, 17, 18}},
		{Weekday: time.Wednesday, Code: "X", Hours: []int{9, 10, 16, 17, 18, 19}},
		{Weekday: time.Thursday, Code: "J", Hours: []int{8, 9, 10, 16, 17, 18}},
		{Weekday: time.Friday, Code: "V", Hours: []int{8, 9, 10}},
	}
}

// Validate проверяет сетку: уникальные дни и коды, часы 0-23 без повторов
func (t Timetable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("timetable is empty")
	}

	weekdays := make(map[time.Weekday]bool)
	codes := make(map[string]bool)
	for _, day := range t {
		if len(day.Code) != 1 {
			return fmt.Errorf("weekday %s: code %q must be a single letter", day.Weekday, day.Code)
		}
		if weekdays[day.Weekday] {
			return fmt.Errorf("weekday %s: defined twice", day.Weekday)
		}
		if codes[day.Code] {
			return fmt.Errorf("code %q: used twice", day.Code)
		}
		weekdays[day.Weekday] = true
		codes[day.Code] = true

		hours := make(map[int]bool)
		for _, h := range day.Hours {
			if h < 0 || h > 23 {
				return fmt.Errorf("weekday %s: hour %d out of range", day.Weekday, h)
			}
			if hours[h] {
				return fmt.Errorf("weekday %s: hour %d defined twice", day.Weekday, h)
			}
			hours[h] = true
		}
	}
	return nil
}

// SlotCount число классов в сетке
func (t Timetable) SlotCount() int {
	n := 0
	for _, day := range t {
		n += len(day.Hours)
	}
	return n
}

// ClassID строит идентификатор класса из кода дня и часа
func ClassID(code string, hour int) string {
	return fmt.Sprintf("%s%d", code, hour)
}

func sortedHours(hours []int) []int {
	out := append([]int(nil), hours...)
	sort.Ints(out)
	return out
}
