package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/schedule"
	"gopkg.in/yaml.v3"
)

type timetableFile struct {
	Days []timetableDay `yaml:"days"`
}

type timetableDay struct {
	Weekday string `yaml:"weekday"`
	Code    string `yaml:"code"`
	Hours   []int  `yaml:"hours"`
}

// LoadTimetable читает сетку студии из YAML файла
func LoadTimetable(path string) (schedule.Timetable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timetable: %w", err)
	}
	return ParseTimetable(data)
}

// ParseTimetable разбирает сетку вида
//
//	days:
//	  - weekday: monday
//	    code: L
//	    hours: [16, 17, 18, 19]
func ParseTimetable(data []byte) (schedule.Timetable, error) {
	var file timetableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse timetable: %w", err)
	}

	tt := make(schedule.Timetable, 0, len(file.Days))
	for _, d := range file.Days {
		wd, err := calendar.ParseWeekday(d.Weekday)
		if err != nil {
			return nil, fmt.Errorf("parse timetable: %w", err)
		}
		tt = append(tt, schedule.TimetableDay{
			Weekday: wd,
			Code:    strings.ToUpper(strings.TrimSpace(d.Code)),
			Hours:   d.Hours,
		})
	}

	if err := tt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timetable: %w", err)
	}
	return tt, nil
}
