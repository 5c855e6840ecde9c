package handlers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var (
	errMissingArgs   = errors.New("missing arguments")
	errStudentAmbig  = errors.New("student query is ambiguous")
	errNoStudentName = errors.New("student query is empty")
	errStudentNone   = errors.New("no student matches")
)

var monthKeyRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// todayWords слова, которые означают сегодняшнюю дату
var todayWords = map[string]bool{"hoy": true, "today": true, "сегодня": true}

// commandArgs разбирает текст команды на аргументы без самой команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// commandName возвращает команду без "@botname"
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}

// CommandMatch срабатывает на сообщение с командой name, аргументы разрешены
func CommandMatch(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		return commandName(update.Message.Text) == name
	}
}

// parseDateArg принимает YYYY-MM-DD, DD/MM/YYYY, DD-MM-YY и "hoy"
func parseDateArg(s string, loc *time.Location) (string, error) {
	if todayWords[strings.ToLower(s)] {
		return calendar.Today(loc), nil
	}
	date, err := calendar.NormalizeDate(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrInvalidDate, err)
	}
	return date, nil
}

// classDateArgs аргументы вида "КОД ДАТА имя..."
type classDateArgs struct {
	Code    string
	Date    string
	Student string
}

func parseClassDateArgs(args []string, loc *time.Location) (classDateArgs, error) {
	if len(args) < 3 {
		return classDateArgs{}, errMissingArgs
	}
	date, err := parseDateArg(args[1], loc)
	if err != nil {
		return classDateArgs{}, err
	}
	return classDateArgs{
		Code:    args[0],
		Date:    date,
		Student: strings.Join(args[2:], " "),
	}, nil
}

// parseMonthArgs аргументы вида "[YYYY-MM] имя...". Без месяца берётся текущий.
func parseMonthArgs(args []string, now time.Time) (string, string) {
	if len(args) > 0 && monthKeyRe.MatchString(args[0]) {
		return args[0], strings.Join(args[1:], " ")
	}
	return calendar.MonthKeyOf(now), strings.Join(args, " ")
}

// pickStudent выбирает одну ученицу из результатов поиска.
// Точное совпадение имени выигрывает у совпадения по подстроке.
func pickStudent(query string, found []*model.Student) (*model.Student, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errNoStudentName
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%q: %w", query, errStudentNone)
	case 1:
		return found[0], nil
	}

	for _, st := range found {
		if strings.EqualFold(st.FullName(), query) {
			return st, nil
		}
	}
	return nil, errStudentAmbig
}
