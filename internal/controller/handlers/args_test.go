package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandParsing(t *testing.T) {
	assert.Equal(t, "/assign", commandName("/assign L16 2025-03-10 Ana"))
	assert.Equal(t, "/week", commandName("/Week@studio_bot 2025-03-10"))
	assert.Equal(t, "", commandName("Ana"))
	assert.Equal(t, "", commandName("   "))

	assert.Equal(t, []string{"L16", "2025-03-10", "Ana", "Gomez"}, commandArgs("/assign  L16 2025-03-10 Ana Gomez"))
	assert.Empty(t, commandArgs("/week"))
	assert.Nil(t, commandArgs(""))
}

func TestCommandMatch(t *testing.T) {
	match := CommandMatch("/cancel")

	assert.True(t, match(&models.Update{Message: &models.Message{Text: "/cancel"}}))
	assert.False(t, match(&models.Update{Message: &models.Message{Text: "/cancelclass L16"}}))
	assert.False(t, match(&models.Update{}))
}

func TestParseDateArg(t *testing.T) {
	date, err := parseDateArg("10/03/2025", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", date)

	date, err = parseDateArg("HOY", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), date)

	_, err = parseDateArg("martes", time.UTC)
	assert.ErrorIs(t, err, service.ErrInvalidDate)
}

func TestParseClassDateArgs(t *testing.T) {
	args, err := parseClassDateArgs([]string{"m8", "2025-03-11", "Lucia", "Gomez"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, classDateArgs{Code: "m8", Date: "2025-03-11", Student: "Lucia Gomez"}, args)

	_, err = parseClassDateArgs([]string{"M8", "2025-03-11"}, time.UTC)
	assert.ErrorIs(t, err, errMissingArgs)

	_, err = parseClassDateArgs([]string{"M8", "31/02/2025", "Ana"}, time.UTC)
	assert.ErrorIs(t, err, service.ErrInvalidDate)
}

func TestParseMonthArgs(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	month, student := parseMonthArgs([]string{"2025-02", "Ana", "Gomez"}, now)
	assert.Equal(t, "2025-02", month)
	assert.Equal(t, "Ana Gomez", student)

	month, student = parseMonthArgs([]string{"Ana"}, now)
	assert.Equal(t, "2025-03", month)
	assert.Equal(t, "Ana", student)

	month, _ = parseMonthArgs([]string{"2025-13"}, now)
	assert.Equal(t, "2025-03", month)
}

func TestPickStudent(t *testing.T) {
	ana := &model.Student{ID: "1", Name: "Ana"}
	anaMaria := &model.Student{ID: "2", Name: "Ana", Surname: "Maria"}

	st, err := pickStudent("ana", []*model.Student{ana, anaMaria})
	require.NoError(t, err)
	assert.Equal(t, "1", st.ID)

	st, err = pickStudent("maria", []*model.Student{anaMaria})
	require.NoError(t, err)
	assert.Equal(t, "2", st.ID)

	_, err = pickStudent("an", []*model.Student{{ID: "3", Name: "Ana", Surname: "B"}, anaMaria})
	assert.ErrorIs(t, err, errStudentAmbig)

	_, err = pickStudent("zoe", nil)
	assert.ErrorIs(t, err, errStudentNone)

	_, err = pickStudent(" ", nil)
	assert.ErrorIs(t, err, errNoStudentName)
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, userMessage(service.ErrCapacityExceeded), "нет свободных мест")
	assert.Contains(t, userMessage(&service.PersistenceError{Op: "assign", Err: errors.New("down")}), "Не удалось сохранить")
	assert.Contains(t, userMessage(errors.New("boom")), "Произошла ошибка")
	assert.Contains(t, userMessage(errMissingArgs), "/help")
	assert.Contains(t, userMessage(service.ErrDateNotInClass), "день недели не совпадает")
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "отработка", pluralizeCredits(1))
	assert.Equal(t, "отработки", pluralizeCredits(3))
	assert.Equal(t, "отработок", pluralizeCredits(11))
	assert.Equal(t, "отработка", pluralizeCredits(21))
	assert.Equal(t, "учениц", pluralizeStudents(0))
}

func TestFormatClassView(t *testing.T) {
	view := &service.ClassView{
		ClassID:   "L16",
		Weekday:   time.Monday,
		Hour:      16,
		Date:      "2025-03-10",
		Occupancy: 1,
		Capacity:  5,
		LevelRank: model.LevelMedium.Rank(),
		AbsentIDs: []string{"x"},
		Present: []service.PresentStudent{
			{Student: &model.Student{Name: "Lucia", Surname: "Gomez", Level: model.LevelMedium}, Source: attendance.SourceOneTime},
		},
	}

	text := formatClassView(view)
	assert.Contains(t, text, "Класс L16 · Понедельник 2025-03-10, 16:00")
	assert.Contains(t, text, "Занято: 1/5")
	assert.Contains(t, text, "Уровень: средний")
	assert.Contains(t, text, "1. Lucia Gomez (средний, разовая)")
	assert.Contains(t, text, "Отсутствуют: 1")

	empty := formatClassView(&service.ClassView{ClassID: "V8", Weekday: time.Friday, Hour: 8, Date: "2025-03-14", Capacity: 5, LevelRank: model.NoLevelRank, IsCancelled: true})
	assert.Contains(t, empty, "Класс отменён")
	assert.Contains(t, empty, "Уровень: любой")
	assert.Contains(t, empty, "Никто не записан.")
}

func TestFormatCredits(t *testing.T) {
	st := &model.Student{Name: "Ana", MakeupCredits: 2}
	history := []*model.CreditMovement{
		{ClassID: "L16", Date: "2025-03-10", Delta: 1, BalanceAfter: 2, Reason: model.CreditReasonAbsence},
	}
	text := formatCredits(st, history, []*model.ClassSlot{{ID: "L16"}, {ID: "J9"}})

	assert.Contains(t, text, "Баланс: 2 отработки")
	assert.Contains(t, text, "Постоянные классы: L16, J9")
	assert.Contains(t, text, "+1 · L16 2025-03-10 · отсутствие с предупреждением → 2")
}
