package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/config"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/state"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDialogHandlers() *Handlers {
	return &Handlers{
		stateManager: state.NewManager(),
		cfg:          &config.Config{Location: time.UTC},
	}
}

func TestNewStudentDialog(t *testing.T) {
	h := newDialogHandlers()
	const chatID = 42
	h.stateManager.SetState(chatID, state.StateNewStudentName)

	steps := []struct {
		text string
		next state.DialogState
	}{
		{"Lucia", state.StateNewStudentSurname},
		{"Gomez", state.StateNewStudentPhone},
		{"+54 9 11 2233-4455", state.StateNewStudentLevel},
		{"средний", state.StateNewStudentPlan},
		{"2", state.StateNewStudentEnrollment},
		{"03/03/2025", state.StateNone},
	}
	for _, step := range steps {
		_, err := h.advanceNewStudent(h.stateManager.GetState(chatID), chatID, step.text)
		require.NoError(t, err, step.text)
		assert.Equal(t, step.next, h.stateManager.GetState(chatID), step.text)
	}

	in := newStudentInput(h.stateManager.Data(chatID))
	assert.Equal(t, service.StudentInput{
		Name:           "Lucia",
		Surname:        "Gomez",
		Phone:          "22334455",
		Level:          model.LevelMedium,
		EnrollmentDate: "2025-03-03",
		Plan:           model.PlanTwo,
	}, in)
}

func TestNewStudentDialogRejectsBadInput(t *testing.T) {
	h := newDialogHandlers()
	const chatID = 7

	h.stateManager.SetState(chatID, state.StateNewStudentLevel)
	_, err := h.advanceNewStudent(state.StateNewStudentLevel, chatID, "experta")
	require.Error(t, err)
	assert.Equal(t, state.StateNewStudentLevel, h.stateManager.GetState(chatID))

	h.stateManager.SetState(chatID, state.StateNewStudentPlan)
	_, err = h.advanceNewStudent(state.StateNewStudentPlan, chatID, "4")
	require.Error(t, err)

	h.stateManager.SetState(chatID, state.StateNewStudentPhone)
	_, err = h.advanceNewStudent(state.StateNewStudentPhone, chatID, "nope")
	require.Error(t, err)

	_, err = h.advanceNewStudent(state.StateNewStudentPhone, chatID, "-")
	require.NoError(t, err)
	phone, _ := h.stateManager.Get(chatID, state.KeyPhone)
	assert.Empty(t, phone)
}

func TestNewStudentDialogSkipsSurname(t *testing.T) {
	h := newDialogHandlers()
	const chatID = 9

	h.stateManager.SetState(chatID, state.StateNewStudentSurname)
	_, err := h.advanceNewStudent(state.StateNewStudentSurname, chatID, "-")
	require.NoError(t, err)

	surname, ok := h.stateManager.Get(chatID, state.KeySurname)
	assert.True(t, ok)
	assert.Empty(t, surname)
}

func TestParseProfileArgs(t *testing.T) {
	level, ok := parseLevelArg("A")
	assert.True(t, ok)
	assert.Equal(t, model.LevelAdvanced, level)

	level, ok = parseLevelArg("Начальный")
	assert.True(t, ok)
	assert.Equal(t, model.LevelBasic, level)

	_, ok = parseLevelArg("pro")
	assert.False(t, ok)

	plan, ok := parsePlanArg("3")
	assert.True(t, ok)
	assert.Equal(t, model.PlanThree, plan)

	_, ok = parsePlanArg("0")
	assert.False(t, ok)
}
