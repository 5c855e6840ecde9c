package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/state"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	studentNameMaxLength = 100
	skipWord             = "-"
)

// HandleNewStudentStart начинает диалог создания ученицы
func (h *Handlers) HandleNewStudentStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.Clear(chatID)
	h.stateManager.SetState(chatID, state.StateNewStudentName)

	h.logger.Info("Starting student creation", zap.Int64("chat_id", chatID))

	h.sendMessage(ctx, b, chatID, "👩 Новая ученица\n\n"+
		"Шаг 1 из 6: Имя?\n\n"+
		"Для отмены используйте /cancel")
}

// HandleTextMessage обрабатывает текст вне команд: шаги активного диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	current := h.stateManager.GetState(chatID)
	if current == state.StateNone {
		return
	}
	if !h.cfg.IsStaff(chatID) {
		h.stateManager.Clear(chatID)
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	reply, err := h.advanceNewStudent(current, chatID, text)
	if err != nil {
		h.sendError(ctx, b, chatID, err.Error())
		return
	}

	if h.stateManager.GetState(chatID) != state.StateNone {
		h.sendMessage(ctx, b, chatID, reply)
		return
	}

	h.finishNewStudent(ctx, b, chatID)
}

// advanceNewStudent принимает ответ на текущий шаг и возвращает следующий вопрос.
// После последнего шага состояние StateNone, данные остаются до finishNewStudent.
func (h *Handlers) advanceNewStudent(current state.DialogState, chatID int64, text string) (string, error) {
	switch current {
	case state.StateNewStudentName:
		if text == "" || len([]rune(text)) > studentNameMaxLength {
			return "", fmt.Errorf("❌ Имя должно быть от 1 до %d символов. Попробуйте ещё раз:", studentNameMaxLength)
		}
		h.stateManager.Set(chatID, state.KeyName, text, state.StateNewStudentSurname)
		return fmt.Sprintf("✅ Имя: %s\n\nШаг 2 из 6: Фамилия? (%s, чтобы пропустить)", text, skipWord), nil

	case state.StateNewStudentSurname:
		if text == skipWord {
			text = ""
		}
		if len([]rune(text)) > studentNameMaxLength {
			return "", fmt.Errorf("❌ Фамилия слишком длинная. Максимум %d символов:", studentNameMaxLength)
		}
		h.stateManager.Set(chatID, state.KeySurname, text, state.StateNewStudentPhone)
		return fmt.Sprintf("Шаг 3 из 6: Телефон? (%s, чтобы пропустить)", skipWord), nil

	case state.StateNewStudentPhone:
		phone := ""
		if text != skipWord {
			phone = service.NormalizePhone(text)
			if phone == "" {
				return "", errors.New("❌ В телефоне нет цифр. Попробуйте ещё раз:")
			}
		}
		h.stateManager.Set(chatID, state.KeyPhone, phone, state.StateNewStudentLevel)
		return "Шаг 4 из 6: Уровень? (начальный, средний, продвинутый)", nil

	case state.StateNewStudentLevel:
		level, ok := parseLevelArg(text)
		if !ok {
			return "", errors.New("❌ Неизвестный уровень. Варианты: начальный, средний, продвинутый:")
		}
		h.stateManager.Set(chatID, state.KeyLevel, string(level), state.StateNewStudentPlan)
		return "Шаг 5 из 6: План? Сколько раз в неделю: 1, 2 или 3", nil

	case state.StateNewStudentPlan:
		plan, ok := parsePlanArg(text)
		if !ok {
			return "", errors.New("❌ План: 1, 2 или 3. Попробуйте ещё раз:")
		}
		h.stateManager.Set(chatID, state.KeyPlan, fmt.Sprint(int(plan)), state.StateNewStudentEnrollment)
		return "Шаг 6 из 6: Дата зачисления? (hoy, 2025-03-10 или 10/03/2025)", nil

	case state.StateNewStudentEnrollment:
		date, err := parseDateArg(text, h.cfg.Location)
		if err != nil {
			return "", errors.New("❌ Неверная дата. Попробуйте ещё раз:")
		}
		h.stateManager.Set(chatID, state.KeyEnrollment, date, state.StateNone)
		return "", nil
	}

	h.stateManager.Clear(chatID)
	return "", errors.New("❌ Диалог устарел, начните заново")
}

// finishNewStudent сохраняет ученицу из данных диалога
func (h *Handlers) finishNewStudent(ctx context.Context, b *bot.Bot, chatID int64) {
	data := h.stateManager.Data(chatID)
	h.stateManager.Clear(chatID)

	in := newStudentInput(data)
	student, err := h.students.CreateStudent(ctx, in)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "create student", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Ученица добавлена\n%s\nС %s\n\nЗаписать в класс: /assign КОД %s %s",
		formatStudentLine(student), student.EnrollmentDate, calendar.Today(h.cfg.Location), student.FullName()))
}

func newStudentInput(data map[string]string) service.StudentInput {
	plan, _ := parsePlanArg(data[state.KeyPlan])
	return service.StudentInput{
		Name:           data[state.KeyName],
		Surname:        data[state.KeySurname],
		Phone:          data[state.KeyPhone],
		Level:          model.Level(data[state.KeyLevel]),
		EnrollmentDate: data[state.KeyEnrollment],
		Plan:           plan,
	}
}
