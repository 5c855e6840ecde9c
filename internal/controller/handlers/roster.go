package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/keyboard"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// parseLevelArg принимает basic/medium/advanced, B/M/A и русские названия уровней
func parseLevelArg(s string) (model.Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for level, name := range levelNames {
		if s == name {
			return level, true
		}
	}
	switch s {
	case "b", string(model.LevelBasic):
		return model.LevelBasic, true
	case "m", "a", string(model.LevelMedium), string(model.LevelAdvanced):
		return model.ParseLevel(s), true
	}
	return "", false
}

// parsePlanArg план 1-3
func parsePlanArg(s string) (model.Plan, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !model.Plan(n).IsValid() {
		return 0, false
	}
	return model.Plan(n), true
}

func inputFromStudent(st *model.Student) service.StudentInput {
	return service.StudentInput{
		Name:           st.Name,
		Surname:        st.Surname,
		Phone:          st.Phone,
		Level:          st.Level,
		EnrollmentDate: st.EnrollmentDate,
		Plan:           st.Plan,
	}
}

// HandleStudents обрабатывает команду /students [поиск]
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	query := strings.Join(commandArgs(update.Message.Text), " ")
	list := h.students.ListStudents()
	if query != "" {
		list = h.students.FindStudents(query)
	}

	h.sendMessage(ctx, b, chatID, formatStudentList(list))
}

// HandleSetPlan обрабатывает команду /setplan N имя
func (h *Handlers) HandleSetPlan(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.updateProfile(ctx, b, update, "set plan", func(in *service.StudentInput, arg string) bool {
		plan, ok := parsePlanArg(arg)
		in.Plan = plan
		return ok
	})
}

// HandleSetLevel обрабатывает команду /setlevel УРОВЕНЬ имя
func (h *Handlers) HandleSetLevel(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.updateProfile(ctx, b, update, "set level", func(in *service.StudentInput, arg string) bool {
		level, ok := parseLevelArg(arg)
		in.Level = level
		return ok
	})
}

// updateProfile меняет одно поле профиля: первый аргумент значение, остальные имя
func (h *Handlers) updateProfile(ctx context.Context, b *bot.Bot, update *models.Update, op string, apply func(in *service.StudentInput, arg string) bool) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendServiceError(ctx, b, chatID, op, errMissingArgs)
		return
	}

	student, err := h.resolveStudent(strings.Join(args[1:], " "))
	if err != nil {
		h.sendServiceError(ctx, b, chatID, op, err)
		return
	}

	in := inputFromStudent(student)
	if !apply(&in, args[0]) {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Неверное значение %q.", args[0]))
		return
	}

	updated, err := h.students.UpdateStudent(ctx, student.ID, in)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, op, err)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Сохранено\n"+formatStudentLine(updated))
}

// HandleDeleteStudent обрабатывает команду /deletestudent имя: удаление после подтверждения
func (h *Handlers) HandleDeleteStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	student, err := h.resolveStudent(strings.Join(commandArgs(update.Message.Text), " "))
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "delete student", err)
		return
	}

	kb := keyboard.Inline(keyboard.Row(
		keyboard.Callback("🗑 Удалить", DeleteStudentCallback+student.ID),
		keyboard.Callback("Отмена", DeleteCancelCallback),
	))

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf("Удалить %s?\n\nПостоянные записи и оплаты будут удалены, отметки о посещениях останутся в журнале.",
			student.FullName()),
		ReplyMarkup: kb,
	})
	if err != nil {
		h.logger.Error("Failed to send delete confirmation", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandlePay обрабатывает команду /pay [ГГГГ-ММ] имя
func (h *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	now := time.Now().In(h.cfg.Location)
	month, query := parseMonthArgs(commandArgs(update.Message.Text), now)
	student, err := h.resolveStudent(query)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "pay", err)
		return
	}

	if paidOn := h.payments.PaidOn(student.ID, month); paidOn != "" {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("ℹ️ %s уже оплатила %s (%s).", student.FullName(), month, paidOn))
		return
	}

	if err := h.payments.MarkPayment(ctx, student.ID, month, calendar.FormatDate(now)); err != nil {
		h.sendServiceError(ctx, b, chatID, "pay", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("💰 %s оплатила %s.", student.FullName(), month))
}

// HandleUnpay обрабатывает команду /unpay [ГГГГ-ММ] имя
func (h *Handlers) HandleUnpay(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	month, query := parseMonthArgs(commandArgs(update.Message.Text), time.Now().In(h.cfg.Location))
	student, err := h.resolveStudent(query)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "unpay", err)
		return
	}

	if err := h.payments.UndoPayment(ctx, student.ID, month); err != nil {
		h.sendServiceError(ctx, b, chatID, "unpay", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("↩️ Оплата %s за %s снята.", student.FullName(), month))
}
