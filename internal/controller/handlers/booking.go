package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// bookingTarget разобранные аргументы "КОД ДАТА имя"
type bookingTarget struct {
	chatID  int64
	classID string
	date    string
	student *model.Student
}

// parseBookingTarget проверяет доступ и разбирает аргументы команды записи
func (h *Handlers) parseBookingTarget(ctx context.Context, b *bot.Bot, update *models.Update, op string) (bookingTarget, bool) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return bookingTarget{}, false
	}

	args, err := parseClassDateArgs(commandArgs(update.Message.Text), h.cfg.Location)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, op, err)
		return bookingTarget{}, false
	}

	classID, err := h.booking.FindClass(args.Code)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, op, err)
		return bookingTarget{}, false
	}

	student, err := h.resolveStudent(args.Student)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, op, err)
		return bookingTarget{}, false
	}

	return bookingTarget{chatID: chatID, classID: classID, date: args.Date, student: student}, true
}

// HandleAssign обрабатывает команду /assign КОД С_ДАТЫ имя
func (h *Handlers) HandleAssign(ctx context.Context, b *bot.Bot, update *models.Update) {
	t, ok := h.parseBookingTarget(ctx, b, update, "assign")
	if !ok {
		return
	}

	if err := h.booking.AssignPermanent(ctx, t.student.ID, t.classID, t.date); err != nil {
		h.sendServiceError(ctx, b, t.chatID, "assign", err)
		return
	}

	h.sendMessage(ctx, b, t.chatID, fmt.Sprintf("✅ %s теперь постоянно в %s с первого занятия начиная с %s.", t.student.FullName(), t.classID, t.date))
}

// HandleUnassign обрабатывает команду /unassign КОД имя
func (h *Handlers) HandleUnassign(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendServiceError(ctx, b, chatID, "unassign", errMissingArgs)
		return
	}

	classID, err := h.booking.FindClass(args[0])
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "unassign", err)
		return
	}
	student, err := h.resolveStudent(strings.Join(args[1:], " "))
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "unassign", err)
		return
	}

	if err := h.booking.UnassignPermanent(ctx, student.ID, classID); err != nil {
		h.sendServiceError(ctx, b, chatID, "unassign", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ %s больше не ходит в %s.", student.FullName(), classID))
}

// HandleAbsent обрабатывает команду /absent: отсутствие с предупреждением даёт отработку
func (h *Handlers) HandleAbsent(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.markAbsent(ctx, b, update, true)
}

// HandleNoShow обрабатывает команду /noshow: отсутствие без отработки
func (h *Handlers) HandleNoShow(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.markAbsent(ctx, b, update, false)
}

func (h *Handlers) markAbsent(ctx context.Context, b *bot.Bot, update *models.Update, withNotice bool) {
	t, ok := h.parseBookingTarget(ctx, b, update, "absent")
	if !ok {
		return
	}

	outcome, err := h.booking.MarkAbsentForDay(ctx, t.student.ID, t.classID, t.date, withNotice)
	if err != nil {
		h.sendServiceError(ctx, b, t.chatID, "absent", err)
		return
	}

	var text string
	switch outcome {
	case service.AbsenceAlreadyRecorded:
		text = fmt.Sprintf("ℹ️ %s уже отмечена отсутствующей в %s %s.", t.student.FullName(), t.classID, t.date)
	case service.OneTimeBookingRemoved:
		text = fmt.Sprintf("✅ Разовая запись %s в %s %s снята. Отработка не начисляется.", t.student.FullName(), t.classID, t.date)
	default:
		text = fmt.Sprintf("✅ %s не придёт в %s %s.", t.student.FullName(), t.classID, t.date)
		if withNotice {
			text += "\n🎟 Начислена отработка."
		}
	}

	h.sendMessage(ctx, b, t.chatID, text)
}

// HandleRestore обрабатывает команду /restore КОД ДАТА имя
func (h *Handlers) HandleRestore(ctx context.Context, b *bot.Bot, update *models.Update) {
	t, ok := h.parseBookingTarget(ctx, b, update, "restore")
	if !ok {
		return
	}

	if err := h.booking.RestoreForDay(ctx, t.student.ID, t.classID, t.date); err != nil {
		h.sendServiceError(ctx, b, t.chatID, "restore", err)
		return
	}

	h.sendMessage(ctx, b, t.chatID, fmt.Sprintf("✅ %s снова в %s %s.", t.student.FullName(), t.classID, t.date))
}

// HandleMakeup обрабатывает команду /makeup КОД ДАТА имя
func (h *Handlers) HandleMakeup(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.addOneTime(ctx, b, update, true)
}

// HandleGuest обрабатывает команду /guest КОД ДАТА имя
func (h *Handlers) HandleGuest(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.addOneTime(ctx, b, update, false)
}

func (h *Handlers) addOneTime(ctx context.Context, b *bot.Bot, update *models.Update, makeup bool) {
	op := "guest"
	if makeup {
		op = "makeup"
	}

	t, ok := h.parseBookingTarget(ctx, b, update, op)
	if !ok {
		return
	}

	warning := h.levelWarning(t)

	var err error
	if makeup {
		err = h.booking.RedeemMakeup(ctx, t.student.ID, t.classID, t.date)
	} else {
		err = h.booking.AddGuestVisit(ctx, t.student.ID, t.classID, t.date)
	}
	if err != nil {
		h.sendServiceError(ctx, b, t.chatID, op, err)
		return
	}

	text := fmt.Sprintf("✅ %s записана в %s %s.", t.student.FullName(), t.classID, t.date)
	if makeup {
		if st, err := h.booking.Student(t.student.ID); err == nil {
			text += fmt.Sprintf("\n🎟 Осталось: %d %s", st.MakeupCredits, pluralizeCredits(st.MakeupCredits))
		}
	}
	text += warning

	h.sendMessage(ctx, b, t.chatID, text)
}

// levelWarning предупреждение, если уровень ученицы ниже уровня класса
func (h *Handlers) levelWarning(t bookingTarget) string {
	candidates, err := h.booking.Candidates(t.classID, t.date, t.student.FullName(), false)
	if err != nil {
		return ""
	}
	for _, c := range candidates {
		if c.Student.ID == t.student.ID && !c.LevelCompatible {
			return "\n⚠️ Уровень ученицы ниже уровня класса."
		}
	}
	return ""
}

// HandleUnbook обрабатывает команду /unbook: разовая запись снимается,
// постоянная отмечается отсутствием без отработки
func (h *Handlers) HandleUnbook(ctx context.Context, b *bot.Bot, update *models.Update) {
	t, ok := h.parseBookingTarget(ctx, b, update, "unbook")
	if !ok {
		return
	}

	presence, err := h.booking.Presence(t.classID, t.date)
	if err != nil {
		h.sendServiceError(ctx, b, t.chatID, "unbook", err)
		return
	}

	switch presence.Source(t.student.ID) {
	case attendance.SourceOneTime, attendance.SourceBoth:
		err = h.booking.RemoveOneTimeBooking(ctx, t.student.ID, t.classID, t.date)
	case attendance.SourcePermanent:
		_, err = h.booking.MarkAbsentForDay(ctx, t.student.ID, t.classID, t.date, false)
	default:
		err = service.ErrBookingNotFound
	}
	if err != nil {
		h.sendServiceError(ctx, b, t.chatID, "unbook", err)
		return
	}

	h.sendMessage(ctx, b, t.chatID, fmt.Sprintf("✅ %s снята с %s %s.", t.student.FullName(), t.classID, t.date))
}

// HandleCancelClass обрабатывает команду /cancelclass КОД: повторный вызов возвращает класс
func (h *Handlers) HandleCancelClass(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.sendServiceError(ctx, b, chatID, "cancel class", errMissingArgs)
		return
	}

	classID, err := h.booking.FindClass(args[0])
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "cancel class", err)
		return
	}

	cancelled, err := h.booking.ToggleClassCancellation(ctx, classID)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "cancel class", err)
		return
	}

	h.logger.Info("Class cancellation toggled from chat",
		zap.Int64("chat_id", chatID),
		zap.String("class_id", classID),
		zap.Bool("cancelled", cancelled),
		zap.String("today", calendar.Today(h.cfg.Location)),
	)

	if cancelled {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("🚫 Класс %s отменён. Записи сохранены, разовые записи на него невозможны.", classID))
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Класс %s снова в расписании.", classID))
}
