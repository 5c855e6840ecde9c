package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/keyboard"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/render"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/state"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	icsWeeksAhead      = 8
	creditHistoryLimit = 10
	maxContactButtons  = 10
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	name := "коллега"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот записи студии: расписание недели, постоянные записи, отсутствия и отработки.\n\n"+
			"ID этого чата: %d\n"+
			"Чтобы получить доступ, попросите владельца добавить его в STAFF_CHAT_IDS.\n\n"+
			"Справка: /help",
		name,
		chatID,
	)

	h.sendMessage(ctx, b, chatID, text)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам\n\n" +
		"Код класса: буква дня и час (L16, M8, X10, J17, V9).\n" +
		"Дата: 2025-03-10, 10/03/2025 или hoy.\n\n" +
		"Расписание:\n" +
		"/week [дата] - сетка недели\n" +
		"/class КОД [дата] - состав класса\n" +
		"/candidates КОД ДАТА [поиск] - кого можно записать на отработку\n" +
		"/cancelclass КОД - отменить или вернуть класс\n\n" +
		"Записи:\n" +
		"/assign КОД С_ДАТЫ имя - постоянная запись\n" +
		"/unassign КОД имя - снять постоянную запись\n" +
		"/absent КОД ДАТА имя - отсутствие с предупреждением (+1 отработка)\n" +
		"/noshow КОД ДАТА имя - отсутствие без предупреждения\n" +
		"/restore КОД ДАТА имя - снять отсутствие\n" +
		"/makeup КОД ДАТА имя - отработка (-1 отработка)\n" +
		"/guest КОД ДАТА имя - разовое посещение\n" +
		"/unbook КОД ДАТА имя - снять с класса на дату\n\n" +
		"Ученицы:\n" +
		"/students [поиск] - список\n" +
		"/newstudent - добавить ученицу\n" +
		"/setplan N имя - поменять план\n" +
		"/setlevel УРОВЕНЬ имя - поменять уровень\n" +
		"/credits имя - отработки и история\n" +
		"/ics имя - календарь занятий\n" +
		"/deletestudent имя - удалить ученицу\n\n" +
		"Оплаты:\n" +
		"/pay [ГГГГ-ММ] имя - отметить оплату\n" +
		"/unpay [ГГГГ-ММ] имя - снять оплату\n" +
		"/unpaid [ГГГГ-ММ] - кто не оплатил\n\n" +
		"/cancel - прервать диалог"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleWeek обрабатывает команду /week [дата]
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	date := calendar.Today(h.cfg.Location)
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		var err error
		if date, err = parseDateArg(args[0], h.cfg.Location); err != nil {
			h.sendServiceError(ctx, b, chatID, "week", err)
			return
		}
	}

	h.sendWeek(ctx, b, chatID, date)
}

// sendWeek отправляет картинку недели с кнопками соседних недель
func (h *Handlers) sendWeek(ctx context.Context, b *bot.Bot, chatID int64, date string) {
	week, err := h.booking.WeekOverview(date, h.cfg.Location)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "week", err)
		return
	}

	img, err := render.WeekImage(week, calendar.Today(h.cfg.Location))
	if err != nil {
		h.logger.Error("Failed to render week", zap.String("date", date), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось нарисовать расписание.")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(img)},
		Caption:     fmt.Sprintf("📅 Неделя %s - %s", week[0].Date, week[len(week)-1].Date),
		ReplyMarkup: weekKeyboard(week[0].Date, h.cfg.Location),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// weekKeyboard кнопки перехода на предыдущую и следующую неделю
func weekKeyboard(monday string, loc *time.Location) *models.InlineKeyboardMarkup {
	t, err := calendar.ParseDate(monday, loc)
	if err != nil {
		return keyboard.Inline()
	}

	prev := calendar.FormatDate(calendar.ShiftWeek(t, -1))
	next := calendar.FormatDate(calendar.ShiftWeek(t, 1))

	return keyboard.Inline(keyboard.Row(
		keyboard.Callback("⬅️ Пред. неделя", WeekCallback+prev),
		keyboard.Callback("След. неделя ➡️", WeekCallback+next),
	))
}

// HandleClass обрабатывает команду /class КОД [дата]
func (h *Handlers) HandleClass(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.sendServiceError(ctx, b, chatID, "class", errMissingArgs)
		return
	}

	date := calendar.Today(h.cfg.Location)
	if len(args) > 1 {
		var err error
		if date, err = parseDateArg(args[1], h.cfg.Location); err != nil {
			h.sendServiceError(ctx, b, chatID, "class", err)
			return
		}
	}

	classID, err := h.booking.FindClass(args[0])
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "class", err)
		return
	}

	view, err := h.booking.ClassView(classID, date)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "class", err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatClassView(view))
}

// HandleCandidates обрабатывает команду /candidates КОД ДАТА [поиск]
func (h *Handlers) HandleCandidates(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendServiceError(ctx, b, chatID, "candidates", errMissingArgs)
		return
	}

	classID, err := h.booking.FindClass(args[0])
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "candidates", err)
		return
	}
	date, err := parseDateArg(args[1], h.cfg.Location)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "candidates", err)
		return
	}

	candidates, err := h.booking.Candidates(classID, date, strings.Join(args[2:], " "), true)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "candidates", err)
		return
	}

	if len(candidates) == 0 {
		h.sendMessage(ctx, b, chatID, "Нет учениц с отработками для этого класса.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎟 Можно записать на отработку в %s %s:\n\n", classID, date)
	for i, c := range candidates {
		mark := "✅"
		if !c.LevelCompatible {
			mark = "⚠️"
		}
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, mark, formatStudentLine(c.Student))
	}
	sb.WriteString("\n⚠️ уровень ниже уровня класса")

	h.sendMessage(ctx, b, chatID, sb.String())
}

// HandleCredits обрабатывает команду /credits имя
func (h *Handlers) HandleCredits(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	student, err := h.resolveStudent(strings.Join(commandArgs(update.Message.Text), " "))
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "credits", err)
		return
	}

	history, err := h.credits.CreditHistory(ctx, student.ID, creditHistoryLimit)
	if err != nil {
		h.logger.Error("Failed to load credit history", zap.String("student_id", student.ID), zap.Error(err))
	}

	h.sendMessage(ctx, b, chatID, formatCredits(student, history, h.booking.PermanentClasses(student.ID)))
}

// HandleICS обрабатывает команду /ics имя: файл календаря на ближайшие недели
func (h *Handlers) HandleICS(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	student, err := h.resolveStudent(strings.Join(commandArgs(update.Message.Text), " "))
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "ics", err)
		return
	}

	from := calendar.StartOfDay(time.Now().In(h.cfg.Location))
	ics, err := h.booking.StudentICS(student.ID, from, icsWeeksAhead)
	if err != nil {
		h.sendServiceError(ctx, b, chatID, "ics", err)
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: "clases-" + strings.ReplaceAll(strings.ToLower(student.FullName()), " ", "-") + ".ics",
			Data:     strings.NewReader(ics),
		},
		Caption: fmt.Sprintf("📆 Занятия %s на %d недель", student.FullName(), icsWeeksAhead),
	})
	if err != nil {
		h.logger.Error("Failed to send ics", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleUnpaid обрабатывает команду /unpaid [ГГГГ-ММ]
func (h *Handlers) HandleUnpaid(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	now := time.Now().In(h.cfg.Location)
	month, _ := parseMonthArgs(commandArgs(update.Message.Text), now)
	unpaid := h.payments.Unpaid(month)

	if len(unpaid) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ За %s оплатили все.", month))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💸 Не оплатили %s: %d\n", month, len(unpaid))
	if month == calendar.MonthKeyOf(now) && service.IsPastDeadline(now) {
		fmt.Fprintf(&sb, "⚠️ Срок оплаты (%d число) прошёл\n", service.PaymentDeadlineDay)
	}
	sb.WriteString("\n")

	var contacts [][]models.InlineKeyboardButton
	for i, st := range unpaid {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, st.FullName())
		if st.Phone != "" && len(contacts) < maxContactButtons {
			contacts = append(contacts, keyboard.Row(keyboard.Link("💬 "+st.FullName(), "https://wa.me/"+service.WhatsAppNumber(st.Phone))))
		}
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ReplyMarkup: keyboard.Inline(contacts...),
	})
	if err != nil {
		h.logger.Error("Failed to send unpaid list", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleCancel прерывает текущий диалог
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if h.stateManager.GetState(chatID) == state.StateNone {
		h.sendMessage(ctx, b, chatID, "Нечего отменять.")
		return
	}

	h.stateManager.Clear(chatID)
	h.sendMessage(ctx, b, chatID, "❌ Диалог прерван.")
}
