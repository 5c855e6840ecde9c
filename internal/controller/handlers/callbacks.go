package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Форматы callback data
const (
	WeekCallback          = "week:"        // week:2025-03-10
	DeleteStudentCallback = "del_student:" // del_student:<uuid>
	DeleteCancelCallback  = "del_cancel"
)

// HandleCallbackQuery распределяет нажатия inline кнопок
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	msg := callback.Message.Message
	if msg == nil {
		answerCallback(ctx, b, callback.ID, "Сообщение устарело", true)
		return
	}

	chatID := msg.Chat.ID
	if !h.cfg.IsStaff(chatID) {
		answerCallback(ctx, b, callback.ID, "❌ Только для администраторов", true)
		return
	}

	h.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", callback.From.ID),
	)

	data := callback.Data
	switch {
	case strings.HasPrefix(data, WeekCallback):
		answerCallback(ctx, b, callback.ID, "", false)
		h.sendWeek(ctx, b, chatID, strings.TrimPrefix(data, WeekCallback))

	case strings.HasPrefix(data, DeleteStudentCallback):
		h.confirmDeleteStudent(ctx, b, callback, msg, strings.TrimPrefix(data, DeleteStudentCallback))

	case data == DeleteCancelCallback:
		answerCallback(ctx, b, callback.ID, "", false)
		h.editMessage(ctx, b, msg, "Удаление отменено.")

	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		answerCallback(ctx, b, callback.ID, "❌ Неизвестная команда", true)
	}
}

func (h *Handlers) confirmDeleteStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, studentID string) {
	student, err := h.booking.Student(studentID)
	if err != nil {
		answerCallback(ctx, b, callback.ID, userMessage(err), true)
		return
	}

	if err := h.booking.DeleteStudent(ctx, studentID); err != nil {
		h.logger.Error("Failed to delete student", zap.String("student_id", studentID), zap.Error(err))
		answerCallback(ctx, b, callback.ID, userMessage(err), true)
		return
	}

	answerCallback(ctx, b, callback.ID, "Удалено", false)
	h.editMessage(ctx, b, msg, fmt.Sprintf("🗑 %s удалена.", student.FullName()))
}

// editMessage заменяет текст сообщения с кнопками
func (h *Handlers) editMessage(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	})
	if err != nil {
		h.logger.Error("Failed to edit message", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
}
