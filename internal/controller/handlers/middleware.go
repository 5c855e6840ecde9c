package handlers

import (
	"context"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requireStaff пропускает только чаты администраторов студии
func (h *Handlers) requireStaff(ctx context.Context, b *bot.Bot, update *models.Update) (int64, bool) {
	if update.Message == nil {
		return 0, false
	}

	chatID := update.Message.Chat.ID
	if !h.cfg.IsStaff(chatID) {
		h.logger.Warn("Command from non-staff chat",
			zap.Int64("chat_id", chatID),
			zap.String("text", update.Message.Text),
		)
		h.sendError(ctx, b, chatID, "❌ Команда доступна только администраторам студии.")
		return 0, false
	}

	return chatID, true
}

// resolveStudent находит ученицу по ID или по имени
func (h *Handlers) resolveStudent(query string) (*model.Student, error) {
	if _, err := uuid.Parse(query); err == nil {
		return h.booking.Student(query)
	}
	return pickStudent(query, h.students.FindStudents(query))
}

// sendServiceError логирует ошибку операции и отвечает понятным текстом
func (h *Handlers) sendServiceError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	if service.IsPersistenceError(err) {
		h.logger.Error("Operation failed to persist", zap.String("op", op), zap.Error(err))
	} else {
		h.logger.Info("Operation rejected", zap.String("op", op), zap.Error(err))
	}
	h.sendError(ctx, b, chatID, userMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
