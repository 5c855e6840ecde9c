package controller

import (
	"context"

	"github.com/Freeeeeet/studio_scheduler/internal/config"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/state"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	booking *service.BookingService,
	students *service.StudentService,
	payments *service.PaymentService,
	credits handlers.CreditHistory,
	cfg *config.Config,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(
		booking,
		students,
		payments,
		credits,
		state.NewManager(),
		cfg,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// command команда меню вместе с обработчиком
type command struct {
	name        string
	description string
	handler     bot.HandlerFunc
}

func (c *BotController) commands() []command {
	h := c.handlers
	return []command{
		{"start", "🚀 Начать работу с ботом", h.HandleStart},
		{"help", "❓ Справка по командам", h.HandleHelp},
		{"week", "📅 Расписание недели", h.HandleWeek},
		{"class", "🏋️ Состав класса на дату", h.HandleClass},
		{"candidates", "🎟 Кого записать на отработку", h.HandleCandidates},
		{"assign", "📌 Постоянная запись", h.HandleAssign},
		{"unassign", "📤 Снять постоянную запись", h.HandleUnassign},
		{"absent", "🙅 Отсутствие с предупреждением", h.HandleAbsent},
		{"noshow", "🚷 Отсутствие без предупреждения", h.HandleNoShow},
		{"restore", "↩️ Снять отсутствие", h.HandleRestore},
		{"makeup", "🎟 Записать на отработку", h.HandleMakeup},
		{"guest", "👋 Разовое посещение", h.HandleGuest},
		{"unbook", "➖ Снять с класса на дату", h.HandleUnbook},
		{"cancelclass", "🚫 Отменить или вернуть класс", h.HandleCancelClass},
		{"students", "👩 Список учениц", h.HandleStudents},
		{"newstudent", "➕ Добавить ученицу", h.HandleNewStudentStart},
		{"setplan", "🔢 Поменять план", h.HandleSetPlan},
		{"setlevel", "📊 Поменять уровень", h.HandleSetLevel},
		{"credits", "🎟 Отработки ученицы", h.HandleCredits},
		{"ics", "📆 Календарь занятий ученицы", h.HandleICS},
		{"deletestudent", "🗑 Удалить ученицу", h.HandleDeleteStudent},
		{"pay", "💰 Отметить оплату", h.HandlePay},
		{"unpay", "↩️ Снять оплату", h.HandleUnpay},
		{"unpaid", "💸 Кто не оплатил", h.HandleUnpaid},
		{"cancel", "❌ Прервать диалог", h.HandleCancel},
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	cmds := c.commands()
	for _, cmd := range cmds {
		c.bot.RegisterHandlerMatchFunc(handlers.CommandMatch("/"+cmd.name), cmd.handler)
	}

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	return c.setCommands(ctx, cmds)
}

// HandleUnmatched получает сообщения без команды: шаги диалогов.
// Подключается через bot.WithDefaultHandler.
func (c *BotController) HandleUnmatched(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handlers.HandleTextMessage(ctx, b, update)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context, cmds []command) error {
	menu := make([]models.BotCommand, 0, len(cmds))
	for _, cmd := range cmds {
		menu = append(menu, models.BotCommand{Command: cmd.name, Description: cmd.description})
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: menu,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set", zap.Int("commands", len(menu)))
	return nil
}

// Start запускает long polling и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
