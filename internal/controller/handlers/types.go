package handlers

import (
	"context"

	"github.com/Freeeeeet/studio_scheduler/internal/config"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/state"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"go.uber.org/zap"
)

// CreditHistory читает журнал движения отработок
type CreditHistory interface {
	CreditHistory(ctx context.Context, studentID string, limit int) ([]*model.CreditMovement, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	booking      *service.BookingService
	students     *service.StudentService
	payments     *service.PaymentService
	credits      CreditHistory
	stateManager *state.Manager
	cfg          *config.Config
	logger       *zap.Logger
}

func NewHandlers(
	booking *service.BookingService,
	students *service.StudentService,
	payments *service.PaymentService,
	credits CreditHistory,
	stateManager *state.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		booking:      booking,
		students:     students,
		payments:     payments,
		credits:      credits,
		stateManager: stateManager,
		cfg:          cfg,
		logger:       logger,
	}
}
