package service

import (
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/google/uuid"
)

// applyCredit меняет счётчик отработок ученицы на delta с полом в ноль
// и возвращает запись движения для журнала кредитов
func applyCredit(student *model.Student, classID, date string, delta int, reason model.CreditReason) *model.CreditMovement {
	before := student.MakeupCredits
	after := before + delta
	if after < 0 {
		after = 0
	}
	student.MakeupCredits = after

	return &model.CreditMovement{
		ID:           uuid.New(),
		StudentID:    student.ID,
		ClassID:      classID,
		Date:         date,
		Delta:        after - before,
		BalanceAfter: after,
		Reason:       reason,
		CreatedAt:    time.Now(),
	}
}
