package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditReason string

const (
	CreditReasonAbsence  CreditReason = "absence_notice"
	CreditReasonRedeem   CreditReason = "makeup_redeem"
	CreditReasonRestore  CreditReason = "absence_restored"
	CreditReasonRollback CreditReason = "makeup_cancelled"
)

// CreditMovement запись журнала движения отработочных кредитов (только добавление)
type CreditMovement struct {
	ID           uuid.UUID    `json:"id"`
	StudentID    string       `json:"student_id"`
	ClassID      string       `json:"class_id"`
	Date         string       `json:"date"`
	Delta        int          `json:"delta"`
	BalanceAfter int          `json:"balance_after"`
	Reason       CreditReason `json:"reason"`
	CreatedAt    time.Time    `json:"created_at"`
}
