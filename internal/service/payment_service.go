package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"go.uber.org/zap"
)

// PaymentDeadlineDay последний день месяца, до которого оплата считается вовремя
const PaymentDeadlineDay = 10

// PaymentService отметки об оплате месяцев. Суммы и тарифы не ведутся.
type PaymentService struct {
	state  *State
	ledger PaymentLedger
	logger *zap.Logger
}

func NewPaymentService(state *State, ledger PaymentLedger, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		state:  state,
		ledger: ledger,
		logger: logger,
	}
}

// IsPastDeadline проверяет что срок оплаты текущего месяца прошёл
func IsPastDeadline(now time.Time) bool {
	return now.Day() > PaymentDeadlineDay
}

// MarkPayment отмечает оплату месяца monthKey (YYYY-MM) датой paidOn
func (s *PaymentService) MarkPayment(ctx context.Context, studentID, monthKey, paidOn string) error {
	if !calendar.IsDate(paidOn) || !calendar.IsDate(monthKey+"-01") {
		return ErrInvalidDate
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, err := s.state.student(studentID); err != nil {
		return err
	}

	err := s.ledger.MarkPayment(ctx, studentID, monthKey, paidOn)
	if err != nil {
		return &PersistenceError{Op: "mark payment", Err: err}
	}

	months, ok := s.state.payments[studentID]
	if !ok {
		months = make(map[string]string)
		s.state.payments[studentID] = months
	}
	months[monthKey] = paidOn

	s.logger.Info("Payment marked",
		zap.String("student_id", studentID),
		zap.String("month", monthKey),
		zap.String("paid_on", paidOn),
	)

	return nil
}

// UndoPayment снимает отметку об оплате месяца
func (s *PaymentService) UndoPayment(ctx context.Context, studentID, monthKey string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, err := s.state.student(studentID); err != nil {
		return err
	}
	if s.state.payments.PaidOn(studentID, monthKey) == "" {
		return nil
	}

	err := s.ledger.UndoPayment(ctx, studentID, monthKey)
	if err != nil {
		return &PersistenceError{Op: "undo payment", Err: err}
	}
	delete(s.state.payments[studentID], monthKey)

	s.logger.Info("Payment undone",
		zap.String("student_id", studentID),
		zap.String("month", monthKey),
	)

	return nil
}

// PaidOn возвращает дату оплаты месяца или пустую строку
func (s *PaymentService) PaidOn(studentID, monthKey string) string {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	return s.state.payments.PaidOn(studentID, monthKey)
}

// Unpaid возвращает активных учениц без оплаты за месяц, по имени
func (s *PaymentService) Unpaid(monthKey string) []*model.Student {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	var out []*model.Student
	for _, st := range s.state.sortedStudents() {
		if s.state.payments.PaidOn(st.ID, monthKey) == "" {
			out = append(out, st.Clone())
		}
	}
	return out
}
