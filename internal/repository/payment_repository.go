package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
)

type PaymentRepository struct {
	db base.Querier
}

func NewPaymentRepository(db base.Querier) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Mark отмечает оплату месяца, повторная отметка меняет дату
func (r *PaymentRepository) Mark(ctx context.Context, studentID, monthKey, paidOn string) error {
	query := `
		INSERT INTO payments (student_id, month_key, paid_on)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, month_key) DO UPDATE SET paid_on = EXCLUDED.paid_on
	`

	_, err := r.db.Exec(ctx, query, studentID, monthKey, paidOn)
	if err != nil {
		return fmt.Errorf("mark payment: %w", err)
	}

	return nil
}

// Undo снимает отметку об оплате
func (r *PaymentRepository) Undo(ctx context.Context, studentID, monthKey string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM payments WHERE student_id = $1 AND month_key = $2`, studentID, monthKey)
	if err != nil {
		return fmt.Errorf("undo payment: %w", err)
	}

	return nil
}

// DeleteByStudent удаляет всю историю оплат ученицы
func (r *PaymentRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments WHERE student_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("delete payments by student: %w", err)
	}

	return nil
}

// All получает все оплаты в виде studentID -> месяц -> дата
func (r *PaymentRepository) All(ctx context.Context) (model.PaymentRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT student_id, month_key, paid_on::text FROM payments`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make(model.PaymentRecord)
	for rows.Next() {
		var studentID, monthKey, paidOn string
		if err := rows.Scan(&studentID, &monthKey, &paidOn); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if out[studentID] == nil {
			out[studentID] = make(map[string]string)
		}
		out[studentID][monthKey] = paidOn
	}

	return out, rows.Err()
}
