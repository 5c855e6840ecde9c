package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
)

type CreditMovementRepository struct {
	db base.Querier
}

func NewCreditMovementRepository(db base.Querier) *CreditMovementRepository {
	return &CreditMovementRepository{db: db}
}

// Append добавляет движение кредитов в журнал
func (r *CreditMovementRepository) Append(ctx context.Context, m *model.CreditMovement) error {
	query := `
		INSERT INTO credit_movements (id, student_id, class_id, date, delta, balance_after, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		m.ID, m.StudentID, m.ClassID, m.Date, m.Delta, m.BalanceAfter, m.Reason, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append credit movement: %w", err)
	}

	return nil
}

// ListByStudent получает движения кредитов ученицы, новые первыми
func (r *CreditMovementRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]*model.CreditMovement, error) {
	query := `
		SELECT id, student_id, class_id, date::text, delta, balance_after, reason, created_at
		FROM credit_movements
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list credit movements: %w", err)
	}
	defer rows.Close()

	var out []*model.CreditMovement
	for rows.Next() {
		var m model.CreditMovement
		err := rows.Scan(&m.ID, &m.StudentID, &m.ClassID, &m.Date, &m.Delta, &m.BalanceAfter, &m.Reason, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan credit movement: %w", err)
		}
		out = append(out, &m)
	}

	return out, rows.Err()
}
