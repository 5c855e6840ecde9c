package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
)

// ClassAbsence отсутствие вместе со слотом, к которому оно относится
type ClassAbsence struct {
	ClassID string
	model.Absence
}

type AbsenceRepository struct {
	db base.Querier
}

func NewAbsenceRepository(db base.Querier) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// Add сохраняет отсутствие. Повторная отметка на ту же дату ничего не меняет.
func (r *AbsenceRepository) Add(ctx context.Context, classID string, a model.Absence) error {
	query := `
		INSERT INTO absences (class_id, student_id, date, with_notice)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (class_id, student_id, date) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, classID, a.StudentID, a.Date, a.WithNotice)
	if err != nil {
		return fmt.Errorf("add absence: %w", err)
	}

	return nil
}

// Remove удаляет отсутствие
func (r *AbsenceRepository) Remove(ctx context.Context, classID, studentID, date string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM absences WHERE class_id = $1 AND student_id = $2 AND date = $3`,
		classID, studentID, date)
	if err != nil {
		return fmt.Errorf("remove absence: %w", err)
	}

	return nil
}

// List получает все отсутствия
func (r *AbsenceRepository) List(ctx context.Context) ([]ClassAbsence, error) {
	rows, err := r.db.Query(ctx,
		`SELECT class_id, student_id, date::text, with_notice FROM absences ORDER BY class_id, date, student_id`)
	if err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	defer rows.Close()

	var out []ClassAbsence
	for rows.Next() {
		var a ClassAbsence
		if err := rows.Scan(&a.ClassID, &a.StudentID, &a.Date, &a.WithNotice); err != nil {
			return nil, fmt.Errorf("scan absence: %w", err)
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
