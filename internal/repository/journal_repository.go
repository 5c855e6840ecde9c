package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

// JournalRepository журнал посещаемости по датам
type JournalRepository struct {
	db base.Querier
}

func NewJournalRepository(db base.Querier) *JournalRepository {
	return &JournalRepository{db: db}
}

// ReplaceRange перезаписывает журнал за период [from, to] (YYYY-MM-DD) переданными строками
func (r *JournalRepository) ReplaceRange(ctx context.Context, from, to string, records []model.AttendanceRecord) (int64, error) {
	_, err := r.db.Exec(ctx, `DELETE FROM attendance_journal WHERE date BETWEEN $1 AND $2`, from, to)
	if err != nil {
		return 0, fmt.Errorf("clear journal range: %w", err)
	}

	query := `
		INSERT INTO attendance_journal (date, class_id, student_id, assignment, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (date, class_id, student_id)
		DO UPDATE SET assignment = EXCLUDED.assignment, status = EXCLUDED.status, updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.Date, rec.ClassID, rec.StudentID, rec.Assignment, rec.Status)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var written int64
	for range records {
		tag, err := results.Exec()
		if err != nil {
			return 0, fmt.Errorf("upsert journal record: %w", err)
		}
		written += tag.RowsAffected()
	}

	return written, nil
}

// ListByDate получает строки журнала за дату
func (r *JournalRepository) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	query := `
		SELECT date::text, class_id, student_id, assignment, status
		FROM attendance_journal
		WHERE date = $1
		ORDER BY class_id, student_id
	`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var out []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.Date, &rec.ClassID, &rec.StudentID, &rec.Assignment, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan journal record: %w", err)
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}
