package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
)

// ClassOneTimeBooking разовая запись вместе со слотом
type ClassOneTimeBooking struct {
	ClassID string
	model.OneTimeBooking
}

type OneTimeBookingRepository struct {
	db base.Querier
}

func NewOneTimeBookingRepository(db base.Querier) *OneTimeBookingRepository {
	return &OneTimeBookingRepository{db: db}
}

// Add сохраняет разовую запись, дубликат игнорируется
func (r *OneTimeBookingRepository) Add(ctx context.Context, classID string, b model.OneTimeBooking) error {
	query := `
		INSERT INTO one_time_bookings (class_id, student_id, date, makeup)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (class_id, student_id, date) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, classID, b.StudentID, b.Date, b.Makeup)
	if err != nil {
		return fmt.Errorf("add one-time booking: %w", err)
	}

	return nil
}

// Remove удаляет разовую запись
func (r *OneTimeBookingRepository) Remove(ctx context.Context, classID, studentID, date string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM one_time_bookings WHERE class_id = $1 AND student_id = $2 AND date = $3`,
		classID, studentID, date)
	if err != nil {
		return fmt.Errorf("remove one-time booking: %w", err)
	}

	return nil
}

// List получает все разовые записи
func (r *OneTimeBookingRepository) List(ctx context.Context) ([]ClassOneTimeBooking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT class_id, student_id, date::text, makeup FROM one_time_bookings ORDER BY class_id, date, student_id`)
	if err != nil {
		return nil, fmt.Errorf("list one-time bookings: %w", err)
	}
	defer rows.Close()

	var out []ClassOneTimeBooking
	for rows.Next() {
		var b ClassOneTimeBooking
		if err := rows.Scan(&b.ClassID, &b.StudentID, &b.Date, &b.Makeup); err != nil {
			return nil, fmt.Errorf("scan one-time booking: %w", err)
		}
		out = append(out, b)
	}

	return out, rows.Err()
}
