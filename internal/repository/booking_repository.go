package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
)

// BookingRepository постоянные записи
type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(db base.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

// Upsert создаёт постоянную запись или меняет дату начала существующей
func (r *BookingRepository) Upsert(ctx context.Context, b model.Booking) error {
	query := `
		INSERT INTO permanent_bookings (student_id, class_id, start_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, class_id) DO UPDATE SET start_date = EXCLUDED.start_date
	`

	_, err := r.db.Exec(ctx, query, b.StudentID, b.ClassID, b.StartDate)
	if err != nil {
		return fmt.Errorf("upsert booking: %w", err)
	}

	return nil
}

// Delete удаляет постоянную запись
func (r *BookingRepository) Delete(ctx context.Context, studentID, classID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM permanent_bookings WHERE student_id = $1 AND class_id = $2`, studentID, classID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	return nil
}

// DeleteByStudent удаляет все постоянные записи ученицы
func (r *BookingRepository) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	affected, err := base.ExecAffected(ctx, r.db,
		`DELETE FROM permanent_bookings WHERE student_id = $1`, studentID)
	if err != nil {
		return 0, fmt.Errorf("delete bookings by student: %w", err)
	}

	return affected, nil
}

// List получает все постоянные записи
func (r *BookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	query := `
		SELECT student_id, class_id, start_date::text
		FROM permanent_bookings
		ORDER BY class_id, start_date, student_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.StudentID, &b.ClassID, &b.StartDate); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
