package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
)

type StudentRepository struct {
	db base.Querier
}

func NewStudentRepository(db base.Querier) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, name, surname, phone, level, enrollment_date::text, plan, makeup_credits, status, created_at`

// Create сохраняет новую ученицу
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	query := `
		INSERT INTO students (id, name, surname, phone, level, enrollment_date, plan, makeup_credits, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.ID,
		s.Name,
		s.Surname,
		s.Phone,
		s.Level,
		s.EnrollmentDate,
		s.Plan,
		s.MakeupCredits,
		s.Status,
	).Scan(&s.CreatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID получает ученицу по ID, nil если её нет
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	s, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return s, nil
}

// List получает всех учениц, включая удалённых
func (r *StudentRepository) List(ctx context.Context) ([]*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY name, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// Update обновляет профиль (без счётчика отработок)
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	query := `
		UPDATE students
		SET name = $2, surname = $3, phone = $4, level = $5, enrollment_date = $6, plan = $7, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	affected, err := base.ExecAffected(ctx, r.db, query,
		s.ID, s.Name, s.Surname, s.Phone, s.Level, s.EnrollmentDate, s.Plan,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update student: student %s not found", s.ID)
	}

	return nil
}

// SetCredits записывает новый баланс отработок
func (r *StudentRepository) SetCredits(ctx context.Context, id string, credits int) error {
	query := `UPDATE students SET makeup_credits = $2, updated_at = NOW() WHERE id = $1`

	affected, err := base.ExecAffected(ctx, r.db, query, id, credits)
	if err != nil {
		return fmt.Errorf("set credits: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set credits: student %s not found", id)
	}

	return nil
}

// SoftDelete помечает ученицу удалённой
func (r *StudentRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE students SET status = 'deleted', updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete student: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Surname,
		&s.Phone,
		&s.Level,
		&s.EnrollmentDate,
		&s.Plan,
		&s.MakeupCredits,
		&s.Status,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
