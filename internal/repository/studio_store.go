package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
	"github.com/Freeeeeet/studio_scheduler/internal/schedule"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// StudioStore хранилище студии в Postgres: загрузка состояния и запись намерений движка.
// Каждое намерение пишется одной транзакцией.
type StudioStore struct {
	*base.Repository
	timetable schedule.Timetable
	logger    *zap.Logger
}

func NewStudioStore(pool *pgxpool.Pool, timetable schedule.Timetable, logger *zap.Logger) *StudioStore {
	return &StudioStore{
		Repository: base.NewRepository(pool),
		timetable:  timetable,
		logger:     logger,
	}
}

// LoadAll читает учениц, записи и оплаты и раскладывает их по сетке слотов
func (s *StudioStore) LoadAll(ctx context.Context) (*service.Snapshot, error) {
	sched := schedule.New(s.timetable)
	snap := &service.Snapshot{Schedule: sched}

	err := s.InTx(ctx, func(q base.Querier) error {
		if err := NewClassSlotRepository(q).EnsureSlots(ctx, sched.All()); err != nil {
			return err
		}

		cancelled, err := NewClassSlotRepository(q).CancelledIDs(ctx)
		if err != nil {
			return err
		}
		for id := range cancelled {
			if slot := sched.Class(id); slot != nil {
				slot.IsCancelled = true
			}
		}

		snap.Students, err = NewStudentRepository(q).List(ctx)
		if err != nil {
			return err
		}

		bookings, err := NewBookingRepository(q).List(ctx)
		if err != nil {
			return err
		}
		for _, b := range bookings {
			if slot := s.slotFor(sched, b.ClassID); slot != nil {
				slot.Bookings = append(slot.Bookings, b)
			}
		}

		absences, err := NewAbsenceRepository(q).List(ctx)
		if err != nil {
			return err
		}
		for _, a := range absences {
			if slot := s.slotFor(sched, a.ClassID); slot != nil {
				slot.Absences = append(slot.Absences, a.Absence)
			}
		}

		oneTime, err := NewOneTimeBookingRepository(q).List(ctx)
		if err != nil {
			return err
		}
		for _, o := range oneTime {
			if slot := s.slotFor(sched, o.ClassID); slot != nil {
				slot.OneTimeBookings = append(slot.OneTimeBookings, o.OneTimeBooking)
			}
		}

		snap.Payments, err = NewPaymentRepository(q).All(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load studio: %w", err)
	}

	s.logger.Info("Studio state loaded",
		zap.Int("students", len(snap.Students)),
		zap.Int("classes", len(sched.All())),
	)

	return snap, nil
}

func (s *StudioStore) slotFor(sched *schedule.Schedule, classID string) *model.ClassSlot {
	slot := sched.Class(classID)
	if slot == nil {
		s.logger.Warn("Stored record references unknown class", zap.String("class_id", classID))
	}
	return slot
}

// SavePermanentBooking сохраняет постоянную запись
func (s *StudioStore) SavePermanentBooking(ctx context.Context, booking model.Booking) error {
	return NewBookingRepository(s.Pool()).Upsert(ctx, booking)
}

// DeletePermanentBooking удаляет постоянную запись
func (s *StudioStore) DeletePermanentBooking(ctx context.Context, studentID, classID string) error {
	return NewBookingRepository(s.Pool()).Delete(ctx, studentID, classID)
}

// AddAbsence сохраняет отсутствие и, если есть, изменение кредитов
func (s *StudioStore) AddAbsence(ctx context.Context, classID string, absence model.Absence, credit *model.CreditMovement) error {
	return s.InTx(ctx, func(q base.Querier) error {
		if err := NewAbsenceRepository(q).Add(ctx, classID, absence); err != nil {
			return err
		}
		return applyCredit(ctx, q, credit)
	})
}

// RemoveAbsence удаляет отсутствие и, если есть, изменение кредитов
func (s *StudioStore) RemoveAbsence(ctx context.Context, classID string, absence model.Absence, credit *model.CreditMovement) error {
	return s.InTx(ctx, func(q base.Querier) error {
		if err := NewAbsenceRepository(q).Remove(ctx, classID, absence.StudentID, absence.Date); err != nil {
			return err
		}
		return applyCredit(ctx, q, credit)
	})
}

// AddOneTimeBooking сохраняет разовую запись и, если есть, списание кредита
func (s *StudioStore) AddOneTimeBooking(ctx context.Context, classID string, booking model.OneTimeBooking, credit *model.CreditMovement) error {
	return s.InTx(ctx, func(q base.Querier) error {
		if err := NewOneTimeBookingRepository(q).Add(ctx, classID, booking); err != nil {
			return err
		}
		return applyCredit(ctx, q, credit)
	})
}

// RemoveOneTimeBooking удаляет разовую запись
func (s *StudioStore) RemoveOneTimeBooking(ctx context.Context, classID string, booking model.OneTimeBooking) error {
	return NewOneTimeBookingRepository(s.Pool()).Remove(ctx, classID, booking.StudentID, booking.Date)
}

// SetClassCancelled сохраняет флаг отмены класса
func (s *StudioStore) SetClassCancelled(ctx context.Context, classID string, cancelled bool) error {
	return NewClassSlotRepository(s.Pool()).SetCancelled(ctx, classID, cancelled)
}

// DeleteStudent удаляет записи и оплаты ученицы и помечает её удалённой
func (s *StudioStore) DeleteStudent(ctx context.Context, studentID string) error {
	return s.InTx(ctx, func(q base.Querier) error {
		if _, err := NewBookingRepository(q).DeleteByStudent(ctx, studentID); err != nil {
			return err
		}
		if err := NewPaymentRepository(q).DeleteByStudent(ctx, studentID); err != nil {
			return err
		}
		return NewStudentRepository(q).SoftDelete(ctx, studentID)
	})
}

// CreateStudent сохраняет новую ученицу
func (s *StudioStore) CreateStudent(ctx context.Context, student *model.Student) error {
	return NewStudentRepository(s.Pool()).Create(ctx, student)
}

// UpdateStudent сохраняет профиль ученицы
func (s *StudioStore) UpdateStudent(ctx context.Context, student *model.Student) error {
	return NewStudentRepository(s.Pool()).Update(ctx, student)
}

// MarkPayment сохраняет оплату месяца
func (s *StudioStore) MarkPayment(ctx context.Context, studentID, monthKey, paidOn string) error {
	return NewPaymentRepository(s.Pool()).Mark(ctx, studentID, monthKey, paidOn)
}

// UndoPayment удаляет оплату месяца
func (s *StudioStore) UndoPayment(ctx context.Context, studentID, monthKey string) error {
	return NewPaymentRepository(s.Pool()).Undo(ctx, studentID, monthKey)
}

// ReplaceJournal перезаписывает журнал посещаемости за период
func (s *StudioStore) ReplaceJournal(ctx context.Context, from, to string, records []model.AttendanceRecord) (int64, error) {
	var written int64
	err := s.InTx(ctx, func(q base.Querier) error {
		var err error
		written, err = NewJournalRepository(q).ReplaceRange(ctx, from, to, records)
		return err
	})
	return written, err
}

// Journal возвращает строки журнала за дату
func (s *StudioStore) Journal(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	return NewJournalRepository(s.Pool()).ListByDate(ctx, date)
}

// CreditHistory возвращает последние движения кредитов ученицы
func (s *StudioStore) CreditHistory(ctx context.Context, studentID string, limit int) ([]*model.CreditMovement, error) {
	return NewCreditMovementRepository(s.Pool()).ListByStudent(ctx, studentID, limit)
}

func applyCredit(ctx context.Context, q base.Querier, credit *model.CreditMovement) error {
	if credit == nil {
		return nil
	}
	if err := NewStudentRepository(q).SetCredits(ctx, credit.StudentID, credit.BalanceAfter); err != nil {
		return err
	}
	return NewCreditMovementRepository(q).Append(ctx, credit)
}
