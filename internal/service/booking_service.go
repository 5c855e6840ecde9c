package service

import (
	"context"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"go.uber.org/zap"
)

// DefaultMaxCapacity максимальное число учениц в классе
const DefaultMaxCapacity = 5

// AbsenceOutcome что именно сделала отметка отсутствия
type AbsenceOutcome int

const (
	AbsenceRecorded AbsenceOutcome = iota
	AbsenceAlreadyRecorded
	OneTimeBookingRemoved
)

// BookingService движок записей: постоянные и разовые записи, отсутствия, отработки, отмена класса.
// Каждая операция либо полностью применяется (в памяти и в хранилище), либо не меняет ничего.
type BookingService struct {
	state       *State
	ledger      BookingLedger
	maxCapacity int
	logger      *zap.Logger
}

func NewBookingService(state *State, ledger BookingLedger, maxCapacity int, logger *zap.Logger) *BookingService {
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxCapacity
	}
	return &BookingService{
		state:       state,
		ledger:      ledger,
		maxCapacity: maxCapacity,
		logger:      logger,
	}
}

// MaxCapacity возвращает вместимость класса
func (s *BookingService) MaxCapacity() int {
	return s.maxCapacity
}

// AssignPermanent записывает ученицу в класс на постоянной основе начиная со startDate.
// Дата начала сдвигается на первое занятие класса не раньше startDate.
// Повторная запись в тот же класс только меняет дату начала.
func (s *BookingService) AssignPermanent(ctx context.Context, studentID, classID, startDate string) error {
	if !calendar.IsDate(startDate) {
		return ErrInvalidDate
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	student, err := s.state.student(studentID)
	if err != nil {
		return err
	}
	slot, err := s.state.class(classID)
	if err != nil {
		return err
	}

	startDate, err = calendar.NextOnWeekday(startDate, slot.Weekday)
	if err != nil {
		return ErrInvalidDate
	}

	snapshot := slot.Clone()

	if existing := slot.PermanentBooking(studentID); existing != nil {
		if existing.StartDate == startDate {
			return nil
		}
		if startDate < existing.StartDate {
			if _, full := s.overbookedDate(slot, studentID, startDate, existing.StartDate); full {
				return ErrCapacityExceeded
			}
		}
		existing.StartDate = startDate
	} else {
		// Постоянных записей не больше вместимости, и разовые записи после startDate не должны переполнить класс
		if len(slot.Bookings) >= s.maxCapacity {
			return ErrCapacityExceeded
		}
		if _, full := s.overbookedDate(slot, studentID, startDate, ""); full {
			return ErrCapacityExceeded
		}
		if s.state.schedule.CountPermanentBookings(studentID) >= int(student.Plan) {
			return ErrPlanQuotaExceeded
		}
		slot.Bookings = append(slot.Bookings, model.Booking{
			StudentID: studentID,
			ClassID:   classID,
			StartDate: startDate,
		})
	}

	err = s.ledger.SavePermanentBooking(ctx, *slot.PermanentBooking(studentID))
	if err != nil {
		s.state.schedule.Restore(snapshot)
		return &PersistenceError{Op: "assign permanent", Err: err}
	}

	s.logger.Info("Student assigned permanently",
		zap.String("student_id", studentID),
		zap.String("class_id", classID),
		zap.String("start_date", startDate),
		zap.Int("bookings", len(slot.Bookings)),
	)

	return nil
}

// overbookedDate ищет дату с разовыми записями в [from, until), на которой ученица заняла бы место сверх вместимости.
// Пустой until означает без верхней границы.
func (s *BookingService) overbookedDate(slot *model.ClassSlot, studentID, from, until string) (string, bool) {
	checked := make(map[string]bool)
	for _, o := range slot.OneTimeBookings {
		date := o.Date
		if date < from || (until != "" && date >= until) || checked[date] {
			continue
		}
		checked[date] = true

		presence := attendance.Resolve(slot, date)
		if presence.PresentIDs.Has(studentID) || presence.AbsentIDs.Has(studentID) {
			continue
		}
		if presence.Occupancy() >= s.maxCapacity {
			return date, true
		}
	}
	return "", false
}

// checkClassDate проверяет что класс проходит в эту дату
func checkClassDate(slot *model.ClassSlot, date string) error {
	if !calendar.IsWeekday(date, slot.Weekday) {
		return ErrDateNotInClass
	}
	return nil
}

// UnassignPermanent удаляет постоянную запись целиком (все будущие занятия)
func (s *BookingService) UnassignPermanent(ctx context.Context, studentID, classID string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	slot, err := s.state.class(classID)
	if err != nil {
		return err
	}
	if !slot.HasPermanentBooking(studentID) {
		return ErrBookingNotFound
	}

	snapshot := slot.Clone()
	slot.RemovePermanentBooking(studentID)

	err = s.ledger.DeletePermanentBooking(ctx, studentID, classID)
	if err != nil {
		s.state.schedule.Restore(snapshot)
		return &PersistenceError{Op: "unassign permanent", Err: err}
	}

	s.logger.Info("Student unassigned",
		zap.String("student_id", studentID),
		zap.String("class_id", classID),
	)

	return nil
}

// RemoveOneTimeBooking удаляет разовую запись на дату. Кредит не возвращается.
func (s *BookingService) RemoveOneTimeBooking(ctx context.Context, studentID, classID, date string) error {
	if !calendar.IsDate(date) {
		return ErrInvalidDate
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	slot, err := s.state.class(classID)
	if err != nil {
		return err
	}
	if err := checkClassDate(slot, date); err != nil {
		return err
	}
	return s.removeOneTimeLocked(ctx, slot, studentID, date)
}

func (s *BookingService) removeOneTimeLocked(ctx context.Context, slot *model.ClassSlot, studentID, date string) error {
	snapshot := slot.Clone()

	removed, ok := slot.RemoveOneTimeBooking(studentID, date)
	if !ok {
		return ErrBookingNotFound
	}

	err := s.ledger.RemoveOneTimeBooking(ctx, slot.ID, removed)
	if err != nil {
		s.state.schedule.Restore(snapshot)
		return &PersistenceError{Op: "remove one-time booking", Err: err}
	}

	s.logger.Info("One-time booking removed",
		zap.String("student_id", studentID),
		zap.String("class_id", slot.ID),
		zap.String("date", date),
	)

	return nil
}

// MarkAbsentForDay отмечает, что ученицы не будет на занятии в дату.
// Если постоянная запись действует на эту дату, добавляется отсутствие (и кредит при withMakeup),
// иначе удаляется разовая запись на дату без начисления кредита.
func (s *BookingService) MarkAbsentForDay(ctx context.Context, studentID, classID, date string, withMakeup bool) (AbsenceOutcome, error) {
	if !calendar.IsDate(date) {
		return 0, ErrInvalidDate
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	student, err := s.state.student(studentID)
	if err != nil {
		return 0, err
	}
	slot, err := s.state.class(classID)
	if err != nil {
		return 0, err
	}
	if err := checkClassDate(slot, date); err != nil {
		return 0, err
	}

	booking := slot.PermanentBooking(studentID)
	if booking == nil || booking.StartDate > date {
		if !slot.HasOneTimeBooking(studentID, date) {
			return 0, ErrBookingNotFound
		}
		if err := s.removeOneTimeLocked(ctx, slot, studentID, date); err != nil {
			return 0, err
		}
		return OneTimeBookingRemoved, nil
	}

	if slot.FindAbsence(studentID, date) != nil {
		return AbsenceAlreadyRecorded, nil
	}

	slotSnapshot := slot.Clone()
	studentSnapshot := student.Clone()

	absence := model.Absence{StudentID: studentID, Date: date, WithNotice: withMakeup}
	slot.Absences = append(slot.Absences, absence)

	var credit *model.CreditMovement
	if withMakeup {
		credit = applyCredit(student, classID, date, 1, model.CreditReasonAbsence)
	}

	err = s.ledger.AddAbsence(ctx, classID, absence, credit)
	if err != nil {
		s.state.schedule.Restore(slotSnapshot)
		*student = *studentSnapshot
		return 0, &PersistenceError{Op: "mark absent", Err: err}
	}

	s.logger.Info("Absence recorded",
		zap.String("student_id", studentID),
		zap.String("class_id", classID),
		zap.String("date", date),
		zap.Bool("with_makeup", withMakeup),
		zap.Int("credits", student.MakeupCredits),
	)

	return AbsenceRecorded, nil
}

// RestoreForDay снимает отметку отсутствия. Если за отсутствие был начислен кредит, он списывается.
// Если место ученицы на эту дату уже занято, отметка остаётся.
func (s *BookingService) RestoreForDay(ctx context.Context, studentID, classID, date string) error {
	if !calendar.IsDate(date) {
		return ErrInvalidDate
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	slot, err := s.state.class(classID)
	if err != nil {
		return err
	}
	if err := checkClassDate(slot, date); err != nil {
		return err
	}

	slotSnapshot := slot.Clone()
	before := attendance.Resolve(slot, date).Occupancy()
	absence, ok := slot.RemoveAbsence(studentID, date)
	if !ok {
		return ErrBookingNotFound
	}
	if after := attendance.Resolve(slot, date).Occupancy(); after > before && after > s.maxCapacity {
		s.state.schedule.Restore(slotSnapshot)
		return ErrCapacityExceeded
	}

	var credit *model.CreditMovement
	student, studentErr := s.state.student(studentID)
	var studentSnapshot *model.Student
	if absence.WithNotice && studentErr == nil {
		studentSnapshot = student.Clone()
		credit = applyCredit(student, classID, date, -1, model.CreditReasonRestore)
	}

	err = s.ledger.RemoveAbsence(ctx, classID, absence, credit)
	if err != nil {
		s.state.schedule.Restore(slotSnapshot)
		if studentSnapshot != nil {
			*student = *studentSnapshot
		}
		return &PersistenceError{Op: "restore attendance", Err: err}
	}

	s.logger.Info("Attendance restored",
		zap.String("student_id", studentID),
		zap.String("class_id", classID),
		zap.String("date", date),
		zap.Bool("credit_revoked", credit != nil),
	)

	return nil
}

// RedeemMakeup использует отработочный кредит: разовая запись в класс на дату
func (s *BookingService) RedeemMakeup(ctx context.Context, studentID, classID, date string) error {
	return s.addOneTime(ctx, studentID, classID, date, true)
}

// AddGuestVisit разовая запись на дату без списания кредита
func (s *BookingService) AddGuestVisit(ctx context.Context, studentID, classID, date string) error {
	return s.addOneTime(ctx, studentID, classID, date, false)
}

func (s *BookingService) addOneTime(ctx context.Context, studentID, classID, date string, makeup bool) error {
	if !calendar.IsDate(date) {
		return ErrInvalidDate
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	student, err := s.state.student(studentID)
	if err != nil {
		return err
	}
	slot, err := s.state.class(classID)
	if err != nil {
		return err
	}
	if err := checkClassDate(slot, date); err != nil {
		return err
	}

	if makeup && student.MakeupCredits <= 0 {
		return ErrNoCreditsAvailable
	}
	if slot.HasOneTimeBooking(studentID, date) {
		return nil
	}
	if slot.IsCancelled {
		return ErrClassCancelled
	}

	presence := attendance.Resolve(slot, date)
	if presence.PresentIDs.Has(studentID) {
		return ErrAlreadyBooked
	}
	if presence.Occupancy() >= s.maxCapacity {
		return ErrCapacityExceeded
	}

	slotSnapshot := slot.Clone()
	studentSnapshot := student.Clone()

	booking := model.OneTimeBooking{StudentID: studentID, Date: date, Makeup: makeup}
	slot.OneTimeBookings = append(slot.OneTimeBookings, booking)

	var credit *model.CreditMovement
	if makeup {
		credit = applyCredit(student, classID, date, -1, model.CreditReasonRedeem)
	}

	err = s.ledger.AddOneTimeBooking(ctx, classID, booking, credit)
	if err != nil {
		s.state.schedule.Restore(slotSnapshot)
		*student = *studentSnapshot
		return &PersistenceError{Op: "add one-time booking", Err: err}
	}

	s.logger.Info("One-time booking added",
		zap.String("student_id", studentID),
		zap.String("class_id", classID),
		zap.String("date", date),
		zap.Bool("makeup", makeup),
		zap.Int("credits", student.MakeupCredits),
	)

	return nil
}

// ToggleClassCancellation переключает отмену класса на все даты. Записи и кредиты не меняются.
func (s *BookingService) ToggleClassCancellation(ctx context.Context, classID string) (bool, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	slot, err := s.state.class(classID)
	if err != nil {
		return false, err
	}

	slot.IsCancelled = !slot.IsCancelled

	err = s.ledger.SetClassCancelled(ctx, classID, slot.IsCancelled)
	if err != nil {
		slot.IsCancelled = !slot.IsCancelled
		return slot.IsCancelled, &PersistenceError{Op: "toggle cancellation", Err: err}
	}

	s.logger.Info("Class cancellation toggled",
		zap.String("class_id", classID),
		zap.Bool("cancelled", slot.IsCancelled),
	)

	return slot.IsCancelled, nil
}

// DeleteStudent каскадно удаляет ученицу: постоянные записи во всех классах и историю оплат.
// Сама ученица помечается удалённой в хранилище.
func (s *BookingService) DeleteStudent(ctx context.Context, studentID string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	student, err := s.state.student(studentID)
	if err != nil {
		return err
	}

	var snapshots []*model.ClassSlot
	for _, slot := range s.state.schedule.PermanentClasses(studentID) {
		snapshots = append(snapshots, slot.Clone())
		slot.RemovePermanentBooking(studentID)
	}
	payments, hadPayments := s.state.payments[studentID]
	delete(s.state.payments, studentID)
	delete(s.state.students, studentID)

	err = s.ledger.DeleteStudent(ctx, studentID)
	if err != nil {
		for _, snap := range snapshots {
			s.state.schedule.Restore(snap)
		}
		if hadPayments {
			s.state.payments[studentID] = payments
		}
		s.state.students[studentID] = student
		return &PersistenceError{Op: "delete student", Err: err}
	}

	s.logger.Info("Student deleted",
		zap.String("student_id", studentID),
		zap.Int("bookings_removed", len(snapshots)),
	)

	return nil
}
