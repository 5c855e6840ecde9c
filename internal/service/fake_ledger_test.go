package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/schedule"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store down")

// fakeLedger запоминает намерения движка; fail заставляет все вызовы падать
type fakeLedger struct {
	fail     error
	calls    []string
	credits  []*model.CreditMovement
	journal  []model.AttendanceRecord
	students []*model.Student
}

func (f *fakeLedger) record(op string, credit *model.CreditMovement) error {
	if f.fail != nil {
		return f.fail
	}
	f.calls = append(f.calls, op)
	if credit != nil {
		f.credits = append(f.credits, credit)
	}
	return nil
}

func (f *fakeLedger) SavePermanentBooking(_ context.Context, _ model.Booking) error {
	return f.record("save_booking", nil)
}

func (f *fakeLedger) DeletePermanentBooking(_ context.Context, _, _ string) error {
	return f.record("delete_booking", nil)
}

func (f *fakeLedger) AddAbsence(_ context.Context, _ string, _ model.Absence, credit *model.CreditMovement) error {
	return f.record("add_absence", credit)
}

func (f *fakeLedger) RemoveAbsence(_ context.Context, _ string, _ model.Absence, credit *model.CreditMovement) error {
	return f.record("remove_absence", credit)
}

func (f *fakeLedger) AddOneTimeBooking(_ context.Context, _ string, _ model.OneTimeBooking, credit *model.CreditMovement) error {
	return f.record("add_one_time", credit)
}

func (f *fakeLedger) RemoveOneTimeBooking(_ context.Context, _ string, _ model.OneTimeBooking) error {
	return f.record("remove_one_time", nil)
}

func (f *fakeLedger) SetClassCancelled(_ context.Context, _ string, _ bool) error {
	return f.record("set_cancelled", nil)
}

func (f *fakeLedger) DeleteStudent(_ context.Context, _ string) error {
	return f.record("delete_student", nil)
}

func (f *fakeLedger) CreateStudent(_ context.Context, student *model.Student) error {
	if err := f.record("create_student", nil); err != nil {
		return err
	}
	f.students = append(f.students, student.Clone())
	return nil
}

func (f *fakeLedger) UpdateStudent(_ context.Context, _ *model.Student) error {
	return f.record("update_student", nil)
}

func (f *fakeLedger) MarkPayment(_ context.Context, _, _, _ string) error {
	return f.record("mark_payment", nil)
}

func (f *fakeLedger) UndoPayment(_ context.Context, _, _ string) error {
	return f.record("undo_payment", nil)
}

func (f *fakeLedger) ReplaceJournal(_ context.Context, _, _ string, records []model.AttendanceRecord) (int64, error) {
	if err := f.record("replace_journal", nil); err != nil {
		return 0, err
	}
	f.journal = append(f.journal, records...)
	return int64(len(records)), nil
}

func newStudent(id string, plan model.Plan, level model.Level, credits int) *model.Student {
	return &model.Student{
		ID:             id,
		Name:           "Alumna " + id,
		Level:          level,
		EnrollmentDate: "2025-01-01",
		Plan:           plan,
		MakeupCredits:  credits,
		Status:         model.StudentStatusActive,
	}
}

type fixture struct {
	state   *State
	ledger  *fakeLedger
	booking *BookingService
}

func newFixture(t *testing.T, students ...*model.Student) *fixture {
	t.Helper()

	state := NewState(&Snapshot{
		Students: students,
		Schedule: schedule.New(schedule.DefaultTimetable()),
		Payments: model.PaymentRecord{},
	})
	ledger := &fakeLedger{}

	return &fixture{
		state:   state,
		ledger:  ledger,
		booking: NewBookingService(state, ledger, DefaultMaxCapacity, zap.NewNop()),
	}
}

func (f *fixture) slot(id string) *model.ClassSlot {
	return f.state.schedule.Class(id)
}

func (f *fixture) credits(id string) int {
	return f.state.students[id].MakeupCredits
}
