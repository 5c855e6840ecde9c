package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	monday    = "2025-03-10"
	tuesday   = "2025-03-11"
	nextMonth = "2025-04-07"
)

func TestAssignPermanent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))

	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	slot := f.slot("L16")
	require.Len(t, slot.Bookings, 1)
	assert.Equal(t, model.Booking{StudentID: "s1", ClassID: "L16", StartDate: "2025-01-06"}, slot.Bookings[0])
	assert.Equal(t, []string{"save_booking"}, f.ledger.calls)
}

func TestAssignPermanentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))

	tests := []struct {
		name      string
		studentID string
		classID   string
		date      string
		want      error
	}{
		{"unknown student", "nobody", "L16", monday, ErrStudentNotFound},
		{"unknown class", "s1", "D10", monday, ErrClassNotFound},
		{"bad date", "s1", "L16", "10/03/2025", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.booking.AssignPermanent(ctx, tt.studentID, tt.classID, tt.date)
			require.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.ledger.calls)
}

func TestAssignPermanentCapacityExceeded(t *testing.T) {
	ctx := context.Background()
	var students []*model.Student
	for i := 1; i <= 6; i++ {
		students = append(students, newStudent(fmt.Sprintf("s%d", i), model.PlanThree, model.LevelBasic, 0))
	}
	f := newFixture(t, students...)

	for i := 1; i <= 5; i++ {
		require.NoError(t, f.booking.AssignPermanent(ctx, fmt.Sprintf("s%d", i), "L16", "2025-01-01"))
	}

	err := f.booking.AssignPermanent(ctx, "s6", "L16", "2025-01-01")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Len(t, f.slot("L16").Bookings, 5)
	assert.Len(t, f.ledger.calls, 5)
}

func TestAssignPermanentPlanQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))

	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	err := f.booking.AssignPermanent(ctx, "s1", "M8", "2025-01-01")
	require.ErrorIs(t, err, ErrPlanQuotaExceeded)
	assert.Empty(t, f.slot("M8").Bookings)
}

func TestAssignPermanentReplacesStartDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))

	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-02-03"))

	slot := f.slot("L16")
	require.Len(t, slot.Bookings, 1)
	assert.Equal(t, "2025-02-03", slot.Bookings[0].StartDate)
}

func TestAssignPermanentPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	f.ledger.fail = errStoreDown

	err := f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01")

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "assign permanent", perr.Op)
	assert.ErrorIs(t, err, errStoreDown)
	assert.True(t, IsPersistenceError(err))
	assert.Empty(t, f.slot("L16").Bookings)
}

func TestUnassignPermanent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))

	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))
	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, false)
	require.NoError(t, err)

	require.NoError(t, f.booking.UnassignPermanent(ctx, "s1", "L16"))
	assert.Empty(t, f.slot("L16").Bookings)
	assert.Len(t, f.slot("L16").Absences, 1)

	err = f.booking.UnassignPermanent(ctx, "s1", "L16")
	require.ErrorIs(t, err, ErrBookingNotFound)

	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "M8", "2025-01-01"))
}

func TestMarkAbsentForDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	outcome, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, false)
	require.NoError(t, err)
	assert.Equal(t, AbsenceRecorded, outcome)

	outcome, err = f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, false)
	require.NoError(t, err)
	assert.Equal(t, AbsenceAlreadyRecorded, outcome)

	assert.Equal(t, []model.Absence{{StudentID: "s1", Date: monday}}, f.slot("L16").Absences)
	assert.Equal(t, 0, f.credits("s1"))
}

func TestMarkAbsentForDayWithMakeupCreditsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.NoError(t, err)
	_, err = f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.NoError(t, err)

	assert.Equal(t, 1, f.credits("s1"))
	require.Len(t, f.ledger.credits, 1)
	assert.Equal(t, model.CreditReasonAbsence, f.ledger.credits[0].Reason)
	assert.Equal(t, 1, f.ledger.credits[0].Delta)
	assert.Equal(t, 1, f.ledger.credits[0].BalanceAfter)

	presence, err := f.booking.Presence("L16", monday)
	require.NoError(t, err)
	assert.False(t, presence.PresentIDs.Has("s1"))
}

func TestMarkAbsentForDayWithoutPresence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-04-01"))

	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.booking.MarkAbsentForDay(ctx, "s1", "M8", tuesday, true)
	require.ErrorIs(t, err, ErrBookingNotFound)

	assert.Equal(t, 0, f.credits("s1"))
	assert.Empty(t, f.slot("L16").Absences)
}

func TestMarkAbsentForDayRemovesOneTimeBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 1))

	require.NoError(t, f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday))
	require.Equal(t, 0, f.credits("s1"))

	outcome, err := f.booking.MarkAbsentForDay(ctx, "s1", "M8", tuesday, true)
	require.NoError(t, err)
	assert.Equal(t, OneTimeBookingRemoved, outcome)
	assert.Empty(t, f.slot("M8").OneTimeBookings)
	assert.Empty(t, f.slot("M8").Absences)
	assert.Equal(t, 0, f.credits("s1"))
}

func TestCreditConservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.NoError(t, err)
	require.Equal(t, 1, f.credits("s1"))

	require.NoError(t, f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday))
	assert.Equal(t, 0, f.credits("s1"))

	presence, err := f.booking.Presence("M8", tuesday)
	require.NoError(t, err)
	assert.Equal(t, attendance.SourceOneTime, presence.Source("s1"))
}

func TestRedeemMakeupWithoutCredits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))

	err := f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday)
	require.ErrorIs(t, err, ErrNoCreditsAvailable)
	assert.Empty(t, f.slot("M8").OneTimeBookings)
	assert.Equal(t, 0, f.credits("s1"))
	assert.Empty(t, f.ledger.calls)
}

func TestRedeemMakeupIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 2))

	require.NoError(t, f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday))
	require.NoError(t, f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday))

	assert.Len(t, f.slot("M8").OneTimeBookings, 1)
	assert.Equal(t, 1, f.credits("s1"))
}

func TestRedeemMakeupRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanTwo, model.LevelBasic, 3))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	err := f.booking.RedeemMakeup(ctx, "s1", "L16", monday)
	require.ErrorIs(t, err, ErrAlreadyBooked)

	_, err = f.booking.ToggleClassCancellation(ctx, "M8")
	require.NoError(t, err)
	err = f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday)
	require.ErrorIs(t, err, ErrClassCancelled)

	err = f.booking.RedeemMakeup(ctx, "s1", "M8", "2025-3-11")
	require.ErrorIs(t, err, ErrInvalidDate)

	assert.Equal(t, 3, f.credits("s1"))
}

func TestRedeemMakeupRespectsResolvedCapacity(t *testing.T) {
	ctx := context.Background()
	students := []*model.Student{newStudent("guest", model.PlanOne, model.LevelBasic, 2)}
	for i := 1; i <= 5; i++ {
		students = append(students, newStudent(fmt.Sprintf("s%d", i), model.PlanOne, model.LevelBasic, 0))
	}
	f := newFixture(t, students...)
	for i := 1; i <= 5; i++ {
		require.NoError(t, f.booking.AssignPermanent(ctx, fmt.Sprintf("s%d", i), "L16", "2025-01-01"))
	}

	err := f.booking.RedeemMakeup(ctx, "guest", "L16", monday)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 2, f.credits("guest"))

	_, err = f.booking.MarkAbsentForDay(ctx, "s3", "L16", monday, true)
	require.NoError(t, err)

	require.NoError(t, f.booking.RedeemMakeup(ctx, "guest", "L16", monday))
	assert.Equal(t, 1, f.credits("guest"))

	for _, date := range []string{monday, "2025-03-17"} {
		presence, err := f.booking.Presence("L16", date)
		require.NoError(t, err)
		assert.LessOrEqual(t, presence.Occupancy(), DefaultMaxCapacity)
	}

	err = f.booking.RedeemMakeup(ctx, "guest", "L16", "2025-03-17")
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRedeemMakeupPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 1))
	f.ledger.fail = errStoreDown

	err := f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday)
	require.True(t, IsPersistenceError(err))
	assert.Equal(t, 1, f.credits("s1"))
	assert.Empty(t, f.slot("M8").OneTimeBookings)
}

func TestAddGuestVisit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))

	require.NoError(t, f.booking.AddGuestVisit(ctx, "s1", "M8", tuesday))
	assert.Equal(t, 0, f.credits("s1"))
	assert.Equal(t, []model.OneTimeBooking{{StudentID: "s1", Date: tuesday}}, f.slot("M8").OneTimeBookings)
	assert.Empty(t, f.ledger.credits)
}

func TestRemoveOneTimeBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 1))
	require.NoError(t, f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday))

	require.NoError(t, f.booking.RemoveOneTimeBooking(ctx, "s1", "M8", tuesday))
	assert.Empty(t, f.slot("M8").OneTimeBookings)
	assert.Equal(t, 0, f.credits("s1"))

	err := f.booking.RemoveOneTimeBooking(ctx, "s1", "M8", tuesday)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRestoreForDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.NoError(t, err)
	require.Equal(t, 1, f.credits("s1"))

	require.NoError(t, f.booking.RestoreForDay(ctx, "s1", "L16", monday))
	assert.Equal(t, 0, f.credits("s1"))
	assert.Empty(t, f.slot("L16").Absences)

	presence, err := f.booking.Presence("L16", monday)
	require.NoError(t, err)
	assert.True(t, presence.PresentIDs.Has("s1"))

	err = f.booking.RestoreForDay(ctx, "s1", "L16", monday)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRestoreForDayCreditFloor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.NoError(t, err)
	require.NoError(t, f.booking.RedeemMakeup(ctx, "s1", "M8", tuesday))
	require.Equal(t, 0, f.credits("s1"))

	require.NoError(t, f.booking.RestoreForDay(ctx, "s1", "L16", monday))
	assert.Equal(t, 0, f.credits("s1"))

	last := f.ledger.credits[len(f.ledger.credits)-1]
	assert.Equal(t, model.CreditReasonRestore, last.Reason)
	assert.Equal(t, 0, last.Delta)
	assert.Equal(t, 0, last.BalanceAfter)
}

func TestToggleClassCancellation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 1))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))
	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, false)
	require.NoError(t, err)
	before := f.slot("L16").Clone()

	cancelled, err := f.booking.ToggleClassCancellation(ctx, "L16")
	require.NoError(t, err)
	assert.True(t, cancelled)

	cancelled, err = f.booking.ToggleClassCancellation(ctx, "L16")
	require.NoError(t, err)
	assert.False(t, cancelled)

	assert.Equal(t, before, f.slot("L16"))
	assert.Equal(t, 1, f.credits("s1"))

	_, err = f.booking.ToggleClassCancellation(ctx, "Z1")
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestToggleClassCancellationPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.ledger.fail = errStoreDown

	cancelled, err := f.booking.ToggleClassCancellation(context.Background(), "L16")
	require.True(t, IsPersistenceError(err))
	assert.False(t, cancelled)
	assert.False(t, f.slot("L16").IsCancelled)
}

func TestDeleteStudent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		newStudent("s1", model.PlanTwo, model.LevelBasic, 0),
		newStudent("s2", model.PlanOne, model.LevelBasic, 0),
	)
	f.state.payments["s1"] = map[string]string{"2025-03": "2025-03-05"}
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "M8", "2025-01-01"))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s2", "L16", "2025-01-01"))

	require.NoError(t, f.booking.DeleteStudent(ctx, "s1"))

	assert.Equal(t, []model.Booking{{StudentID: "s2", ClassID: "L16", StartDate: "2025-01-06"}}, f.slot("L16").Bookings)
	assert.Empty(t, f.slot("M8").Bookings)
	assert.NotContains(t, f.state.payments, "s1")

	_, err := f.booking.Student("s1")
	require.ErrorIs(t, err, ErrStudentNotFound)
	err = f.booking.DeleteStudent(ctx, "s1")
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestDeleteStudentPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 0))
	f.state.payments["s1"] = map[string]string{"2025-03": "2025-03-05"}
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))
	f.ledger.fail = errStoreDown

	err := f.booking.DeleteStudent(ctx, "s1")
	require.True(t, errors.Is(err, errStoreDown))

	assert.Len(t, f.slot("L16").Bookings, 1)
	assert.Equal(t, "2025-03-05", f.state.payments.PaidOn("s1", "2025-03"))
	_, err = f.booking.Student("s1")
	require.NoError(t, err)
}

func TestResolverExampleThroughEngine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		newStudent("s1", model.PlanOne, model.LevelBasic, 0),
		newStudent("s2", model.PlanOne, model.LevelBasic, 0),
	)
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))
	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, false)
	require.NoError(t, err)
	require.NoError(t, f.booking.AddGuestVisit(ctx, "s2", "L16", monday))

	presence, err := f.booking.Presence("L16", monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, presence.PresentIDs.Sorted())

	presence, err = f.booking.Presence("L16", nextMonth)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, presence.PresentIDs.Sorted())
}

func TestAssignPermanentRespectsOneTimeBookings(t *testing.T) {
	ctx := context.Background()
	var students []*model.Student
	for i := 1; i <= 6; i++ {
		students = append(students, newStudent(fmt.Sprintf("s%d", i), model.PlanThree, model.LevelBasic, 1))
	}
	f := newFixture(t, students...)
	for i := 1; i <= 4; i++ {
		require.NoError(t, f.booking.AssignPermanent(ctx, fmt.Sprintf("s%d", i), "L16", "2025-01-01"))
	}
	require.NoError(t, f.booking.RedeemMakeup(ctx, "s6", "L16", monday))

	err := f.booking.AssignPermanent(ctx, "s5", "L16", "2025-01-01")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Len(t, f.slot("L16").Bookings, 4)

	require.NoError(t, f.booking.AssignPermanent(ctx, "s5", "L16", tuesday))
	assert.Equal(t, "2025-03-17", f.slot("L16").PermanentBooking("s5").StartDate)

	err = f.booking.AssignPermanent(ctx, "s5", "L16", "2025-03-03")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, "2025-03-17", f.slot("L16").PermanentBooking("s5").StartDate)

	presence, err := f.booking.Presence("L16", monday)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxCapacity, presence.Occupancy())
}

func TestRestoreForDayRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	students := []*model.Student{newStudent("guest", model.PlanOne, model.LevelBasic, 0)}
	for i := 1; i <= 5; i++ {
		students = append(students, newStudent(fmt.Sprintf("s%d", i), model.PlanOne, model.LevelBasic, 0))
	}
	f := newFixture(t, students...)
	for i := 1; i <= 5; i++ {
		require.NoError(t, f.booking.AssignPermanent(ctx, fmt.Sprintf("s%d", i), "L16", "2025-01-01"))
	}

	_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.NoError(t, err)
	require.NoError(t, f.booking.AddGuestVisit(ctx, "guest", "L16", monday))

	err = f.booking.RestoreForDay(ctx, "s1", "L16", monday)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.NotNil(t, f.slot("L16").FindAbsence("s1", monday))
	assert.Equal(t, 1, f.credits("s1"))

	require.NoError(t, f.booking.RemoveOneTimeBooking(ctx, "guest", "L16", monday))
	require.NoError(t, f.booking.RestoreForDay(ctx, "s1", "L16", monday))
	assert.Equal(t, 0, f.credits("s1"))
}

func TestCapacityHoldsAcrossOperationSequence(t *testing.T) {
	ctx := context.Background()
	var students []*model.Student
	for i := 1; i <= 9; i++ {
		students = append(students, newStudent(fmt.Sprintf("s%d", i), model.PlanThree, model.LevelBasic, 2))
	}
	f := newFixture(t, students...)

	dates := []string{"2025-03-03", monday, "2025-03-17", "2025-03-24"}
	for i := 1; i <= 9; i++ {
		id := fmt.Sprintf("s%d", i)
		date := dates[i%len(dates)]

		switch i % 3 {
		case 0:
			_ = f.booking.RedeemMakeup(ctx, id, "L16", date)
		case 1:
			_ = f.booking.AssignPermanent(ctx, id, "L16", date)
		default:
			_ = f.booking.AddGuestVisit(ctx, id, "L16", date)
			_ = f.booking.AssignPermanent(ctx, id, "L16", "2025-01-01")
		}
		if i%4 == 0 {
			_, _ = f.booking.MarkAbsentForDay(ctx, "s1", "L16", date, true)
			_ = f.booking.RedeemMakeup(ctx, "s1", "L16", date)
			_ = f.booking.RestoreForDay(ctx, "s1", "L16", date)
		}

		for _, d := range dates {
			presence, err := f.booking.Presence("L16", d)
			require.NoError(t, err)
			require.LessOrEqual(t, presence.Occupancy(), DefaultMaxCapacity, "after step %d on %s", i, d)
		}
	}
}

func TestDayOperationsRejectDatesOutsideClassDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 1))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-01-01"))

	for _, date := range []string{tuesday, "2025-03-12", "2025-03-13"} {
		_, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", date, true)
		require.ErrorIs(t, err, ErrDateNotInClass)
	}

	err := f.booking.RedeemMakeup(ctx, "s1", "M8", monday)
	require.ErrorIs(t, err, ErrDateNotInClass)
	err = f.booking.AddGuestVisit(ctx, "s1", "M8", monday)
	require.ErrorIs(t, err, ErrDateNotInClass)
	err = f.booking.RestoreForDay(ctx, "s1", "L16", tuesday)
	require.ErrorIs(t, err, ErrDateNotInClass)
	err = f.booking.RemoveOneTimeBooking(ctx, "s1", "M8", monday)
	require.ErrorIs(t, err, ErrDateNotInClass)

	assert.Equal(t, 1, f.credits("s1"))
	assert.Empty(t, f.slot("L16").Absences)
	assert.Empty(t, f.slot("M8").OneTimeBookings)
	assert.Equal(t, []string{"save_booking"}, f.ledger.calls)
}

func TestMarkAbsentForDayBeforeStartDateRemovesOneTimeBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStudent("s1", model.PlanOne, model.LevelBasic, 1))
	require.NoError(t, f.booking.RedeemMakeup(ctx, "s1", "L16", monday))
	require.NoError(t, f.booking.AssignPermanent(ctx, "s1", "L16", "2025-03-17"))

	presence, err := f.booking.Presence("L16", monday)
	require.NoError(t, err)
	require.Equal(t, attendance.SourceOneTime, presence.Source("s1"))

	outcome, err := f.booking.MarkAbsentForDay(ctx, "s1", "L16", monday, true)
	require.NoError(t, err)
	assert.Equal(t, OneTimeBookingRemoved, outcome)
	assert.Empty(t, f.slot("L16").OneTimeBookings)
	assert.Empty(t, f.slot("L16").Absences)
	assert.Equal(t, 0, f.credits("s1"))
}
