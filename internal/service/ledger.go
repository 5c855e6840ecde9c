package service

import (
	"context"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/schedule"
)

// Snapshot состояние студии, загруженное из хранилища
type Snapshot struct {
	Students []*model.Student
	Schedule *schedule.Schedule
	Payments model.PaymentRecord
}

// Loader загружает состояние студии. Расписание всегда содержит полную сетку слотов,
// даже если записей ещё нет.
type Loader interface {
	LoadAll(ctx context.Context) (*Snapshot, error)
}

// BookingLedger намерения движка записей, которые хранилище должно сохранить.
// credit != nil означает изменение счётчика кредитов в той же транзакции.
type BookingLedger interface {
	SavePermanentBooking(ctx context.Context, booking model.Booking) error
	DeletePermanentBooking(ctx context.Context, studentID, classID string) error
	AddAbsence(ctx context.Context, classID string, absence model.Absence, credit *model.CreditMovement) error
	RemoveAbsence(ctx context.Context, classID string, absence model.Absence, credit *model.CreditMovement) error
	AddOneTimeBooking(ctx context.Context, classID string, booking model.OneTimeBooking, credit *model.CreditMovement) error
	RemoveOneTimeBooking(ctx context.Context, classID string, booking model.OneTimeBooking) error
	SetClassCancelled(ctx context.Context, classID string, cancelled bool) error
	DeleteStudent(ctx context.Context, studentID string) error
}

// RosterLedger сохранение профилей учениц
type RosterLedger interface {
	CreateStudent(ctx context.Context, student *model.Student) error
	UpdateStudent(ctx context.Context, student *model.Student) error
}

// PaymentLedger сохранение отметок об оплате
type PaymentLedger interface {
	MarkPayment(ctx context.Context, studentID, monthKey, paidOn string) error
	UndoPayment(ctx context.Context, studentID, monthKey string) error
}

// JournalWriter запись журнала посещаемости. Строки за период [from, to] заменяются целиком.
type JournalWriter interface {
	ReplaceJournal(ctx context.Context, from, to string, records []model.AttendanceRecord) (int64, error)
}
