package service

import (
	"errors"
	"fmt"
)

// Ошибки валидации движка записей. Возвращаются до любого изменения состояния.
var (
	ErrCapacityExceeded   = errors.New("class capacity exceeded")
	ErrPlanQuotaExceeded  = errors.New("plan quota exceeded")
	ErrNoCreditsAvailable = errors.New("no make-up credits available")
	ErrStudentNotFound    = errors.New("student not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAlreadyBooked      = errors.New("student already attends this class on that date")
	ErrClassCancelled     = errors.New("class is cancelled")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrDateNotInClass     = errors.New("class does not run on that date")
	ErrInvalidStudent     = errors.New("invalid student data")
)

// PersistenceError ошибка внешнего хранилища. Изменение в памяти при этом откатывается.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError проверяет что ошибка пришла из хранилища
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
