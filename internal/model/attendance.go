package model

type AssignmentType string

const (
	AssignmentRecurring AssignmentType = "recurring"
	AssignmentMakeup    AssignmentType = "makeup"
	AssignmentGuest     AssignmentType = "guest"
)

type AttendanceStatus string

const (
	AttendanceScheduled         AttendanceStatus = "scheduled"
	AttendanceCancelledNotice   AttendanceStatus = "cancelled_notice"    // отмена с предупреждением, кредит начислен
	AttendanceCancelledNoNotice AttendanceStatus = "cancelled_no_notice" // отмена без кредита
	AttendanceClassCancelled    AttendanceStatus = "class_cancelled"
)

// AttendanceRecord строка журнала посещаемости
type AttendanceRecord struct {
	Date       string           `json:"date"`
	ClassID    string           `json:"class_id"`
	StudentID  string           `json:"student_id"`
	Assignment AssignmentType   `json:"assignment"`
	Status     AttendanceStatus `json:"status"`
}
