package model

// Booking постоянная запись: ученица занимает еженедельный слот начиная со StartDate
type Booking struct {
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

// Absence отсутствие ученицы с постоянной записью в конкретную дату
type Absence struct {
	StudentID  string `json:"student_id"`
	Date       string `json:"date"`        // YYYY-MM-DD
	WithNotice bool   `json:"with_notice"` // за отсутствие начислен отработочный кредит
}

// OneTimeBooking разовая запись на конкретную дату (отработка или гостевой визит)
type OneTimeBooking struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Makeup    bool   `json:"makeup"`
}
