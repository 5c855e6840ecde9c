package model

import "time"

// ClassSlot фиксированный слот расписания студии (день недели + час)
type ClassSlot struct {
	ID              string           `json:"id"`
	Weekday         time.Weekday     `json:"weekday"`
	Hour            int              `json:"hour"`
	Bookings        []Booking        `json:"bookings"`
	IsCancelled     bool             `json:"is_cancelled"`
	Absences        []Absence        `json:"absences"`
	OneTimeBookings []OneTimeBooking `json:"one_time_bookings"`
}

// HasPermanentBooking проверяет есть ли у ученицы постоянная запись в слоте
func (c *ClassSlot) HasPermanentBooking(studentID string) bool {
	return c.permanentIndex(studentID) >= 0
}

// PermanentBooking возвращает постоянную запись ученицы или nil
func (c *ClassSlot) PermanentBooking(studentID string) *Booking {
	if i := c.permanentIndex(studentID); i >= 0 {
		return &c.Bookings[i]
	}
	return nil
}

func (c *ClassSlot) permanentIndex(studentID string) int {
	for i := range c.Bookings {
		if c.Bookings[i].StudentID == studentID {
			return i
		}
	}
	return -1
}

// RemovePermanentBooking удаляет постоянную запись, возвращает true если она была
func (c *ClassSlot) RemovePermanentBooking(studentID string) bool {
	kept := c.Bookings[:0]
	removed := false
	for _, b := range c.Bookings {
		if b.StudentID == studentID {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	c.Bookings = kept
	return removed
}

// FindAbsence возвращает отсутствие ученицы на дату или nil
func (c *ClassSlot) FindAbsence(studentID, date string) *Absence {
	for i := range c.Absences {
		if c.Absences[i].StudentID == studentID && c.Absences[i].Date == date {
			return &c.Absences[i]
		}
	}
	return nil
}

// RemoveAbsence удаляет отсутствие, возвращает удалённую запись
func (c *ClassSlot) RemoveAbsence(studentID, date string) (Absence, bool) {
	for i, a := range c.Absences {
		if a.StudentID == studentID && a.Date == date {
			c.Absences = append(c.Absences[:i], c.Absences[i+1:]...)
			return a, true
		}
	}
	return Absence{}, false
}

// HasOneTimeBooking проверяет разовую запись ученицы на дату
func (c *ClassSlot) HasOneTimeBooking(studentID, date string) bool {
	for _, o := range c.OneTimeBookings {
		if o.StudentID == studentID && o.Date == date {
			return true
		}
	}
	return false
}

// RemoveOneTimeBooking удаляет разовую запись на дату, возвращает удалённую запись
func (c *ClassSlot) RemoveOneTimeBooking(studentID, date string) (OneTimeBooking, bool) {
	for i, o := range c.OneTimeBookings {
		if o.StudentID == studentID && o.Date == date {
			c.OneTimeBookings = append(c.OneTimeBookings[:i], c.OneTimeBookings[i+1:]...)
			return o, true
		}
	}
	return OneTimeBooking{}, false
}

// Clone возвращает глубокую копию слота
func (c *ClassSlot) Clone() *ClassSlot {
	cp := *c
	cp.Bookings = append([]Booking(nil), c.Bookings...)
	cp.Absences = append([]Absence(nil), c.Absences...)
	cp.OneTimeBookings = append([]OneTimeBooking(nil), c.OneTimeBookings...)
	return &cp
}
