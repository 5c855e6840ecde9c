package attendance

import (
	"sort"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
)

// Set множество ID учениц
type Set map[string]struct{}

// Has проверяет принадлежность
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len размер множества
func (s Set) Len() int {
	return len(s)
}

// Sorted возвращает ID в отсортированном порядке
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Source откуда у ученицы присутствие на дату
type Source int

const (
	SourceNone Source = iota
	SourcePermanent
	SourceOneTime
	SourceBoth
)

// Presence результат разрешения посещаемости класса на дату
type Presence struct {
	Date         string
	PresentIDs   Set
	PermanentIDs Set
	OneTimeIDs   Set
	AbsentIDs    Set
}

// Occupancy количество присутствующих (ученица через оба пути считается один раз)
func (p Presence) Occupancy() int {
	return p.PresentIDs.Len()
}

// Source определяет путь присутствия ученицы
func (p Presence) Source(studentID string) Source {
	perm := p.PermanentIDs.Has(studentID)
	once := p.OneTimeIDs.Has(studentID)
	switch {
	case perm && once:
		return SourceBoth
	case perm:
		return SourcePermanent
	case once:
		return SourceOneTime
	default:
		return SourceNone
	}
}

// Resolve вычисляет присутствующих в классе на дату YYYY-MM-DD.
// Это единственная реализация подсчёта: ей пользуются и представления, и проверки вместимости.
func Resolve(slot *model.ClassSlot, date string) Presence {
	p := Presence{
		Date:         date,
		PresentIDs:   make(Set),
		PermanentIDs: make(Set),
		OneTimeIDs:   make(Set),
		AbsentIDs:    make(Set),
	}
	if slot == nil {
		return p
	}

	for _, a := range slot.Absences {
		if a.Date == date {
			p.AbsentIDs[a.StudentID] = struct{}{}
		}
	}

	for _, b := range slot.Bookings {
		if b.StartDate <= date && !p.AbsentIDs.Has(b.StudentID) {
			p.PermanentIDs[b.StudentID] = struct{}{}
		}
	}

	for _, o := range slot.OneTimeBookings {
		if o.Date == date {
			p.OneTimeIDs[o.StudentID] = struct{}{}
		}
	}

	for id := range p.PermanentIDs {
		p.PresentIDs[id] = struct{}{}
	}
	for id := range p.OneTimeIDs {
		p.PresentIDs[id] = struct{}{}
	}

	return p
}
