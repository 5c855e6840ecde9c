package service

import (
	"sort"
	"sync"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/schedule"
)

// State общее состояние студии в памяти. Все изменения идут под одним мьютексом,
// поэтому операции над одной ученицей или классом не перемежаются.
type State struct {
	mu       sync.RWMutex
	students map[string]*model.Student
	schedule *schedule.Schedule
	payments model.PaymentRecord
}

// NewState создаёт состояние из загруженного снимка
func NewState(snap *Snapshot) *State {
	st := &State{
		students: make(map[string]*model.Student),
		schedule: snap.Schedule,
		payments: snap.Payments,
	}
	if st.payments == nil {
		st.payments = make(model.PaymentRecord)
	}
	for _, s := range snap.Students {
		if s.IsActive() {
			st.students[s.ID] = s
		}
	}
	return st
}

// Replace заменяет состояние целиком (перезагрузка из хранилища)
func (st *State) Replace(snap *Snapshot) {
	fresh := NewState(snap)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.students = fresh.students
	st.schedule = fresh.schedule
	st.payments = fresh.payments
}

// Schedule возвращает расписание. Вызывающий должен держать блокировку при чтении записей.
func (st *State) Schedule() *schedule.Schedule {
	return st.schedule
}

func (st *State) student(id string) (*model.Student, error) {
	s, ok := st.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	return s, nil
}

func (st *State) class(id string) (*model.ClassSlot, error) {
	slot := st.schedule.Class(id)
	if slot == nil {
		return nil, ErrClassNotFound
	}
	return slot, nil
}

func (st *State) sortedStudents() []*model.Student {
	out := make([]*model.Student, 0, len(st.students))
	for _, s := range st.students {
		out = append(out, s)
	}
	sortStudents(out)
	return out
}

func sortStudents(list []*model.Student) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}
