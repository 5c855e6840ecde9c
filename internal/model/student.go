package model

import "time"

// Level уровень подготовки ученицы
type Level string

const (
	LevelBasic    Level = "basic"
	LevelMedium   Level = "medium"
	LevelAdvanced Level = "advanced"
)

// NoLevelRank означает, что у класса нет ограничения по уровню (класс пуст)
const NoLevelRank = -1

// Rank возвращает позицию уровня в иерархии Basic < Medium < Advanced
func (l Level) Rank() int {
	switch l {
	case LevelMedium:
		return 1
	case LevelAdvanced:
		return 2
	default:
		return 0
	}
}

// IsValid проверяет что уровень известен
func (l Level) IsValid() bool {
	return l == LevelBasic || l == LevelMedium || l == LevelAdvanced
}

// ParseLevel разбирает уровень, в том числе однобуквенные коды B/M/A из старой таблицы
func ParseLevel(s string) Level {
	switch s {
	case "A", "a", string(LevelAdvanced):
		return LevelAdvanced
	case "M", "m", string(LevelMedium):
		return LevelMedium
	default:
		return LevelBasic
	}
}

// Plan недельная квота постоянных записей (1, 2 или 3 класса в неделю)
type Plan int

const (
	PlanOne   Plan = 1
	PlanTwo   Plan = 2
	PlanThree Plan = 3
)

// IsValid проверяет что план поддерживается студией
func (p Plan) IsValid() bool {
	return p >= PlanOne && p <= PlanThree
}

type StudentStatus string

const (
	StudentStatusActive  StudentStatus = "active"
	StudentStatusDeleted StudentStatus = "deleted"
)

type Student struct {
	ID             string        `json:"id"`
	Name           string        `json:"name" validate:"required,max=100"`
	Surname        string        `json:"surname" validate:"max=100"`
	Phone          string        `json:"phone" validate:"omitempty,numeric,min=6,max=20"`
	Level          Level         `json:"level" validate:"required,oneof=basic medium advanced"`
	EnrollmentDate string        `json:"enrollment_date" validate:"required,datetime=2006-01-02"` // YYYY-MM-DD
	Plan           Plan          `json:"plan" validate:"required,min=1,max=3"`
	MakeupCredits  int           `json:"makeup_credits" validate:"min=0"`
	Status         StudentStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// FullName возвращает "Имя Фамилия"
func (s *Student) FullName() string {
	if s.Surname == "" {
		return s.Name
	}
	return s.Name + " " + s.Surname
}

// IsActive проверяет что ученица не удалена
func (s *Student) IsActive() bool {
	return s.Status != StudentStatusDeleted
}

// Clone возвращает копию ученицы
func (s *Student) Clone() *Student {
	c := *s
	return &c
}
