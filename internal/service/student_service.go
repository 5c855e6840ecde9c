package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// localPhonePrefix код страны и мобильный префикс, которые хранятся без повторения
const localPhonePrefix = "54911"

// StudentInput поля профиля, которые редактирует администратор
type StudentInput struct {
	Name           string
	Surname        string
	Phone          string
	Level          model.Level
	EnrollmentDate string
	Plan           model.Plan
}

// StudentService ведёт список учениц. Счётчик отработок здесь не меняется, им владеет движок записей.
type StudentService struct {
	state    *State
	ledger   RosterLedger
	validate *validator.Validate
	logger   *zap.Logger
}

func NewStudentService(state *State, ledger RosterLedger, logger *zap.Logger) *StudentService {
	return &StudentService{
		state:    state,
		ledger:   ledger,
		validate: validator.New(),
		logger:   logger,
	}
}

// NormalizePhone оставляет только цифры и убирает префикс 54911
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimPrefix(b.String(), localPhonePrefix)
}

// WhatsAppNumber возвращает номер в международном формате для ссылок wa.me
func WhatsAppNumber(phone string) string {
	if phone == "" {
		return ""
	}
	return localPhonePrefix + phone
}

// CreateStudent добавляет ученицу с новым ID и нулём отработок
func (s *StudentService) CreateStudent(ctx context.Context, in StudentInput) (*model.Student, error) {
	student := &model.Student{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(in.Name),
		Surname:        strings.TrimSpace(in.Surname),
		Phone:          NormalizePhone(in.Phone),
		Level:          in.Level,
		EnrollmentDate: in.EnrollmentDate,
		Plan:           in.Plan,
		Status:         model.StudentStatusActive,
		CreatedAt:      time.Now(),
	}

	if err := s.validateStudent(student); err != nil {
		return nil, err
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	err := s.ledger.CreateStudent(ctx, student)
	if err != nil {
		return nil, &PersistenceError{Op: "create student", Err: err}
	}
	s.state.students[student.ID] = student

	s.logger.Info("Student created",
		zap.String("student_id", student.ID),
		zap.String("name", student.FullName()),
		zap.Int("plan", int(student.Plan)),
	)

	return student.Clone(), nil
}

// UpdateStudent меняет профиль. Если новый план меньше числа постоянных записей,
// изменение отклоняется с ErrPlanQuotaExceeded.
func (s *StudentService) UpdateStudent(ctx context.Context, studentID string, in StudentInput) (*model.Student, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	current, err := s.state.student(studentID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.Name = strings.TrimSpace(in.Name)
	updated.Surname = strings.TrimSpace(in.Surname)
	updated.Phone = NormalizePhone(in.Phone)
	updated.Level = in.Level
	updated.EnrollmentDate = in.EnrollmentDate
	updated.Plan = in.Plan

	if err := s.validateStudent(updated); err != nil {
		return nil, err
	}
	if s.state.schedule.CountPermanentBookings(studentID) > int(updated.Plan) {
		return nil, ErrPlanQuotaExceeded
	}

	err = s.ledger.UpdateStudent(ctx, updated)
	if err != nil {
		return nil, &PersistenceError{Op: "update student", Err: err}
	}
	*current = *updated

	s.logger.Info("Student updated",
		zap.String("student_id", studentID),
		zap.String("level", string(updated.Level)),
		zap.Int("plan", int(updated.Plan)),
	)

	return updated.Clone(), nil
}

// ListStudents возвращает активных учениц по имени
func (s *StudentService) ListStudents() []*model.Student {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	out := make([]*model.Student, 0, len(s.state.students))
	for _, st := range s.state.sortedStudents() {
		out = append(out, st.Clone())
	}
	return out
}

// FindStudents ищет учениц по подстроке "имя фамилия" без учёта регистра
func (s *StudentService) FindStudents(query string) []*model.Student {
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []*model.Student
	for _, st := range s.ListStudents() {
		if strings.Contains(strings.ToLower(st.FullName()), needle) {
			out = append(out, st)
		}
	}
	return out
}

func (s *StudentService) validateStudent(student *model.Student) error {
	err := s.validate.Struct(student)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate student: %w", err)
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s", ErrInvalidStudent, strings.Join(fields, ", "))
}
