package state

// DialogState шаг многошагового диалога администратора
type DialogState string

const (
	StateNone DialogState = "" // Нет активного диалога

	// Шаги создания ученицы
	StateNewStudentName       DialogState = "new_student_name"
	StateNewStudentSurname    DialogState = "new_student_surname"
	StateNewStudentPhone      DialogState = "new_student_phone"
	StateNewStudentLevel      DialogState = "new_student_level"
	StateNewStudentPlan       DialogState = "new_student_plan"
	StateNewStudentEnrollment DialogState = "new_student_enrollment"
)

// Ключи данных диалога создания ученицы
const (
	KeyName    = "name"
	KeySurname = "surname"
	KeyPhone   = "phone"
	KeyLevel   = "level"
	KeyPlan    = "plan"

	KeyEnrollment = "enrollment_date"
)

// Dialog хранит шаг и введённые значения одного чата
type Dialog struct {
	State DialogState
	Data  map[string]string
}
