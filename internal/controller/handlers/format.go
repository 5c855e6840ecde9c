package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
)

// pluralize выбирает форму слова для числа: 1 отработка, 2 отработки, 5 отработок
func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

func pluralizeCredits(count int) string {
	return pluralize(count, "отработка", "отработки", "отработок")
}

func pluralizeStudents(count int) string {
	return pluralize(count, "ученица", "ученицы", "учениц")
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

var levelNames = map[model.Level]string{
	model.LevelBasic:    "начальный",
	model.LevelMedium:   "средний",
	model.LevelAdvanced: "продвинутый",
}

// levelName название уровня; неизвестный уровень выводится как есть
func levelName(l model.Level) string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return string(l)
}

func rankName(rank int) string {
	switch rank {
	case model.LevelBasic.Rank():
		return levelName(model.LevelBasic)
	case model.LevelMedium.Rank():
		return levelName(model.LevelMedium)
	case model.LevelAdvanced.Rank():
		return levelName(model.LevelAdvanced)
	default:
		return "любой"
	}
}

func sourceName(src attendance.Source) string {
	switch src {
	case attendance.SourcePermanent:
		return "постоянная"
	case attendance.SourceOneTime:
		return "разовая"
	case attendance.SourceBoth:
		return "постоянная + разовая"
	default:
		return ""
	}
}

// formatClassView состав класса на дату
func formatClassView(view *service.ClassView) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🏋️ Класс %s · %s %s, %02d:00\n", view.ClassID, weekdayNames[view.Weekday], view.Date, view.Hour)
	if view.IsCancelled {
		sb.WriteString("🚫 Класс отменён\n")
	}
	fmt.Fprintf(&sb, "👥 Занято: %d/%d\n", view.Occupancy, view.Capacity)
	fmt.Fprintf(&sb, "📊 Уровень: %s\n", rankName(view.LevelRank))

	if len(view.Present) == 0 {
		sb.WriteString("\nНикто не записан.")
	} else {
		sb.WriteString("\n")
		for i, p := range view.Present {
			fmt.Fprintf(&sb, "%d. %s (%s, %s)\n", i+1, p.Student.FullName(), levelName(p.Student.Level), sourceName(p.Source))
		}
	}

	if len(view.AbsentIDs) > 0 {
		fmt.Fprintf(&sb, "\n🙅 Отсутствуют: %d", len(view.AbsentIDs))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatStudentLine одна строка списка учениц
func formatStudentLine(st *model.Student) string {
	return fmt.Sprintf("%s · %s · план %d · %d %s",
		st.FullName(), levelName(st.Level), st.Plan, st.MakeupCredits, pluralizeCredits(st.MakeupCredits))
}

// formatStudentList список учениц с количеством
func formatStudentList(list []*model.Student) string {
	if len(list) == 0 {
		return "Учениц не найдено."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👩 %d %s\n\n", len(list), pluralizeStudents(len(list)))
	for i, st := range list {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatStudentLine(st))
	}
	return strings.TrimRight(sb.String(), "\n")
}

var creditReasonNames = map[model.CreditReason]string{
	model.CreditReasonAbsence:  "отсутствие с предупреждением",
	model.CreditReasonRedeem:   "отработка",
	model.CreditReasonRestore:  "отсутствие отменено",
	model.CreditReasonRollback: "отработка отменена",
}

// formatCredits баланс отработок и последние движения
func formatCredits(st *model.Student, history []*model.CreditMovement, classes []*model.ClassSlot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "👩 %s\n", st.FullName())
	fmt.Fprintf(&sb, "🎟 Баланс: %d %s\n", st.MakeupCredits, pluralizeCredits(st.MakeupCredits))

	if len(classes) > 0 {
		ids := make([]string, 0, len(classes))
		for _, c := range classes {
			ids = append(ids, c.ID)
		}
		fmt.Fprintf(&sb, "📅 Постоянные классы: %s\n", strings.Join(ids, ", "))
	}

	if len(history) > 0 {
		sb.WriteString("\nПоследние изменения:\n")
		for _, m := range history {
			fmt.Fprintf(&sb, "%+d · %s %s · %s → %d\n", m.Delta, m.ClassID, m.Date, creditReasonNames[m.Reason], m.BalanceAfter)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
