package handlers

import (
	"errors"

	"github.com/Freeeeeet/studio_scheduler/internal/service"
)

// errorMessages тексты для ошибок, которые администратор может исправить сам
var errorMessages = []struct {
	err  error
	text string
}{
	{service.ErrCapacityExceeded, "❌ В классе нет свободных мест."},
	{service.ErrPlanQuotaExceeded, "❌ План ученицы уже исчерпан. Сначала снимите её с другого класса или поменяйте план."},
	{service.ErrNoCreditsAvailable, "❌ У ученицы нет отработок."},
	{service.ErrStudentNotFound, "❌ Ученица не найдена."},
	{service.ErrClassNotFound, "❌ Класс не найден. Код класса: буква дня и час, например L16 или M8."},
	{service.ErrBookingNotFound, "❌ У ученицы нет записи на этот класс в эту дату."},
	{service.ErrAlreadyBooked, "❌ Ученица уже занимается в этом классе в эту дату."},
	{service.ErrClassCancelled, "❌ Класс отменён."},
	{service.ErrInvalidDate, "❌ Неверная дата. Формат: 2025-03-10, 10/03/2025 или hoy."},
	{service.ErrDateNotInClass, "❌ В эту дату класса нет: день недели не совпадает с кодом класса."},
	{service.ErrInvalidStudent, "❌ Данные ученицы заполнены неверно."},
	{errMissingArgs, "❌ Не хватает аргументов. Справка: /help"},
	{errStudentAmbig, "❌ Подходит несколько учениц, уточните имя. Список: /students"},
	{errNoStudentName, "❌ Укажите имя ученицы."},
	{errStudentNone, "❌ Ученица с таким именем не найдена. Список: /students"},
}

// userMessage переводит ошибку сервиса в текст для администратора
func userMessage(err error) string {
	if service.IsPersistenceError(err) {
		return "❌ Не удалось сохранить изменения, ничего не изменилось. Попробуйте позже."
	}
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return "❌ Произошла ошибка. Попробуйте позже."
}
