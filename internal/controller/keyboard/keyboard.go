package keyboard

import "github.com/go-telegram/bot/models"

// Inline собирает inline клавиатуру из рядов, пустые ряды пропускаются
func Inline(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	markup := &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{}}
	for _, row := range rows {
		if len(row) > 0 {
			markup.InlineKeyboard = append(markup.InlineKeyboard, row)
		}
	}
	return markup
}

func Row(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// Callback кнопка, нажатие которой приходит в HandleCallbackQuery
func Callback(text, data string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: data}
}

// Link кнопка-ссылка (WhatsApp ученицы)
func Link(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, URL: url}
}
