package model

// PaymentRecord studentID -> monthKey (YYYY-MM) -> дата оплаты (YYYY-MM-DD)
type PaymentRecord map[string]map[string]string

// PaidOn возвращает дату оплаты за месяц или пустую строку
func (p PaymentRecord) PaidOn(studentID, monthKey string) string {
	if months, ok := p[studentID]; ok {
		return months[monthKey]
	}
	return ""
}
