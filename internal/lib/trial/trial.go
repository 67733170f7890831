// Package trial содержит чистые функции расчета пробного периода аккаунта.
//
// Пробный период — фиксированное окно в 7 дней с момента создания аккаунта.
// Все функции детерминированы относительно переданного момента времени now,
// что упрощает тестирование граничных случаев.
package trial

import (
	"time"
)

// WindowDays длина пробного периода в днях, отсчитывается от trial_start_date.
const WindowDays = 7

// DaysSinceStart возвращает количество полных суток, прошедших с начала
// пробного периода. Неполные сутки отбрасываются.
func DaysSinceStart(trialStart, now time.Time) int {
	if now.Before(trialStart) {
		return 0
	}
	return int(now.Sub(trialStart).Hours() / 24)
}

// DaysLeft возвращает количество оставшихся дней пробного периода,
// не меньше нуля.
func DaysLeft(trialStart, now time.Time) int {
	left := WindowDays - DaysSinceStart(trialStart, now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired сообщает, истек ли пробный период к моменту now.
func Expired(trialStart, now time.Time) bool {
	return DaysSinceStart(trialStart, now) >= WindowDays
}
