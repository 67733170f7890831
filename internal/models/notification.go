package models

import "time"

// Виды уведомлений, публикуемых в очередь notifications.
const (
	NotificationTrialExpiring    = "trial.expiring"
	NotificationPaymentConfirmed = "payment.confirmed"
)

// NotificationJob — задание на отправку уведомления через внешний webhook.
// Публикуется планировщиком и сервисом сверки платежей, потребляется отправителем.
type NotificationJob struct {
	ID            string    `json:"id"`             // Уникальный идентификатор задания
	Kind          string    `json:"kind"`           // Вид уведомления
	Email         string    `json:"email"`          // Адрес получателя
	Username      string    `json:"username"`       // Имя пользователя для текста уведомления
	TrialDaysLeft int       `json:"trial_days_left"` // Остаток пробного периода на момент постановки
	OccurredAt    time.Time `json:"occurred_at"`     // Момент постановки задания
}
