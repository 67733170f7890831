// Package models содержит доменную модель аккаунта владельца питомцев,
// включающую учётные данные, дату начала пробного периода и платёжное состояние.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Статусы подписки аккаунта, хранящиеся в поле subscription_status.
const (
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Account представляет зарегистрированного владельца питомцев.
//
// Поле TrialStartDate устанавливается один раз при регистрации и далее не меняется.
// Поля IsPaying, NextDueDate и SubscriptionStatus мутируются только сервисом
// сверки платежей — это единственный путь записи платёжного состояния.
type Account struct {
	UID                string     // Уникальный идентификатор аккаунта
	Email              string     // Электронная почта, ключ для сверки платежей
	Username           string     // Имя пользователя (уникальное)
	PasswordHash       string     // Хэш пароля
	Role               string     // Роль, admin или user
	TrialStartDate     time.Time  // Дата начала пробного периода
	IsPaying           bool       // Признак оплаченной подписки
	NextDueDate        *time.Time // Дата следующего списания, nil если не назначена
	SubscriptionStatus string     // Денормализованный статус: trial|active|cancelled|expired
}
