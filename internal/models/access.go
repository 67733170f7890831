package models

import "time"

// Уровни доступа, вычисляемые резолвером статуса.
const (
	AccessFree    = "free"
	AccessActive  = "active"
	AccessExpired = "expired"
)

// AccessStatus — вычисляемый уровень доступа аккаунта.
// Никогда не сохраняется в хранилище, пересчитывается при каждом запросе.
//
// Поле ResolutionError заполняется, когда резолвер деградировал до безопасного
// дефолта из-за внутренней ошибки: клиент получает рабочий payload, а мониторинг
// может отличить "резолв в free" от "резолв не удался".
type AccessStatus struct {
	IsPremium       bool       `json:"isPremium"`
	Status          string     `json:"status"`
	TrialDaysLeft   int        `json:"trialDaysLeft"`
	TrialExpired    bool       `json:"trialExpired"`
	IsPaying        bool       `json:"isPaying"`
	NextDueDate     *time.Time `json:"nextDueDate,omitempty"`
	ResolutionError string     `json:"resolutionError,omitempty"`
}
