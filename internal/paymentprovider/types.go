package paymentprovider

import "time"

// Subscription — запись о подписке на стороне платёжного провайдера.
type Subscription struct {
	ID               string     `json:"id"`
	CustomerEmail    string     `json:"customer_email"`
	Status           string     `json:"status"` // active, cancelled, past_due
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// ListSubscriptionsResponse — ответ провайдера на запрос подписок клиента.
type ListSubscriptionsResponse struct {
	Items []Subscription `json:"items"`
}
