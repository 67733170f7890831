// Package metrics регистрирует счетчики Prometheus для ключевых операций сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccessResolutions считает вызовы резолвера статуса по итоговому уровню доступа.
	// Метка degraded отмечает резолвы, завершившиеся безопасным дефолтом.
	AccessResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "access_resolutions_total",
		Help: "Total number of access status resolutions by resulting status.",
	}, []string{"status", "degraded"})

	// PaymentReconciliations считает вызовы сверки платежей по исходу.
	PaymentReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reconciliations_total",
		Help: "Total number of payment webhook reconciliations by outcome.",
	}, []string{"outcome"})

	// NotificationsDelivered считает доставленные и недоставленные уведомления.
	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Total number of notification webhook deliveries by result.",
	}, []string{"kind", "result"})
)
