package rabbitmq

import (
	"github.com/streadway/amqp"
)

// NotificationPublisher публикует сообщения в exchange уведомлений
// поверх открытого канала RabbitMQ.
type NotificationPublisher struct {
	ch *amqp.Channel
}

// NewNotificationPublisher создает публикатор поверх готового канала.
func NewNotificationPublisher(ch *amqp.Channel) *NotificationPublisher {
	return &NotificationPublisher{ch: ch}
}

// Publish публикует сообщение в exchange уведомлений с заданным ключом маршрутизации.
func (p *NotificationPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, NotificationsExchange, routingKey, message)
}
