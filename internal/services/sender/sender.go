// Package sender содержит бизнес-логику отправителя уведомлений.
//
// Отправитель потребляет задания из очередей RabbitMQ и доставляет их
// через внешний webhook (email/SMS-провайдер).
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/petminder/petcare-backend/internal/lib/sl"
	"github.com/petminder/petcare-backend/internal/metrics"
	"github.com/petminder/petcare-backend/internal/models"
)

// deliveryTimeout ограничивает доставку одного уведомления.
const deliveryTimeout = 15 * time.Second

// Deliverer доставляет задание во внешний сервис уведомлений.
type Deliverer interface {
	Deliver(ctx context.Context, job models.NotificationJob) error
}

// SenderService доставляет задания уведомлений из очереди.
type SenderService struct {
	deliverer Deliverer
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(deliverer Deliverer, log *slog.Logger) *SenderService {
	return &SenderService{
		deliverer: deliverer,
		log:       log,
	}
}

// HandleNotificationJob обрабатывает одно сообщение очереди уведомлений.
// Ошибка приводит к возврату сообщения в очередь потребителем.
func (s *SenderService) HandleNotificationJob(body []byte) error {
	var job models.NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal notification job", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := s.deliverer.Deliver(ctx, job); err != nil {
		metrics.NotificationsDelivered.WithLabelValues(job.Kind, "error").Inc()
		s.log.Error("failed to deliver notification",
			slog.String("job_id", job.ID), slog.String("kind", job.Kind), sl.Err(err))
		return err
	}

	metrics.NotificationsDelivered.WithLabelValues(job.Kind, "ok").Inc()
	s.log.Info("notification delivered",
		slog.String("job_id", job.ID), slog.String("kind", job.Kind),
		slog.String("email", job.Email))
	return nil
}
