// Package reconciler содержит бизнес-логику сверки платёжного состояния.
//
// Платёжный провайдер асинхронно присылает снапшоты состояния подписки;
// сервис приводит сохранённое состояние аккаунта к присланному. Это
// единственный путь кода, которому разрешено устанавливать is_paying = true.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petminder/petcare-backend/internal/lib/sl"
	"github.com/petminder/petcare-backend/internal/metrics"
	"github.com/petminder/petcare-backend/internal/models"
)

// StatusPaid — статус провайдера, означающий подтвержденную оплату.
// Любой другой статус трактуется как отзыв оплаты.
const StatusPaid = "paid"

// AccountRepository определяет методы хранилища, нужные для сверки.
type AccountRepository interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	ConfirmPayment(ctx context.Context, email string, nextDueDate *time.Time) error
	CancelPayment(ctx context.Context, email string) error
}

// NotificationPublisher публикует задание на отправку уведомления.
type NotificationPublisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует сверку платёжного состояния аккаунта.
type Service struct {
	repo      AccountRepository
	publisher NotificationPublisher // nil, если уведомления выключены
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo AccountRepository, publisher NotificationPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// NormalizeEmail приводит email к каноническому виду для поиска аккаунта.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Reconcile приводит платёжное состояние аккаунта к снапшоту провайдера.
//
// Снапшоты идемпотентны: повторное применение того же снапшота не меняет
// сохранённое состояние. Неизвестный email — ошибка, аккаунты здесь
// не создаются.
func (s *Service) Reconcile(ctx context.Context, email, status string, nextDueDate *time.Time) error {
	const op = "reconciler.Reconcile"
	log := s.log.With(slog.String("op", op))

	normalized := NormalizeEmail(email)

	account, err := s.repo.GetAccountByEmail(ctx, normalized)
	if err != nil {
		metrics.PaymentReconciliations.WithLabelValues("unknown_account").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	if status == StatusPaid {
		if err := s.repo.ConfirmPayment(ctx, normalized, nextDueDate); err != nil {
			metrics.PaymentReconciliations.WithLabelValues("storage_error").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		metrics.PaymentReconciliations.WithLabelValues("paid").Inc()
		log.Info("payment confirmed for account",
			slog.String("email", normalized))
		s.publishPaymentConfirmed(account)
		return nil
	}

	if err := s.repo.CancelPayment(ctx, normalized); err != nil {
		metrics.PaymentReconciliations.WithLabelValues("storage_error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.PaymentReconciliations.WithLabelValues("cancelled").Inc()
	log.Info("payment cancelled for account",
		slog.String("email", normalized), slog.String("provider_status", status))
	return nil
}

// publishPaymentConfirmed ставит задание на уведомление об успешной оплате.
// Сбой публикации не влияет на результат сверки.
func (s *Service) publishPaymentConfirmed(account *models.Account) {
	if s.publisher == nil {
		return
	}
	job := models.NotificationJob{
		ID:         uuid.NewString(),
		Kind:       models.NotificationPaymentConfirmed,
		Email:      account.Email,
		Username:   account.Username,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(models.NotificationPaymentConfirmed, job); err != nil {
		s.log.Warn("failed to publish payment confirmation notification", sl.Err(err))
	}
}
