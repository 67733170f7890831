// Package scheduler содержит бизнес-логику планировщика уведомлений
// об окончании пробного периода.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/petminder/petcare-backend/internal/lib/sl"
	"github.com/petminder/petcare-backend/internal/lib/trial"
	"github.com/petminder/petcare-backend/internal/models"
)

// AccountRepository определяет выборку аккаунтов для планировщика.
type AccountRepository interface {
	// FindTrialExpiringWithin возвращает неоплачиваемые аккаунты,
	// у которых пробный период заканчивается в ближайшие days дней.
	FindTrialExpiringWithin(ctx context.Context, days int) ([]*models.Account, error)
}

// Publisher публикует задания на уведомления в очередь.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// SchedulerService находит аккаунты с заканчивающимся пробным периодом
// и публикует задания на уведомления.
type SchedulerService struct {
	repo      AccountRepository
	publisher Publisher
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo AccountRepository, publisher Publisher, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// NotifyExpiringTrials запускает периодическую проверку заканчивающихся
// пробных периодов. Первый проход выполняется сразу, далее раз в сутки.
func (s *SchedulerService) NotifyExpiringTrials(ctx context.Context) {
	s.runNotifyExpiringTrials(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runNotifyExpiringTrials(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runNotifyExpiringTrials(ctx context.Context) {
	s.log.Info("starting scan for accounts with expiring trial period")
	accounts, err := s.repo.FindTrialExpiringWithin(ctx, 1)
	if err != nil {
		s.log.Error("failed to find accounts", sl.Err(err))
		return
	}
	if len(accounts) == 0 {
		s.log.Info("no expiring trial periods found")
		return
	}
	s.log.Info("found accounts with expiring trial period", "count", len(accounts))
	now := time.Now().UTC()
	for _, account := range accounts {
		job := models.NotificationJob{
			ID:            uuid.NewString(),
			Kind:          models.NotificationTrialExpiring,
			Email:         account.Email,
			Username:      account.Username,
			TrialDaysLeft: trial.DaysLeft(account.TrialStartDate, now),
			OccurredAt:    now,
		}
		if err = s.publisher.Publish(models.NotificationTrialExpiring, job); err != nil {
			s.log.Error("failed to publish notification job", sl.Err(err))
		}
	}
}
