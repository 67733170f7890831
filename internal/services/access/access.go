// Package access содержит бизнес-логику резолвера уровня доступа.
//
// Резолвер вычисляет текущий уровень доступа аккаунта (free|active|expired)
// из сохранённого платёжного состояния и даты начала пробного периода.
// Вычисление только читает данные и идемпотентно; результат никогда
// не сохраняется.
package access

import (
	"context"
	"log/slog"
	"time"

	"github.com/petminder/petcare-backend/internal/lib/sl"
	"github.com/petminder/petcare-backend/internal/lib/trial"
	"github.com/petminder/petcare-backend/internal/metrics"
	"github.com/petminder/petcare-backend/internal/models"
)

// providerConfirmTTL время жизни кешированного подтверждения провайдера.
const providerConfirmTTL = 5 * time.Minute

// AccountRepository определяет чтение аккаунтов из хранилища.
type AccountRepository interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// PaymentProvider определяет необязательное вторичное подтверждение оплаты
// у внешнего платёжного провайдера.
type PaymentProvider interface {
	HasActiveSubscription(ctx context.Context, email string) (bool, error)
}

// Cache описывает методы для кэширования подтверждений провайдера.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service реализует резолвер уровня доступа.
type Service struct {
	repo           AccountRepository
	provider       PaymentProvider // nil, если подтверждение провайдера выключено
	cache          Cache           // nil, если кеш недоступен
	log            *slog.Logger
	confirmTimeout time.Duration
}

// New создает новый экземпляр Service.
func New(repo AccountRepository, provider PaymentProvider, cache Cache,
	log *slog.Logger, confirmTimeout time.Duration) *Service {
	if confirmTimeout <= 0 {
		confirmTimeout = 3 * time.Second
	}
	return &Service{
		repo:           repo,
		provider:       provider,
		cache:          cache,
		log:            log,
		confirmTimeout: confirmTimeout,
	}
}

// ResolveStatus вычисляет уровень доступа аккаунта по email.
//
// Метод никогда не возвращает ошибку наружу: при сбое чтения аккаунта
// возвращается безопасный деградированный payload (не premium, пробный
// период истек), чтобы клиент не зависал и не получал доступ молча.
// Поле ResolutionError позволяет мониторингу отличить такой резолв
// от честного free.
func (s *Service) ResolveStatus(ctx context.Context, email string) *models.AccessStatus {
	const op = "access.ResolveStatus"
	log := s.log.With(slog.String("op", op))

	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		log.Error("failed to load account for status resolution", sl.Err(err))
		metrics.AccessResolutions.WithLabelValues(models.AccessFree, "true").Inc()
		return &models.AccessStatus{
			IsPremium:       false,
			Status:          models.AccessFree,
			TrialDaysLeft:   0,
			TrialExpired:    true,
			ResolutionError: "failed to load account",
		}
	}

	now := time.Now().UTC()
	st := &models.AccessStatus{
		TrialDaysLeft: trial.DaysLeft(account.TrialStartDate, now),
		TrialExpired:  trial.Expired(account.TrialStartDate, now),
		IsPaying:      account.IsPaying,
		NextDueDate:   account.NextDueDate,
	}

	subscriptionExpired := account.NextDueDate != nil && now.After(*account.NextDueDate)

	hasPremium := account.IsPaying && !subscriptionExpired
	if !hasPremium {
		hasPremium = s.confirmWithProvider(ctx, account.Email)
	}

	// Оплаченный доступ всегда важнее истекшего пробного периода
	switch {
	case hasPremium:
		st.IsPremium = true
		st.Status = models.AccessActive
	case st.TrialExpired:
		st.Status = models.AccessExpired
	default:
		st.Status = models.AccessFree
	}

	metrics.AccessResolutions.WithLabelValues(st.Status, "false").Inc()
	return st
}

// confirmWithProvider запрашивает у платёжного провайдера активную подписку
// по email. Запрос ограничен таймаутом, любой сбой трактуется как отсутствие
// подписки и логируется, но не прерывает резолв. Успешный ответ кешируется
// на providerConfirmTTL.
func (s *Service) confirmWithProvider(ctx context.Context, email string) bool {
	if s.provider == nil {
		return false
	}
	const op = "access.confirmWithProvider"
	log := s.log.With(slog.String("op", op))

	cacheKey := "provider:active:" + email
	if s.cache != nil {
		var cached bool
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			log.Warn("failed to read provider confirmation from cache", sl.Err(err))
		} else if found {
			return cached
		}
	}

	confirmCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	active, err := s.provider.HasActiveSubscription(confirmCtx, email)
	if err != nil {
		log.Warn("payment provider confirmation failed", sl.Err(err))
		return false
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, active, providerConfirmTTL); err != nil {
			log.Warn("failed to cache provider confirmation", sl.Err(err))
		}
	}
	return active
}

// ShouldBlock решает, закрывать ли доступ к приложению по вычисленному
// уровню доступа. Чистая функция без побочных эффектов.
//
// Доступ закрывается только при подтвержденном expired без оплаты либо
// когда записанная оплата просрочена (льготный период по next_due_date
// прошел). Уровни active и free никогда не блокируются.
func ShouldBlock(status string, isPaying bool, nextDueDate *time.Time, now time.Time) bool {
	if status != models.AccessExpired {
		return false
	}
	if !isPaying {
		return true
	}
	if nextDueDate != nil && now.After(*nextDueDate) {
		return true
	}
	return false
}
