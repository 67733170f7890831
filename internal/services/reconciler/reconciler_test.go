package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/petminder/petcare-backend/internal/models"
	"github.com/petminder/petcare-backend/internal/storage"
)

// MockAccountRepository реализует интерфейс reconciler.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) ConfirmPayment(ctx context.Context, email string, nextDueDate *time.Time) error {
	args := m.Called(ctx, email, nextDueDate)
	return args.Error(0)
}

func (m *MockAccountRepository) CancelPayment(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockPublisher реализует интерфейс reconciler.NotificationPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "owner@example.com", NormalizeEmail("  Owner@Example.COM "))
	assert.Equal(t, "a@b.com", NormalizeEmail("a@b.com"))
}

func TestReconcile_Paid(t *testing.T) {
	account := &models.Account{Email: "owner@example.com", Username: "petowner"}
	nextDue := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := new(MockAccountRepository)
	repo.On("GetAccountByEmail", mock.Anything, "owner@example.com").Return(account, nil)
	repo.On("ConfirmPayment", mock.Anything, "owner@example.com", &nextDue).Return(nil)

	publisher := new(MockPublisher)
	publisher.On("Publish", models.NotificationPaymentConfirmed, mock.Anything).Return(nil)

	service := New(repo, publisher, testLogger())
	err := service.Reconcile(context.Background(), " Owner@Example.com ", StatusPaid, &nextDue)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestReconcile_Idempotent(t *testing.T) {
	account := &models.Account{Email: "owner@example.com", Username: "petowner"}
	nextDue := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := new(MockAccountRepository)
	repo.On("GetAccountByEmail", mock.Anything, "owner@example.com").Return(account, nil)
	repo.On("ConfirmPayment", mock.Anything, "owner@example.com", &nextDue).Return(nil)

	service := New(repo, nil, testLogger())

	// Повторное применение того же снапшота сводится к тому же UPDATE
	require.NoError(t, service.Reconcile(context.Background(), "owner@example.com", StatusPaid, &nextDue))
	require.NoError(t, service.Reconcile(context.Background(), "owner@example.com", StatusPaid, &nextDue))

	repo.AssertNumberOfCalls(t, "ConfirmPayment", 2)
}

func TestReconcile_Cancelled(t *testing.T) {
	account := &models.Account{Email: "owner@example.com", Username: "petowner"}

	repo := new(MockAccountRepository)
	repo.On("GetAccountByEmail", mock.Anything, "owner@example.com").Return(account, nil)
	repo.On("CancelPayment", mock.Anything, "owner@example.com").Return(nil)

	publisher := new(MockPublisher)

	service := New(repo, publisher, testLogger())
	err := service.Reconcile(context.Background(), "owner@example.com", "payment_failed", nil)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	// Отзыв оплаты уведомление не публикует
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestReconcile_UnknownAccount(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("GetAccountByEmail", mock.Anything, "ghost@example.com").
		Return(nil, storage.ErrAccountNotFound)

	service := New(repo, nil, testLogger())
	err := service.Reconcile(context.Background(), "ghost@example.com", StatusPaid, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrAccountNotFound))
	repo.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CancelPayment", mock.Anything, mock.Anything)
}

func TestReconcile_PublishFailureIsSoft(t *testing.T) {
	account := &models.Account{Email: "owner@example.com", Username: "petowner"}

	repo := new(MockAccountRepository)
	repo.On("GetAccountByEmail", mock.Anything, "owner@example.com").Return(account, nil)
	repo.On("ConfirmPayment", mock.Anything, "owner@example.com", (*time.Time)(nil)).Return(nil)

	publisher := new(MockPublisher)
	publisher.On("Publish", models.NotificationPaymentConfirmed, mock.Anything).
		Return(errors.New("broker down"))

	service := New(repo, publisher, testLogger())
	err := service.Reconcile(context.Background(), "owner@example.com", StatusPaid, nil)

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}
