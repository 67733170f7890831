package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petminder/petcare-backend/internal/models"
)

func TestStorage_CreateAndGetAccount(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	trialStart := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	account := models.Account{
		Email:              "owner@example.com",
		Username:           "petowner",
		PasswordHash:       "hashedpassword",
		Role:               "user",
		TrialStartDate:     trialStart,
		IsPaying:           false,
		SubscriptionStatus: models.SubscriptionTrial,
	}

	uid, err := storage.CreateAccount(context.Background(), account)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetAccountByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "petowner", got.Username)
	assert.False(t, got.IsPaying)
	assert.Nil(t, got.NextDueDate)
	assert.Equal(t, models.SubscriptionTrial, got.SubscriptionStatus)
	assert.WithinDuration(t, trialStart, got.TrialStartDate, time.Second)

	byName, err := storage.GetAccountByUsername(context.Background(), "petowner")
	require.NoError(t, err)
	assert.Equal(t, got.UID, byName.UID)
}

func TestStorage_GetAccount_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetAccountByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

func TestStorage_ConfirmPayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateAccount(t, "petowner", "owner@example.com", time.Now().AddDate(0, 0, -30))

	nextDue := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.ConfirmPayment(context.Background(), "owner@example.com", &nextDue))

	verification := NewTestVerification(storage)
	verification.VerifyPaymentState(t, "owner@example.com", true, models.SubscriptionActive)

	got, err := storage.GetAccountByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.NextDueDate)
	assert.Equal(t, nextDue.Format("2006-01-02"), got.NextDueDate.Format("2006-01-02"))

	// Повторное применение того же снапшота не меняет состояние
	require.NoError(t, storage.ConfirmPayment(context.Background(), "owner@example.com", &nextDue))
	verification.VerifyPaymentState(t, "owner@example.com", true, models.SubscriptionActive)

	// Без новой даты существующая next_due_date сохраняется
	require.NoError(t, storage.ConfirmPayment(context.Background(), "owner@example.com", nil))
	got, err = storage.GetAccountByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.NextDueDate)
	assert.Equal(t, nextDue.Format("2006-01-02"), got.NextDueDate.Format("2006-01-02"))
}

func TestStorage_ConfirmPayment_UnknownAccount(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	err := storage.ConfirmPayment(context.Background(), "nobody@example.com", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

func TestStorage_CancelPayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	nextDue := time.Now().AddDate(0, 1, 0)
	factory.CreatePayingAccount(t, "petowner", "owner@example.com", time.Now().AddDate(0, 0, -30), &nextDue)

	require.NoError(t, storage.CancelPayment(context.Background(), "owner@example.com"))

	verification := NewTestVerification(storage)
	verification.VerifyPaymentState(t, "owner@example.com", false, models.SubscriptionCancelled)

	// next_due_date сохраняется для льготного периода
	got, err := storage.GetAccountByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.NotNil(t, got.NextDueDate)
}

func TestStorage_FindTrialExpiringWithin(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	// Пробный период заканчивается сегодня: начался ровно 7 дней назад
	factory.CreateAccount(t, "expiring", "expiring@example.com", time.Now().AddDate(0, 0, -7))
	// Пробный период закончился месяц назад
	factory.CreateAccount(t, "longexpired", "longexpired@example.com", time.Now().AddDate(0, -1, -7))
	// Пробный период только начался
	factory.CreateAccount(t, "fresh", "fresh@example.com", time.Now())
	// Оплаченный аккаунт не попадает в выборку
	nextDue := time.Now().AddDate(0, 1, 0)
	factory.CreatePayingAccount(t, "paying", "paying@example.com", time.Now().AddDate(0, 0, -7), &nextDue)

	got, err := storage.FindTrialExpiringWithin(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "expiring@example.com", got[0].Email)
}
