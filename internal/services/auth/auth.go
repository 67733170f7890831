// Package auth содержит логику бизнес-уровня для работы с аккаунтами и аутентификацией.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petminder/petcare-backend/internal/lib/jwt"
	"github.com/petminder/petcare-backend/internal/lib/password"
	"github.com/petminder/petcare-backend/internal/models"
	"github.com/petminder/petcare-backend/internal/services/reconciler"
)

// AccountRepository описывает контракт для работы с аккаунтами в базе данных.
type AccountRepository interface {
	// CreateAccount сохраняет новый аккаунт и возвращает его UID.
	CreateAccount(ctx context.Context, account models.Account) (string, error)

	// GetAccountByUsername возвращает аккаунт по имени или ошибку, если не найден.
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	accounts AccountRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(accounts AccountRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		accounts: accounts,
		jwtMaker: jwtMaker,
	}
}

// Register создает новый аккаунт с хэшированием пароля и дефолтной ролью "user".
//
// Дата начала пробного периода фиксируется в момент регистрации и далее
// не меняется; платёжные поля получают дефолтные значения и мутируются
// только сервисом сверки платежей.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "auth.Register"
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	account := models.Account{
		Email:              reconciler.NormalizeEmail(email),
		Username:           username,
		PasswordHash:       hashed,
		Role:               "user",
		TrialStartDate:     time.Now().UTC(),
		IsPaying:           false,
		SubscriptionStatus: models.SubscriptionTrial,
	}
	return s.accounts.CreateAccount(ctx, account)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	token, err = s.jwtMaker.GenerateToken(account.Username, account.Role, account.UID, account.Email)
	if err != nil {
		return "", "", err
	}
	return token, account.Role, nil
}

// ValidateToken проверяет JWT и возвращает claims с данными аккаунта.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
