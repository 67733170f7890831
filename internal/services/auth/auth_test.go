package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/petminder/petcare-backend/internal/lib/jwt"
	"github.com/petminder/petcare-backend/internal/lib/password"
	"github.com/petminder/petcare-backend/internal/models"
	"github.com/petminder/petcare-backend/internal/services/auth"
)

// Мок для AccountRepository
type AccountRepoMock struct {
	mock.Mock
}

func (m *AccountRepoMock) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	args := m.Called(ctx, account)
	return args.String(0), args.Error(1)
}

func (m *AccountRepoMock) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, role, accountUID, email string) (string, error) {
	args := m.Called(username, role, accountUID, email)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		username   string
		password   string
		setupMocks func(r *AccountRepoMock)
		wantUID    string
		wantErr    bool
	}{
		{
			name:     "успешная регистрация с нормализацией email",
			email:    " Owner@Example.COM ",
			username: "petowner",
			password: "password123",
			setupMocks: func(r *AccountRepoMock) {
				r.On("CreateAccount", mock.Anything, mock.MatchedBy(func(account models.Account) bool {
					return account.Email == "owner@example.com" &&
						account.Username == "petowner" &&
						account.PasswordHash != "" &&
						account.Role == "user" &&
						!account.IsPaying &&
						account.SubscriptionStatus == models.SubscriptionTrial &&
						!account.TrialStartDate.IsZero()
				})).Return("some-uuid-string", nil).Once()
			},
			wantUID: "some-uuid-string",
			wantErr: false,
		},
		{
			name:     "ошибка репозитория",
			email:    "owner@example.com",
			username: "petowner",
			password: "password123",
			setupMocks: func(r *AccountRepoMock) {
				r.On("CreateAccount", mock.Anything, mock.Anything).
					Return("", errors.New("db error")).Once()
			},
			wantUID: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			tt.setupMocks(repo)
			svc := auth.NewAuthService(repo, new(JwtMakerMock))

			uid, err := svc.Register(context.Background(), tt.email, tt.username, tt.password)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantUID, uid)
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("password123")
	require.NoError(t, err)

	account := &models.Account{
		UID:          "uid-1",
		Email:        "owner@example.com",
		Username:     "petowner",
		PasswordHash: hash,
		Role:         "user",
	}

	t.Run("успешный вход", func(t *testing.T) {
		repo := new(AccountRepoMock)
		repo.On("GetAccountByUsername", mock.Anything, "petowner").Return(account, nil)

		jwtMock := new(JwtMakerMock)
		jwtMock.On("GenerateToken", "petowner", "user", "uid-1", "owner@example.com").
			Return("signed-token", nil)

		svc := auth.NewAuthService(repo, jwtMock)
		token, role, err := svc.Login(context.Background(), "petowner", "password123")

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
		assert.Equal(t, "user", role)
		jwtMock.AssertExpectations(t)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(AccountRepoMock)
		repo.On("GetAccountByUsername", mock.Anything, "petowner").Return(account, nil)

		svc := auth.NewAuthService(repo, new(JwtMakerMock))
		_, _, err := svc.Login(context.Background(), "petowner", "wrongpass")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		repo := new(AccountRepoMock)
		repo.On("GetAccountByUsername", mock.Anything, "ghost").
			Return(nil, errors.New("account not found"))

		svc := auth.NewAuthService(repo, new(JwtMakerMock))
		_, _, err := svc.Login(context.Background(), "ghost", "password123")
		require.Error(t, err)
	})
}
