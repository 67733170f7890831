package status

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/petminder/petcare-backend/internal/http/middlewarectx"
	"github.com/petminder/petcare-backend/internal/models"
)

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ResolveStatus(ctx context.Context, email string) *models.AccessStatus {
	args := m.Called(ctx, email)
	return args.Get(0).(*models.AccessStatus)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		email          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "активный пробный период",
			email: "owner@example.com",
			setupMock: func(m *MockService) {
				m.On("ResolveStatus", mock.Anything, "owner@example.com").Return(&models.AccessStatus{
					IsPremium:     false,
					Status:        models.AccessFree,
					TrialDaysLeft: 5,
					TrialExpired:  false,
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"trialDaysLeft":5`,
		},
		{
			name:  "оплаченный доступ",
			email: "owner@example.com",
			setupMock: func(m *MockService) {
				m.On("ResolveStatus", mock.Anything, "owner@example.com").Return(&models.AccessStatus{
					IsPremium:    true,
					Status:       models.AccessActive,
					TrialExpired: true,
					IsPaying:     true,
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"active"`,
		},
		{
			name:  "деградированный резолв все равно отвечает 200",
			email: "owner@example.com",
			setupMock: func(m *MockService) {
				m.On("ResolveStatus", mock.Anything, "owner@example.com").Return(&models.AccessStatus{
					IsPremium:       false,
					Status:          models.AccessFree,
					TrialDaysLeft:   0,
					TrialExpired:    true,
					ResolutionError: "failed to load account",
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"resolutionError":"failed to load account"`,
		},
		{
			name:           "без email в контексте",
			email:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"account identification missing"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/subscription/status", nil)
			if tt.email != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.Email, tt.email)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
