// Package me реализует HTTP-обработчик профиля текущего аккаунта.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/petminder/petcare-backend/internal/http/middlewarectx"
	"github.com/petminder/petcare-backend/internal/http/response"
	"github.com/petminder/petcare-backend/internal/models"
)

// Service описывает интерфейс чтения аккаунта.
type Service interface {
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
}

// Handler обрабатывает запросы профиля текущего аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль текущего аккаунта
// @Description Возвращает данные аккаунта, которому принадлежит токен.
// @Tags Account
// @Produce  json
// @Success 200 {object} response.Response "Данные аккаунта"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации аккаунта"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /account/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("account identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("account identification missing"))
		return
	}

	account, err := h.service.GetAccountByUsername(r.Context(), username)
	if err != nil {
		log.Error("failed to load account", slog.String("username", username))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load account"))
		return
	}

	log.Info("account profile loaded", slog.String("username", username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":                 account.UID,
		"username":            account.Username,
		"email":               account.Email,
		"role":                account.Role,
		"subscription_status": account.SubscriptionStatus,
		"trial_start_date":    account.TrialStartDate.Format("2006-01-02"),
	}))
}
