// Package status реализует HTTP-обработчик резолвера уровня доступа.
//
// Обработчик всегда отвечает HTTP 200: при внутреннем сбое клиент получает
// безопасный деградированный payload (не premium, пробный период истек)
// с заполненным полем resolutionError, а не пятисотку. Клиентский экран
// доступа не должен зависать из-за сбоя резолвера.
package status

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

// Service описывает интерфейс резолвера уровня доступа.
type Service interface {
	ResolveStatus(ctx context.Context, email string) *models.AccessStatus
}

// Handler обрабатывает запросы на вычисление уровня доступа аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Уровень доступа аккаунта
// @Description Вычисляет текущий уровень доступа (free|active|expired) из платёжного состояния и пробного периода. Всегда отвечает 200.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} response.Response "Вычисленный уровень доступа"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации аккаунта"
// @Security BearerAuth
// @Router /subscription/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("account identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("account identification missing"))
		return
	}

	st := h.service.ResolveStatus(r.Context(), email)

	log.Info("access status resolved",
		slog.String("email", email),
		slog.String("status", st.Status),
		slog.Bool("is_premium", st.IsPremium))
	// Payload отдается без конверта: его поля — внешний контракт клиента,
	// и верхнеуровневый status конверта конфликтовал бы с уровнем доступа.
	render.JSON(w, r, st)
}
