// Package reconcile реализует HTTP-обработчик webhook-а платёжного провайдера.
//
// Провайдер присылает снапшот состояния платежа; обработчик валидирует
// payload и делегирует применение снапшота сервису сверки. Повторная
// доставка того же снапшота безопасна: сверка идемпотентна.
package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/petminder/petcare-backend/internal/http/response"
	"github.com/petminder/petcare-backend/internal/lib/sl"
	"github.com/petminder/petcare-backend/internal/storage"
)

// Payload — снапшот состояния платежа из webhook-а провайдера.
//
// Email — ключ для поиска аккаунта, NextDueDate — дата следующего списания
// в формате 2006-01-02 (опционально).
type Payload struct {
	Email       string `json:"email" validate:"required"`
	Status      string `json:"status" validate:"required"`
	NextDueDate string `json:"next_due_date" validate:"omitempty"`
}

// Service описывает интерфейс сервиса сверки платежей.
type Service interface {
	Reconcile(ctx context.Context, email, status string, nextDueDate *time.Time) error
}

// Handler обрабатывает webhook-запросы платёжного провайдера.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Webhook платёжного провайдера
// @Description Применяет снапшот состояния платежа к аккаунту. Идемпотентен для повторных доставок.
// @Tags Payment
// @Accept  json
// @Produce  json
// @Param request body Payload true "Снапшот состояния платежа"
// @Success 200 {object} response.Response "Снапшот применен"
// @Failure 400 {object} response.ErrorResponse "Некорректный payload"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сохранения"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.reconcile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Error("failed to decode webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("webhook payload decoded", slog.String("status", payload.Status))

	if err := h.validate.Struct(payload); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var nextDueDate *time.Time
	if payload.NextDueDate != "" {
		parsed, err := time.Parse("2006-01-02", payload.NextDueDate)
		if err != nil {
			log.Error("failed to parse next due date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid next_due_date"))
			return
		}
		nextDueDate = &parsed
	}

	if err := h.service.Reconcile(r.Context(), payload.Email, payload.Status, nextDueDate); err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			log.Error("webhook for unknown account", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to reconcile payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reconcile payment"))
		return
	}

	log.Info("webhook processed successfully", slog.String("status", payload.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "payment state applied",
	}))
}
