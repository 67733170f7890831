// Package health реализует HTTP-обработчик проверки живости сервиса
// и готовности базы данных.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/petminder/petcare-backend/internal/http/response"
	"github.com/petminder/petcare-backend/internal/lib/sl"
)

// ReadyChecker проверяет готовность хранилища.
type ReadyChecker func() error

type Handler struct {
	log        *slog.Logger
	checkReady ReadyChecker
}

func New(log *slog.Logger, checkReady ReadyChecker) *Handler {
	return &Handler{
		log:        log,
		checkReady: checkReady,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.health"

	if h.checkReady != nil {
		if err := h.checkReady(); err != nil {
			h.log.Error("storage is not ready", slog.String("op", op), sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("storage is not ready"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
