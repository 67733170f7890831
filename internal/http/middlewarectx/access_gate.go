package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/petminder/petcare-backend/internal/http/response"
	"github.com/petminder/petcare-backend/internal/models"
	"github.com/petminder/petcare-backend/internal/services/access"
)

// AccessResolver определяет интерфейс резолвера уровня доступа.
type AccessResolver interface {
	ResolveStatus(ctx context.Context, email string) *models.AccessStatus
}

// AccessGateMiddleware создает middleware, закрывающий платный контур приложения.
//
// Доступ закрывается с HTTP 403 только при подтвержденном истечении пробного
// периода без действующей оплаты. Неоднозначный резолв (деградированный
// payload со статусом free) контур не закрывает: ложная блокировка платящего
// пользователя дороже, чем лишний день доступа.
func AccessGateMiddleware(log *slog.Logger, resolver AccessResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := r.Context().Value(Email).(string)
			if !ok || email == "" {
				log.Error("account identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("account identification missing"))
				return
			}

			st := resolver.ResolveStatus(r.Context(), email)
			if access.ShouldBlock(st.Status, st.IsPaying, st.NextDueDate, time.Now().UTC()) {
				log.Info("access blocked, trial expired without payment",
					slog.String("email", email))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("trial expired, subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
