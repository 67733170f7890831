// Package petcare предоставляет маршруты для основного приложения.
package petcare

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/petminder/petcare-backend/internal/http/handlers/account/me"
	"github.com/petminder/petcare-backend/internal/http/handlers/auth/login"
	"github.com/petminder/petcare-backend/internal/http/handlers/auth/register"
	"github.com/petminder/petcare-backend/internal/http/handlers/payment/reconcile"
	"github.com/petminder/petcare-backend/internal/http/handlers/subscription/health"
	"github.com/petminder/petcare-backend/internal/http/handlers/subscription/status"
	"github.com/petminder/petcare-backend/internal/http/middlewarectx"
	accessservice "github.com/petminder/petcare-backend/internal/services/access"
	authservice "github.com/petminder/petcare-backend/internal/services/auth"
	reconcilerservice "github.com/petminder/petcare-backend/internal/services/reconciler"
	"github.com/petminder/petcare-backend/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	accessService *accessservice.Service,
	reconcilerService *reconcilerservice.Service,
	db *storage.Storage,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, func() error {
			return storage.CheckDatabaseReady(db)
		}).ServeHTTP)

		// Резолвер статуса доступен любому аутентифицированному аккаунту:
		// именно он говорит клиенту, что контур закрыт.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/subscription/status", status.New(logger, accessService).ServeHTTP)
		})

		// Платный контур закрывается после истечения пробного периода
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.AccessGateMiddleware(logger, accessService))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/account/me", me.New(logger, db).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", reconcile.New(logger, reconcilerService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
