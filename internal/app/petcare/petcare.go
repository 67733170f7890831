// Package petcare собирает основное HTTP-приложение: хранилище, миграции,
// кеш, публикатор уведомлений, бизнес-сервисы и сервер.
package petcare

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/petminder/petcare-backend/internal/cache"
	"github.com/petminder/petcare-backend/internal/config"
	"github.com/petminder/petcare-backend/internal/lib/jwt"
	"github.com/petminder/petcare-backend/internal/lib/rabbitmq"
	"github.com/petminder/petcare-backend/internal/lib/sl"
	"github.com/petminder/petcare-backend/internal/migrations"
	"github.com/petminder/petcare-backend/internal/paymentprovider"
	accessservice "github.com/petminder/petcare-backend/internal/services/access"
	authservice "github.com/petminder/petcare-backend/internal/services/auth"
	reconcilerservice "github.com/petminder/petcare-backend/internal/services/reconciler"
	"github.com/petminder/petcare-backend/internal/storage"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает хранилище, применяет миграции,
// инициализирует кеш и публикатор уведомлений, собирает сервисы и роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	// Кеш опционален: без него резолвер просто не кеширует
	// подтверждения провайдера.
	var accessCache accessservice.Cache
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("cache unavailable, provider confirmations will not be cached", sl.Err(err))
	} else {
		accessCache = cacheRedis
	}

	// Публикатор уведомлений тоже опционален: сверка платежей обязана
	// работать и при недоступном брокере.
	var conn *amqp.Connection
	var ch *amqp.Channel
	var publisher reconcilerservice.NotificationPublisher
	conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, payment notifications disabled", sl.Err(err))
		conn = nil
	} else {
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			logger.Warn("failed to setup RabbitMQ channel, payment notifications disabled", sl.Err(err))
			_ = conn.Close()
			conn = nil
		} else {
			publisher = rabbitmq.NewNotificationPublisher(ch)
		}
	}

	var provider accessservice.PaymentProvider
	if cfg.PaymentProvider.APIURL != "" {
		provider = paymentprovider.NewClient(
			cfg.PaymentProvider.APIURL,
			cfg.PaymentProvider.APIKey,
			cfg.PaymentProvider.TimeoutConfirm,
		)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	accessService := accessservice.New(db, provider, accessCache, logger, cfg.PaymentProvider.TimeoutConfirm)
	reconcilerService := reconcilerservice.New(db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, accessService, reconcilerService, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.ch != nil {
			_ = a.ch.Close()
		}
		if a.conn != nil {
			_ = a.conn.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
