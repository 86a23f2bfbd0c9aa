package membersconsole

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/members-console/internal/apiclient"
	"github.com/magabrotheeeer/members-console/internal/audit"
	"github.com/magabrotheeeer/members-console/internal/cache"
	"github.com/magabrotheeeer/members-console/internal/config"
	"github.com/magabrotheeeer/members-console/internal/console"
	"github.com/magabrotheeeer/members-console/internal/lib/jwt"
	"github.com/magabrotheeeer/members-console/internal/lib/sl"
	"github.com/magabrotheeeer/members-console/internal/metrics"
	"github.com/magabrotheeeer/members-console/internal/services/membership"
)

// App HTTP-сервер консоли со всеми зависимостями.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	sessions *console.Registry
	cache    *cache.Cache
	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
}

// New собирает приложение. Redis и RabbitMQ необязательны: при пустом адресе
// или недоступности консоль работает без кеша и публикует аудит только в лог.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{logger: logger}

	var collectionsCache membership.Cache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", sl.Err(err))
		} else {
			a.cache = cacheRedis
			collectionsCache = cacheRedis
		}
	}

	var auditChannel audit.Channel
	if cfg.URL != "" {
		conn, err := audit.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			logger.Warn("rabbitmq unavailable, audit goes to log only", sl.Err(err))
		} else {
			ch, err := audit.SetupChannel(conn, cfg.Exchange)
			if err != nil {
				logger.Warn("failed to setup audit channel", sl.Err(err))
				conn.Close()
			} else {
				a.amqpConn = conn
				a.amqpCh = ch
				auditChannel = ch
			}
		}
	}

	m := metrics.New(nil)
	parser := jwt.NewParser(cfg.JWTSecretKey)
	api := apiclient.New(cfg.BaseURL, cfg.TimeoutAPI)
	trail := audit.NewTrail(logger, auditChannel, cfg.Exchange)
	service := membership.New(api, collectionsCache, trail, logger, cfg.CacheTTL)

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }
	a.sessions = console.NewRegistry(service, logger, m, now, cfg.IdleTTL)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, service, a.sessions, parser, m)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return a, nil
}

// Run запускает сервер и очистку сессий, блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	go a.sessions.Run(ctx)

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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.amqpCh != nil {
		a.amqpCh.Close()
	}
	if a.amqpConn != nil {
		a.amqpConn.Close()
	}
}
