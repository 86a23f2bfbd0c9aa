// Package membersconsole собирает HTTP-приложение консоли: маршруты, зависимости и жизненный цикл сервера.
package membersconsole

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/members-console/internal/config"
	"github.com/magabrotheeeer/members-console/internal/console"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/auth/home"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/health"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/member/memberlist"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/member/memberremove"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/member/membersave"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/payment/invoicegenerate"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/payment/paymentpay"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/payment/paymentremove"
	"github.com/magabrotheeeer/members-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/members-console/internal/metrics"
)

// Service операции над записями, которые нужны обработчикам.
type Service interface {
	login.Service
	membersave.Service
	memberremove.Service
	paymentpay.Service
	paymentremove.Service
	invoicegenerate.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, service Service, sessions *console.Registry, parser middlewarectx.TokenParser, m *metrics.Metrics) {
	loc := cfg.Location()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Get(middlewarectx.LoginPath, home.New().ServeHTTP)
	r.Post("/login", login.New(logger, service, parser, login.CookieConfig{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
	}).ServeHTTP)
	r.Post("/logout", logout.New(logger, parser, sessions, cfg.CookieName).ServeHTTP)

	r.Route("/profile", func(r chi.Router) {
		r.Use(middlewarectx.SessionGuard(parser, cfg.CookieName, m, logger))

		r.Get("/members", memberlist.New(logger, sessions, loc).ServeHTTP)
		r.Get("/payments", paymentlist.New(logger, sessions, loc).ServeHTTP)

		// Изменения данных с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.MutationRPS, cfg.MutationBurst))
			r.Post("/members", membersave.New(logger, service, sessions).ServeHTTP)
			r.Put("/members/{id}", membersave.New(logger, service, sessions).ServeHTTP)
			r.Delete("/members/{id}", memberremove.New(logger, service, sessions).ServeHTTP)
			r.Post("/payments/invoices", invoicegenerate.New(logger, service, sessions).ServeHTTP)
			r.Post("/payments/{id}/pay", paymentpay.New(logger, service, sessions).ServeHTTP)
			r.Delete("/payments/{id}", paymentremove.New(logger, service, sessions).ServeHTTP)
		})
	})

	r.Get("/health", health.New(sessions).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
