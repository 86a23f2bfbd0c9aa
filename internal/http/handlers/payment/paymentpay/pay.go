// Package paymentpay реализует HTTP-обработчик отметки платежа оплаченным.
package paymentpay

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/members-console/internal/console"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/listing"
	"github.com/magabrotheeeer/members-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/members-console/internal/http/response"
	"github.com/magabrotheeeer/members-console/internal/lib/sl"
)

// Service отмечает платёж оплаченным во внешнем API.
type Service interface {
	PayPayment(ctx context.Context, userID, paymentID string) error
}

// Sessions реестр сессий пользователей.
type Sessions interface {
	Get(userID string) *console.Session
}

// Handler обрабатывает запросы оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Отметить платёж оплаченным
// @Tags Payments
// @Produce json
// @Param id path string true "ID платежа"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /profile/payments/{id}/pay [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.pay"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id is missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		log.Error("payment id is empty")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.PayPayment(r.Context(), userID, paymentID); err != nil {
		code, msg := listing.ErrorStatus(err)
		log.Error("failed to mark payment as paid", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	if err := h.sessions.Get(userID).RefreshPayments(r.Context()); err != nil {
		log.Warn("payment updated but view refresh failed", sl.Err(err))
	}

	log.Info("payment marked as paid", slog.String("payment_id", paymentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"paid_id": paymentID,
	}))
}
