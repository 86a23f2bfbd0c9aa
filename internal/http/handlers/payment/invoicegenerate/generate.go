// Package invoicegenerate реализует HTTP-обработчик выставления счетов
// всем активным участникам за месяц.
package invoicegenerate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/members-console/internal/console"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/listing"
	"github.com/magabrotheeeer/members-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/members-console/internal/http/response"
	"github.com/magabrotheeeer/members-console/internal/lib/sl"
	"github.com/magabrotheeeer/members-console/internal/models"
)

// Service выставляет счета во внешнем API.
type Service interface {
	GenerateInvoices(ctx context.Context, userID string, in models.InvoiceInput) error
}

// Sessions реестр сессий пользователей.
type Sessions interface {
	Get(userID string) *console.Session
}

// Handler обрабатывает запросы выставления счетов.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	validate *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выставить счета
// @Description Создаёт платежи PENDING за месяц и год для всех активных участников.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.InvoiceInput true "Месяц, год и сумма"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /profile/payments/invoices [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.invoices"

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

	var req models.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Warn("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("failed to validate request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.GenerateInvoices(r.Context(), userID, req); err != nil {
		code, msg := listing.ErrorStatus(err)
		log.Error("failed to generate invoices", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	if err := h.sessions.Get(userID).RefreshPayments(r.Context()); err != nil {
		log.Warn("invoices generated but view refresh failed", sl.Err(err))
	}

	log.Info("invoices generated", slog.Int("month", req.Month), slog.Int("year", req.Year))
	render.JSON(w, r, response.StatusOKWithData(req))
}
