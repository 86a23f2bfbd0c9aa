// Package paymentlist реализует HTTP-обработчик списка платежей.
//
// Помимо поиска и статуса список фильтруется по периоду; пока активен поиск,
// фильтр периода не применяется и period_visible в ответе равно false.
package paymentlist

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/members-console/internal/console"
	"github.com/magabrotheeeer/members-console/internal/http/handlers/listing"
	"github.com/magabrotheeeer/members-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/members-console/internal/http/response"
	"github.com/magabrotheeeer/members-console/internal/lib/format"
	"github.com/magabrotheeeer/members-console/internal/lib/sl"
	"github.com/magabrotheeeer/members-console/internal/models"
)

var statuses = []string{string(models.PaymentPaid), string(models.PaymentPending)}

// Sessions реестр сессий пользователей.
type Sessions interface {
	Get(userID string) *console.Session
}

// Item строка таблицы платежей.
type Item struct {
	ID            string  `json:"id"`
	MemberID      string  `json:"member_id"`
	MemberName    string  `json:"member_name"`
	Month         int     `json:"month"`
	MonthName     string  `json:"month_name"`
	Year          int     `json:"year"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Status        string  `json:"status"`
	PaidAt        string  `json:"paid_at"`
	Method        string  `json:"method"`
	Observation   string  `json:"observation"`
}

// Handler обрабатывает запросы списка платежей.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	loc      *time.Location
}

// New создаёт обработчик. Даты оплаты выводятся во временной зоне loc.
func New(log *slog.Logger, sessions Sessions, loc *time.Location) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		loc:      loc,
	}
}

func (h *Handler) item(p models.Payment) Item {
	return Item{
		ID:            p.ID,
		MemberID:      p.MemberID,
		MemberName:    p.MemberName(),
		Month:         p.Month,
		MonthName:     format.MonthName(p.Month),
		Year:          p.Year,
		Amount:        p.Amount,
		AmountDisplay: format.Currency(p.Amount),
		Status:        string(p.Status),
		PaidAt:        format.Date(p.PaidAt, h.loc),
		Method:        models.Value(p.Method),
		Observation:   models.Value(p.Observation),
	}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Применяет фильтры, период и навигацию к представлению платежей и возвращает видимую страницу.
// @Tags Payments
// @Produce json
// @Param q query string false "Поиск по имени участника"
// @Param status query string false "PAID, PENDING или ALL"
// @Param period query string false "all, current_month, last_month, last_3_months, last_year, specific, range"
// @Param month query int false "Месяц для specific"
// @Param year query int false "Год для specific"
// @Param from query string false "Начало диапазона YYYY-MM для range"
// @Param to query string false "Конец диапазона YYYY-MM для range"
// @Param per_page query int false "Размер страницы: 5, 10, 20 или 50"
// @Param page query int false "Номер страницы"
// @Param nav query string false "next или prev"
// @Param refresh query bool false "Перезагрузить коллекцию из API"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 502 {object} response.Response "API недоступен, в data последняя загруженная страница"
// @Router /profile/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

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

	params, err := listing.Parse(r.URL.Query(), statuses, true)
	if err != nil {
		log.Warn("invalid list parameters", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	view := h.sessions.Get(userID).Payments
	if params.Refresh {
		err = view.Refresh(r.Context())
	} else {
		err = view.Mount(r.Context())
	}

	res := view.Change(params.Criteria(), params.Navigation())
	list := listing.NewList(res, true, view.LoadedAt(), h.item)

	if err != nil {
		code, msg := listing.ErrorStatus(err)
		log.Error("failed to load payments", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.ErrorWithData(msg, list))
		return
	}

	log.Debug("payments page computed",
		slog.Int("page", res.State.PageIndex),
		slog.Int("total", res.Page.TotalItems),
		slog.Bool("period_applied", res.PeriodApplied),
	)
	render.JSON(w, r, response.StatusOKWithData(list))
}
