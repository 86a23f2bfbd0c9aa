// Package memberlist реализует HTTP-обработчик списка участников.
package memberlist

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

var statuses = []string{string(models.MemberActive), string(models.MemberInactive)}

// Sessions реестр сессий пользователей.
type Sessions interface {
	Get(userID string) *console.Session
}

// Item строка таблицы участников.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Handler обрабатывает запросы списка участников.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	loc      *time.Location
}

// New создаёт обработчик. Даты выводятся во временной зоне loc.
func New(log *slog.Logger, sessions Sessions, loc *time.Location) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		loc:      loc,
	}
}

func (h *Handler) item(m models.Member) Item {
	return Item{
		ID:        m.ID,
		Name:      m.Name,
		Email:     models.Value(m.Email),
		Phone:     format.Phone(models.Value(m.Phone)),
		Address:   models.Value(m.Address),
		Status:    string(m.Status),
		CreatedAt: format.Date(&m.CreatedAt, h.loc),
	}
}

// ServeHTTP godoc
// @Summary Список участников
// @Description Применяет фильтры и навигацию к представлению участников и возвращает видимую страницу.
// @Tags Members
// @Produce json
// @Param q query string false "Поиск по имени без учёта регистра и диакритики"
// @Param status query string false "ACTIVE, INACTIVE или ALL"
// @Param per_page query int false "Размер страницы: 5, 10, 20 или 50"
// @Param page query int false "Номер страницы"
// @Param nav query string false "next или prev"
// @Param refresh query bool false "Перезагрузить коллекцию из API"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 502 {object} response.Response "API недоступен, в data последняя загруженная страница"
// @Router /profile/members [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.list"

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

	params, err := listing.Parse(r.URL.Query(), statuses, false)
	if err != nil {
		log.Warn("invalid list parameters", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	view := h.sessions.Get(userID).Members
	if params.Refresh {
		err = view.Refresh(r.Context())
	} else {
		err = view.Mount(r.Context())
	}

	res := view.Change(params.Criteria(), params.Navigation())
	list := listing.NewList(res, false, view.LoadedAt(), h.item)

	if err != nil {
		code, msg := listing.ErrorStatus(err)
		log.Error("failed to load members", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.ErrorWithData(msg, list))
		return
	}

	log.Debug("members page computed",
		slog.Int("page", res.State.PageIndex),
		slog.Int("total", res.Page.TotalItems),
	)
	render.JSON(w, r, response.StatusOKWithData(list))
}
