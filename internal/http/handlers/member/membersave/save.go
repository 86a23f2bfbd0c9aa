// Package membersave реализует HTTP-обработчик создания и изменения участника.
//
// Без параметра пути id участник создаётся, с ним изменяется. После успешного
// сохранения представление участников сессии перезагружается.
package membersave

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
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

// Service сохраняет участника во внешнем API.
type Service interface {
	SaveMember(ctx context.Context, userID, memberID string, in models.MemberInput) (*models.Member, error)
}

// Sessions реестр сессий пользователей.
type Sessions interface {
	Get(userID string) *console.Session
}

// Handler обрабатывает запросы сохранения участника.
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
// @Summary Создание или изменение участника
// @Tags Members
// @Accept json
// @Produce json
// @Param id path string false "ID участника для изменения"
// @Param request body models.MemberInput true "Данные участника"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /profile/members [post]
// @Router /profile/members/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.save"

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
	memberID := chi.URLParam(r, "id")

	var req models.MemberInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)

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

	member, err := h.service.SaveMember(r.Context(), userID, memberID, req)
	if err != nil {
		code, msg := listing.ErrorStatus(err)
		log.Error("failed to save member", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	if err := h.sessions.Get(userID).RefreshMembers(r.Context()); err != nil {
		log.Warn("member saved but view refresh failed", sl.Err(err))
	}

	log.Info("member saved", slog.String("member_id", member.ID))
	render.JSON(w, r, response.StatusOKWithData(member))
}
