// Package memberremove реализует HTTP-обработчик удаления участника.
package memberremove

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

// Service удаляет участника во внешнем API.
type Service interface {
	RemoveMember(ctx context.Context, userID, memberID string) error
}

// Sessions реестр сессий пользователей.
type Sessions interface {
	Get(userID string) *console.Session
}

// Handler обрабатывает запросы удаления участника.
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
// @Summary Удаление участника
// @Tags Members
// @Produce json
// @Param id path string true "ID участника"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /profile/members/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.remove"

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
	if memberID == "" {
		log.Error("member id is empty")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.RemoveMember(r.Context(), userID, memberID); err != nil {
		code, msg := listing.ErrorStatus(err)
		log.Error("failed to delete member", sl.Err(err))
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	if err := h.sessions.Get(userID).RefreshMembers(r.Context()); err != nil {
		log.Warn("member deleted but view refresh failed", sl.Err(err))
	}

	log.Info("member deleted", slog.String("member_id", memberID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": memberID,
	}))
}
