// Package health отдаёт состояние процесса консоли.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/members-console/internal/http/response"
)

// Sessions реестр активных сессий.
type Sessions interface {
	Len() int
}

// Handler обрабатывает проверку живости.
type Handler struct {
	sessions Sessions
}

// New создаёт обработчик проверки живости.
func New(sessions Sessions) *Handler {
	return &Handler{
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	}))
}
