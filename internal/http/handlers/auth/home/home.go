// Package home отдаёт точку входа консоли, на которую SessionGuard
// перенаправляет запросы без сессии.
package home

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/members-console/internal/http/response"
)

// Handler обрабатывает запросы к "/".
type Handler struct{}

// New создаёт обработчик.
func New() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "sign in to continue",
		"login":   "/login",
	}))
}
