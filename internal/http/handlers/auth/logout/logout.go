// Package logout реализует HTTP-обработчик выхода: cookie сессии удаляется,
// представления пользователя закрываются.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/members-console/internal/http/response"
	"github.com/magabrotheeeer/members-console/internal/lib/jwt"
)

// TokenParser проверяет токен сессии.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// Sessions реестр сессий пользователей.
type Sessions interface {
	Drop(userID string)
}

// Handler обрабатывает запросы выхода.
type Handler struct {
	log        *slog.Logger
	parser     TokenParser
	sessions   Sessions
	cookieName string
}

// New создаёт обработчик.
func New(log *slog.Logger, parser TokenParser, sessions Sessions, cookieName string) *Handler {
	return &Handler{
		log:        log,
		parser:     parser,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// ServeHTTP godoc
// @Summary Выход из консоли
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if claims, err := h.parser.ParseToken(cookie.Value); err == nil {
			h.sessions.Drop(claims.User())
			log.Info("session closed", slog.String("user_id", claims.User()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	render.JSON(w, r, response.OK())
}
