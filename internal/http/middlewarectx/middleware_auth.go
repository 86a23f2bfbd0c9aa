// Package middlewarectx содержит HTTP middleware консоли.
//
// SessionGuard проверяет токен сессии из cookie для маршрутов /profile/*.
// Если cookie нет или токен не проходит проверку подписи и срока действия,
// запрос перенаправляется на страницу входа "/". Иначе идентификатор
// пользователя кладётся в контекст запроса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/members-console/internal/lib/jwt"
	"github.com/magabrotheeeer/members-console/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// UserID ключ идентификатора пользователя в контексте.
const UserID Key = "user_id"

// LoginPath страница входа, куда guard перенаправляет запросы без сессии.
const LoginPath = "/"

// TokenParser проверяет токен сессии.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// RejectionCounter учитывает отклонённые запросы по причине.
type RejectionCounter interface {
	GuardRejected(reason string)
}

// SessionGuard возвращает middleware, которое пропускает запрос дальше только с валидным токеном
// в cookie cookieName. counter может быть nil.
func SessionGuard(parser TokenParser, cookieName string, counter RejectionCounter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionGuard"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			reject := func(reason string) {
				if counter != nil {
					counter.GuardRejected(reason)
				}
				http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				log.Debug("session cookie is missing", slog.String("path", r.URL.Path))
				reject("missing")
				return
			}

			claims, err := parser.ParseToken(cookie.Value)
			if err != nil {
				log.Warn("invalid session token", sl.Err(err))
				reject("invalid")
				return
			}

			ctx := context.WithValue(r.Context(), UserID, claims.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext возвращает идентификатор пользователя, положенный SessionGuard.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserID).(string)
	return userID, ok && userID != ""
}
