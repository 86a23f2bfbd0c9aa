package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSubject токен подписан верно, но не указывает пользователя.
var ErrNoSubject = errors.New("token has no user")

// CustomClaims описывает данные, хранящиеся в токене сессии.
type CustomClaims struct {
	UserID               string `json:"userId,omitempty"` // ID пользователя во внешнем API
	Email                string `json:"email,omitempty"`  // Email пользователя
	jwt.RegisteredClaims        // Стандартные claims (sub, exp, iat)
}

// User возвращает ID пользователя: claim userId, а при его отсутствии sub.
func (c *CustomClaims) User() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
