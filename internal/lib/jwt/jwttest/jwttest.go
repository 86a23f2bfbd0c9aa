// Package jwttest выпускает токены сессии для тестов: в работе консоли
// токены выпускает только внешний API.
package jwttest

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/members-console/internal/lib/jwt"
)

// Sign подписывает HS256 токен пользователя userID, действующий ttl.
// Отрицательный ttl даёт уже истёкший токен.
func Sign(tb testing.TB, secret, userID, email string, ttl time.Duration) string {
	tb.Helper()

	now := time.Now()
	claims := jwt.CustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		tb.Fatalf("jwttest.Sign: %v", err)
	}
	return signed
}
