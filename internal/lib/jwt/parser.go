// Package jwt проверяет токены сессии консоли.
//
// Токен выпускает внешний API при входе; консоль только проверяет подпись
// HS256 общим секретом и извлекает из него идентификатор пользователя.
package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Parser проверяет токены, подписанные общим секретом.
type Parser struct {
	secretKey string
}

// NewParser создаёт Parser для секретного ключа secretKey.
func NewParser(secretKey string) *Parser {
	return &Parser{secretKey: secretKey}
}

// ParseToken проверяет подпись HS256 и срок действия токена
// и возвращает claims, если токен корректен и указывает пользователя.
func (p *Parser) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(p.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.User() == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSubject)
	}
	return claims, nil
}
