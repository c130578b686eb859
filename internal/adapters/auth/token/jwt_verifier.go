// Package token implementa los verificadores de tokens de sesión: local (JWT
// HS256 firmado por el backend hosteado) y remoto (round trip al endpoint de
// usuario del backend, que también cubre los tokens del mock).
package token

import (
	"context"
	"errors"
	"strings"

	"pet-services-marketplace/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token is invalid")
)

// JWTVerifier valida localmente los access tokens HS256 del backend hosteado.
// Evita un round trip por request cuando el secret está configurado.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenStr string) (auth.Claims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return auth.Claims{}, ErrTokenInvalid
	}
	email, _ := claims["email"].(string)

	return auth.Claims{
		UserID: sub,
		Email:  email,
	}, nil
}
