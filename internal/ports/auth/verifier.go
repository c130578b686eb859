package auth

import "context"

// Claims es la información extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
}

// Verifier verifica un token y devuelve claims o error.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
