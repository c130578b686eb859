package token

import (
	"context"

	"pet-services-marketplace/internal/ports/auth"
	"pet-services-marketplace/internal/ports/backend"
)

// BackendVerifier resuelve el token preguntándole al backend quién es el
// usuario. Es el camino por defecto: funciona igual contra el backend
// hosteado y contra el mock en memoria.
type BackendVerifier struct {
	auth backend.AuthClient
}

func NewBackendVerifier(client backend.AuthClient) *BackendVerifier {
	return &BackendVerifier{auth: client}
}

func (v *BackendVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}
	identity, err := v.auth.GetUser(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}
	return auth.Claims{
		UserID: identity.ID,
		Email:  identity.Email,
	}, nil
}
