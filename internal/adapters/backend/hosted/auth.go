package hosted

import (
	"context"
	"net/http"
	"time"

	"pet-services-marketplace/internal/ports/backend"
)

type authUser struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	UserMetadata map[string]string `json:"user_metadata"`
	CreatedAt    time.Time         `json:"created_at"`
}

type authSession struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        authUser `json:"user"`

	// signup sin autoconfirm devuelve el user al tope, sin token
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (backend.Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	var out authSession
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/signup", c.headers(""), body, &out)
	if err != nil {
		return backend.Session{}, asBackendError(err, backend.KindEmailTaken)
	}
	return toSession(out), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (backend.Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}

	var out authSession
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.headers(""), body, &out)
	if err != nil {
		return backend.Session{}, asBackendError(err, backend.KindInvalidCredentials)
	}
	return toSession(out), nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/logout", c.headers(accessToken), nil, nil)
	if err != nil {
		return asBackendError(err, backend.KindUnauthorized)
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (backend.Identity, error) {
	var out authUser
	err := c.http.DoJSON(ctx, http.MethodGet, "/auth/v1/user", c.headers(accessToken), nil, &out)
	if err != nil {
		return backend.Identity{}, asBackendError(err, backend.KindUnauthorized)
	}
	return toIdentity(out), nil
}

func toSession(s authSession) backend.Session {
	u := s.User
	if u.ID == "" && s.ID != "" {
		// forma "solo user": signup pendiente de confirmación
		u = authUser{ID: s.ID, Email: s.Email}
	}
	return backend.Session{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresIn:   s.ExpiresIn,
		User:        toIdentity(u),
	}
}

func toIdentity(u authUser) backend.Identity {
	meta := u.UserMetadata
	if meta == nil {
		meta = map[string]string{}
	}
	return backend.Identity{
		ID:        u.ID,
		Email:     u.Email,
		Metadata:  meta,
		CreatedAt: u.CreatedAt,
	}
}
