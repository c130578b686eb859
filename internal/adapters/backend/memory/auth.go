package memory

import (
	"context"
	"net/http"
	"strings"

	"pet-services-marketplace/internal/adapters/sessioncache"
	"pet-services-marketplace/internal/ports/backend"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = sessioncache.DefaultTTL

func (b *Backend) SignUp(ctx context.Context, email, password string, metadata map[string]string) (backend.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return backend.Session{}, backend.Errf(backend.KindInvalidCredentials, http.StatusBadRequest,
			"mocked DB: email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return backend.Session{}, backend.Errf(backend.KindUpstream, 0, "mocked DB: hash password: %v", err)
	}

	b.mu.Lock()
	if _, exists := b.byEmail[email]; exists {
		b.mu.Unlock()
		return backend.Session{}, backend.Errf(backend.KindEmailTaken, http.StatusConflict,
			"mocked DB: user already registered")
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	a := account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Metadata:     meta,
		CreatedAt:    b.now(),
	}
	b.byEmail[email] = a
	b.byID[a.ID] = a
	b.mu.Unlock()

	return b.issueSession(ctx, a)
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (backend.Session, error) {
	email = normalizeEmail(email)

	b.mu.RLock()
	a, ok := b.byEmail[email]
	b.mu.RUnlock()

	if !ok {
		return backend.Session{}, invalidCredentials()
	}
	if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) != nil {
		return backend.Session{}, invalidCredentials()
	}

	return b.issueSession(ctx, a)
}

// SignOut revoca el token. A diferencia del shim original, el mock sí mantiene
// sesiones vivas, así que un token revocado deja de resolver en GetUser.
func (b *Backend) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	return b.sessions.Delete(ctx, accessToken)
}

func (b *Backend) GetUser(ctx context.Context, accessToken string) (backend.Identity, error) {
	userID, err := b.sessions.Get(ctx, accessToken)
	if err != nil {
		return backend.Identity{}, backend.Errf(backend.KindUnauthorized, http.StatusUnauthorized,
			"mocked DB: session not found")
	}

	b.mu.RLock()
	a, ok := b.byID[userID]
	b.mu.RUnlock()

	if !ok {
		return backend.Identity{}, backend.Errf(backend.KindUnauthorized, http.StatusUnauthorized,
			"mocked DB: user not found for session")
	}
	return b.identity(a), nil
}

func (b *Backend) issueSession(ctx context.Context, a account) (backend.Session, error) {
	token := uuid.NewString()
	if err := b.sessions.Put(ctx, token, a.ID, sessionTTL); err != nil {
		return backend.Session{}, backend.Errf(backend.KindUpstream, 0, "mocked DB: store session: %v", err)
	}
	return backend.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(sessionTTL.Seconds()),
		User:        b.identity(a),
	}, nil
}

func invalidCredentials() error {
	return backend.Errf(backend.KindInvalidCredentials, http.StatusBadRequest,
		"mocked DB: invalid credentials")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
