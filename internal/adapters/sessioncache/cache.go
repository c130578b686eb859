// Package sessioncache guarda el mapeo token de sesión -> user id para los
// bindings que emiten sus propios tokens (demo mode / auth local). El backend
// hosteado maneja sus sesiones solo; este cache no participa ahí.
package sessioncache

import (
	"context"
	"errors"
	"time"
)

const DefaultTTL = 7 * 24 * time.Hour

var ErrNotFound = errors.New("session not found")

type Cache interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
