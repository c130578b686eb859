// Package memory es el mock del backend hosteado para demo mode: la app queda
// usable sin credenciales reales. Estado volátil, vive lo que vive el proceso.
// No es un test double con hooks de aserción.
package memory

import (
	"sync"
	"time"

	"pet-services-marketplace/internal/adapters/sessioncache"
	"pet-services-marketplace/internal/ports/backend"
)

// Backend implementa backend.AuthClient y backend.TableClient en memoria.
// Estrategia elegida: always-mock (nunca intenta la llamada live primero).
type Backend struct {
	mu       sync.RWMutex
	byEmail  map[string]account
	byID     map[string]account
	sessions sessioncache.Cache
	now      func() time.Time
}

type account struct {
	ID           string
	Email        string
	PasswordHash []byte
	Metadata     map[string]string
	CreatedAt    time.Time
}

func New(sessions sessioncache.Cache) *Backend {
	if sessions == nil {
		sessions = sessioncache.NewMemory()
	}
	return &Backend{
		byEmail:  make(map[string]account),
		byID:     make(map[string]account),
		sessions: sessions,
		now:      time.Now,
	}
}

func (b *Backend) identity(a account) backend.Identity {
	meta := make(map[string]string, len(a.Metadata))
	for k, v := range a.Metadata {
		meta[k] = v
	}
	return backend.Identity{
		ID:        a.ID,
		Email:     a.Email,
		Metadata:  meta,
		CreatedAt: a.CreatedAt,
	}
}
