// Package session es la única fuente de verdad de "quién está logueado" para
// todo el proceso. Regla de single-writer: solo las operaciones del propio
// Store mutan su estado; los consumidores leen snapshots y se suscriben a los
// cambios de auth.
package session

import (
	"context"
	"strings"
	"sync"

	"pet-services-marketplace/internal/domain/users"
	"pet-services-marketplace/internal/ports/backend"
)

type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event es la notificación de cambio de auth que reciben los suscriptores.
type Event struct {
	Type     EventType
	Identity *backend.Identity // nil en signed_out
}

// Snapshot es el estado observable del store en un instante.
type Snapshot struct {
	Identity *backend.Identity
	Profile  *users.Profile
	Token    string
	Loading  bool
}

type Store struct {
	auth     backend.AuthClient
	profiles *users.Service

	mu        sync.RWMutex
	identity  *backend.Identity
	profile   *users.Profile
	token     string
	loading   bool
	listeners map[int]func(Event)
	nextID    int
}

func NewStore(auth backend.AuthClient, profiles *users.Service) *Store {
	return &Store{
		auth:      auth,
		profiles:  profiles,
		loading:   true, // hasta que Initialize resuelva
		listeners: make(map[int]func(Event)),
	}
}

// Initialize corre una vez al arrancar: consulta si hay una sesión previa
// (token cacheado) y puebla identidad + perfil. loading pasa a false al
// terminar, haya o no sesión, haya o no error.
func (s *Store) Initialize(ctx context.Context, cachedToken string) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	cachedToken = strings.TrimSpace(cachedToken)
	if cachedToken == "" {
		return
	}

	identity, err := s.auth.GetUser(ctx, cachedToken)
	if err != nil {
		return
	}

	var profile *users.Profile
	if p, err := s.profiles.GetByID(ctx, identity.ID); err == nil {
		profile = &p
	}

	s.mu.Lock()
	s.identity = &identity
	s.token = cachedToken
	s.profile = profile
	s.mu.Unlock()
	// sin notificación: Initialize restaura, no transiciona
}

// Current devuelve un snapshot consistente del estado.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Token:   s.token,
		Loading: s.loading,
	}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

// Subscribe registra un listener de cambios de auth y devuelve la función
// para darlo de baja. Sin baja explícita, la suscripción queda viva.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignIn delega en el backend. El estado local no se toca acá: se actualiza
// en el camino de auth-change que dispara el sign-in exitoso.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.applySignedIn(ctx, sess)
	return nil
}

// SignUp registra la identidad con metadata de perfil y materializa la fila
// de perfil de forma explícita e idempotente antes de levantar la sesión.
func (s *Store) SignUp(ctx context.Context, email, password, fullName string, role users.Role) error {
	if !users.ValidRole(role) {
		role = users.RoleOwner
	}

	sess, err := s.auth.SignUp(ctx, email, password, map[string]string{
		"full_name": strings.TrimSpace(fullName),
		"role":      string(role),
	})
	if err != nil {
		return err
	}

	if _, err := s.profiles.EnsureProfile(ctx, sess.User); err != nil {
		// la identidad ya existe en el backend; el perfil se reintenta
		// en el próximo sign-in vía EnsureProfile
		return err
	}

	if sess.AccessToken == "" {
		// backend con confirmación de email pendiente: sin sesión todavía
		return nil
	}
	s.applySignedIn(ctx, sess)
	return nil
}

// SignOut delega en el backend y limpia el estado local vía auth-change.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if err := s.auth.SignOut(ctx, token); err != nil {
		return err
	}
	s.applySignedOut()
	return nil
}

// UpdateProfile aplica un PATCH al perfil del usuario actual. Si el backend
// falla, el perfil local queda exactamente como estaba y el error vuelve al
// caller.
func (s *Store) UpdateProfile(ctx context.Context, in users.UpdateInput) (users.Profile, error) {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()

	if identity == nil {
		return users.Profile{}, users.ErrNotFound
	}

	updated, err := s.profiles.UpdateProfile(ctx, identity.ID, in)
	if err != nil {
		return users.Profile{}, err
	}

	s.mu.Lock()
	s.profile = &updated
	s.mu.Unlock()
	return updated, nil
}

// --- camino interno de auth-change ---

func (s *Store) applySignedIn(ctx context.Context, sess backend.Session) {
	var profile *users.Profile
	if p, err := s.profiles.EnsureProfile(ctx, sess.User); err == nil {
		profile = &p
	}

	identity := sess.User

	s.mu.Lock()
	s.identity = &identity
	s.token = sess.AccessToken
	s.profile = profile
	fns := s.snapshotListeners()
	s.mu.Unlock()

	ev := Event{Type: EventSignedIn, Identity: &identity}
	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) applySignedOut() {
	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.profile = nil
	fns := s.snapshotListeners()
	s.mu.Unlock()

	ev := Event{Type: EventSignedOut}
	for _, fn := range fns {
		fn(ev)
	}
}

// snapshotListeners copia los listeners para notificar fuera del lock.
// Se llama con el lock tomado.
func (s *Store) snapshotListeners() []func(Event) {
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}
