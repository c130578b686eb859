package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-services-marketplace/internal/ports/backend"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("profile not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	if strings.TrimSpace(id) == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// EnsureProfile materializa la fila de perfil para una identidad recién
// registrada. Idempotente: si la fila ya existe se devuelve tal cual.
// El cliente no depende de triggers del backend para esto.
func (s *Service) EnsureProfile(ctx context.Context, identity backend.Identity) (Profile, error) {
	if strings.TrimSpace(identity.ID) == "" {
		return Profile{}, ErrInvalidInput
	}

	if existing, err := s.repo.GetByID(ctx, identity.ID); err == nil {
		return existing, nil
	}

	role := Role(identity.Metadata["role"])
	if !ValidRole(role) {
		role = RoleOwner
	}

	now := s.now()
	p := Profile{
		ID:        identity.ID,
		Email:     identity.Email,
		FullName:  strings.TrimSpace(identity.Metadata["full_name"]),
		Phone:     strings.TrimSpace(identity.Metadata["phone"]),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdateProfile aplica un PATCH sobre la fila del usuario actual.
// Si el repo falla, no hay estado local que limpiar: el caller decide.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateInput) (Profile, error) {
	if strings.TrimSpace(id) == "" {
		return Profile{}, ErrInvalidInput
	}
	if in.Empty() {
		return Profile{}, ErrInvalidInput
	}
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) SetVerified(ctx context.Context, id string, verified bool) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.repo.SetVerified(ctx, id, verified)
}

// RoleOf expone el rol de un usuario sin exportar el repo.
// Lo usan otros módulos para validar ownership (p.ej. pets).
func (s *Service) RoleOf(ctx context.Context, userID string) (Role, error) {
	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}
