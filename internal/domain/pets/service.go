package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-services-marketplace/internal/domain/users"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrForbidden    = errors.New("forbidden")
	ErrNotAnOwner   = errors.New("user is not a pet owner")
)

// RoleChecker resuelve el rol de un usuario. Lo implementa users.Service;
// la interfaz evita acoplar pets al paquete entero.
type RoleChecker interface {
	RoleOf(ctx context.Context, userID string) (users.Role, error)
}

type Service struct {
	repo  Repository
	roles RoleChecker
	now   func() time.Time
}

func NewService(repo Repository, roles RoleChecker) *Service {
	return &Service{
		repo:  repo,
		roles: roles,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name        string
	Species     Species
	Breed       string
	BirthDate   *time.Time
	Description string
	SafeZone    *SafeZone
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if !ValidSpecies(in.Species) {
		return Pet{}, ErrInvalidInput
	}

	// invariante: el owner reference debe ser un usuario con rol owner
	role, err := s.roles.RoleOf(ctx, ownerUserID)
	if err != nil {
		return Pet{}, err
	}
	if role != users.RoleOwner {
		return Pet{}, ErrNotAnOwner
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     in.Species,
		Breed:       strings.TrimSpace(in.Breed),
		BirthDate:   in.BirthDate,
		Description: strings.TrimSpace(in.Description),
		SafeZone:    in.SafeZone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string
	Breed       *string
	BirthDate   *time.Time
	ClearBirth  bool // true => birth_date pasa a null
	Description *string
	AvatarURL   *string
	SafeZone    *SafeZone
	ClearZone   bool
}

// Update aplica un PATCH. Solo el owner puede editar.
func (s *Service) Update(ctx context.Context, petID, actorUserID string, in UpdateInput) (Pet, error) {
	current, err := s.mustOwn(ctx, petID, actorUserID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.ClearBirth {
		current.BirthDate = nil
	} else if in.BirthDate != nil {
		current.BirthDate = in.BirthDate
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.AvatarURL != nil {
		current.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	if in.ClearZone {
		current.SafeZone = nil
	} else if in.SafeZone != nil {
		current.SafeZone = in.SafeZone
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return current, nil
}

// Delete borra la mascota (acción explícita del owner).
func (s *Service) Delete(ctx context.Context, petID, actorUserID string) error {
	if _, err := s.mustOwn(ctx, petID, actorUserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, petID)
}

// SetAvatar guarda la referencia del avatar subido al storage.
func (s *Service) SetAvatar(ctx context.Context, petID, actorUserID, avatarURL string) (Pet, error) {
	url := strings.TrimSpace(avatarURL)
	if url == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.Update(ctx, petID, actorUserID, UpdateInput{AvatarURL: &url})
}

// OwnerOf expone el owner de una mascota para otros módulos (requests).
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

func (s *Service) mustOwn(ctx context.Context, petID, actorUserID string) (Pet, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(actorUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != actorUserID {
		return Pet{}, ErrForbidden
	}
	return p, nil
}
