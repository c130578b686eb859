package requests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("request not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// PetOwnership valida que la mascota del pedido pertenezca al owner.
// Lo implementa pets.Service.
type PetOwnership interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

type Service struct {
	repo Repository
	pets PetOwnership
	now  func() time.Time
}

func NewService(repo Repository, pets PetOwnership) *Service {
	return &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
	}
}

type CreateInput struct {
	Type            ServiceType
	StartAt         time.Time
	DurationMinutes int
	Location        string
	Notes           string
}

func (s *Service) Create(ctx context.Context, petID, ownerUserID string, in CreateInput) (ServiceRequest, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return ServiceRequest{}, ErrInvalidInput
	}
	if !ValidServiceType(in.Type) {
		return ServiceRequest{}, ErrInvalidInput
	}
	if in.StartAt.IsZero() || in.DurationMinutes <= 0 {
		return ServiceRequest{}, ErrInvalidInput
	}

	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if owner != ownerUserID {
		return ServiceRequest{}, ErrForbidden
	}

	now := s.now()
	r := ServiceRequest{
		ID:              uuid.NewString(),
		PetID:           petID,
		OwnerUserID:     ownerUserID,
		Type:            in.Type,
		StartAt:         in.StartAt,
		DurationMinutes: in.DurationMinutes,
		Location:        strings.TrimSpace(in.Location),
		Notes:           strings.TrimSpace(in.Notes),
		Status:          StatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return ServiceRequest{}, err
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (ServiceRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ServiceRequest{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListOpen es el browse de los prestadores: solo pedidos abiertos.
func (s *Service) ListOpen(ctx context.Context, f ListFilter) ([]ServiceRequest, error) {
	if f.Type != "" && !ValidServiceType(f.Type) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListOpen(ctx, f)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]ServiceRequest, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Cancel lo puede hacer solo el owner, y solo antes de que el servicio arranque.
func (s *Service) Cancel(ctx context.Context, id, actorUserID string) (ServiceRequest, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return ServiceRequest{}, err
	}
	if r.OwnerUserID != actorUserID {
		return ServiceRequest{}, ErrForbidden
	}
	if r.Status != StatusOpen && r.Status != StatusMatched {
		return ServiceRequest{}, ErrInvalidTransition
	}
	return s.transition(ctx, r, StatusCancelled)
}

// Las transiciones de match/inicio/cierre las disparan offers y bookings.

func (s *Service) MarkMatched(ctx context.Context, id string) (ServiceRequest, error) {
	return s.transitionFrom(ctx, id, StatusOpen, StatusMatched)
}

func (s *Service) MarkInProgress(ctx context.Context, id string) (ServiceRequest, error) {
	return s.transitionFrom(ctx, id, StatusMatched, StatusInProgress)
}

func (s *Service) MarkCompleted(ctx context.Context, id string) (ServiceRequest, error) {
	return s.transitionFrom(ctx, id, StatusInProgress, StatusCompleted)
}

// MarkCancelled fuerza la cancelación cuando se cae el engagement.
func (s *Service) MarkCancelled(ctx context.Context, id string) (ServiceRequest, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return ServiceRequest{}, err
	}
	if r.Status == StatusCompleted || r.Status == StatusCancelled {
		return ServiceRequest{}, ErrInvalidTransition
	}
	return s.transition(ctx, r, StatusCancelled)
}

func (s *Service) transitionFrom(ctx context.Context, id string, from, to Status) (ServiceRequest, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return ServiceRequest{}, err
	}
	if r.Status != from {
		return ServiceRequest{}, ErrInvalidTransition
	}
	return s.transition(ctx, r, to)
}

func (s *Service) transition(ctx context.Context, r ServiceRequest, to Status) (ServiceRequest, error) {
	r.Status = to
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return ServiceRequest{}, err
	}
	return r, nil
}
