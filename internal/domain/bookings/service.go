package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-services-marketplace/internal/domain/offers"
	"pet-services-marketplace/internal/domain/requests"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotCompleted      = errors.New("booking is not completed")
	ErrAlreadyRated      = errors.New("booking already rated")
)

// RequestTransitions propaga los cambios de estado al pedido original.
type RequestTransitions interface {
	MarkInProgress(ctx context.Context, id string) (requests.ServiceRequest, error)
	MarkCompleted(ctx context.Context, id string) (requests.ServiceRequest, error)
	MarkCancelled(ctx context.Context, id string) (requests.ServiceRequest, error)
}

type Service struct {
	repo Repository
	reqs RequestTransitions
	now  func() time.Time
}

func NewService(repo Repository, reqs RequestTransitions) *Service {
	return &Service{
		repo: repo,
		reqs: reqs,
		now:  time.Now,
	}
}

// CreateEngagement materializa el booking al aceptar una oferta.
// Implementa offers.EngagementCreator.
func (s *Service) CreateEngagement(ctx context.Context, in offers.EngagementInput) (string, error) {
	if in.RequestID == "" || in.OfferID == "" || in.OwnerUserID == "" || in.GiverUserID == "" {
		return "", ErrInvalidInput
	}

	now := s.now()
	b := Booking{
		ID:              uuid.NewString(),
		RequestID:       in.RequestID,
		OfferID:         in.OfferID,
		OwnerUserID:     in.OwnerUserID,
		GiverUserID:     in.GiverUserID,
		PetID:           in.PetID,
		StartAt:         in.StartAt,
		DurationMinutes: in.DurationMinutes,
		Location:        in.Location,
		PriceCents:      in.PriceCents,
		Status:          StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return "", err
	}
	return b.ID, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Booking{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetForUser devuelve el booking solo si el actor participa de él.
func (s *Service) GetForUser(ctx context.Context, id, actorUserID string) (Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.OwnerUserID != actorUserID && b.GiverUserID != actorUserID {
		return Booking{}, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Start: solo el giver arranca el servicio. El pedido pasa a in_progress.
func (s *Service) Start(ctx context.Context, id, actorUserID string) (Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.GiverUserID != actorUserID {
		return Booking{}, ErrForbidden
	}
	if b.Status != StatusScheduled {
		return Booking{}, ErrInvalidTransition
	}

	b.Status = StatusInProgress
	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	if _, err := s.reqs.MarkInProgress(ctx, b.RequestID); err != nil {
		return Booking{}, err
	}
	return b, nil
}

type CompleteInput struct {
	PhotoURLs []string
}

// Complete: el giver cierra el servicio; el pedido queda completed.
func (s *Service) Complete(ctx context.Context, id, actorUserID string, in CompleteInput) (Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.GiverUserID != actorUserID {
		return Booking{}, ErrForbidden
	}
	if b.Status != StatusInProgress {
		return Booking{}, ErrInvalidTransition
	}

	now := s.now()
	b.Status = StatusCompleted
	b.EndAt = &now
	if len(in.PhotoURLs) > 0 {
		b.PhotoURLs = append(b.PhotoURLs, in.PhotoURLs...)
	}
	b.UpdatedAt = now
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	if _, err := s.reqs.MarkCompleted(ctx, b.RequestID); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// Cancel lo puede hacer cualquiera de las dos partes mientras no haya cerrado.
// El pedido original también queda cancelado.
func (s *Service) Cancel(ctx context.Context, id, actorUserID string) (Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.OwnerUserID != actorUserID && b.GiverUserID != actorUserID {
		return Booking{}, ErrForbidden
	}
	if b.Status != StatusScheduled && b.Status != StatusInProgress {
		return Booking{}, ErrInvalidTransition
	}

	b.Status = StatusCancelled
	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	if _, err := s.reqs.MarkCancelled(ctx, b.RequestID); err != nil {
		return Booking{}, err
	}
	return b, nil
}

type RateInput struct {
	Rating   int
	TipCents int
}

// Rate: el owner califica un servicio completado, una sola vez.
func (s *Service) Rate(ctx context.Context, id, actorUserID string, in RateInput) (Booking, error) {
	if in.Rating < 1 || in.Rating > 5 || in.TipCents < 0 {
		return Booking{}, ErrInvalidInput
	}

	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.OwnerUserID != actorUserID {
		return Booking{}, ErrForbidden
	}
	if b.Status != StatusCompleted {
		return Booking{}, ErrNotCompleted
	}
	if b.Rating != 0 {
		return Booking{}, ErrAlreadyRated
	}

	b.Rating = in.Rating
	b.TipCents = in.TipCents
	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}
