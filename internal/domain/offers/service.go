package offers

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-services-marketplace/internal/domain/requests"
	"pet-services-marketplace/internal/domain/users"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("offer not found")
	ErrForbidden      = errors.New("forbidden")
	ErrRequestNotOpen = errors.New("request is not open")
	ErrNotAGiver      = errors.New("user is not a service giver")
	ErrOwnRequest     = errors.New("cannot offer on own request")
	ErrNotPending     = errors.New("offer is not pending")
)

// RequestGate es lo que offers necesita del módulo de pedidos.
type RequestGate interface {
	GetByID(ctx context.Context, id string) (requests.ServiceRequest, error)
	MarkMatched(ctx context.Context, id string) (requests.ServiceRequest, error)
}

// RoleChecker resuelve el rol del usuario que oferta.
type RoleChecker interface {
	RoleOf(ctx context.Context, userID string) (users.Role, error)
}

// EngagementInput lleva lo necesario para materializar el engagement al
// aceptar una oferta. Los campos son planos para no acoplar offers a bookings.
type EngagementInput struct {
	RequestID       string
	OfferID         string
	OwnerUserID     string
	GiverUserID     string
	PetID           string
	StartAt         time.Time
	DurationMinutes int
	Location        string
	PriceCents      int
}

// EngagementCreator lo implementa bookings.Service.
type EngagementCreator interface {
	CreateEngagement(ctx context.Context, in EngagementInput) (string, error)
}

type Service struct {
	repo     Repository
	reqs     RequestGate
	roles    RoleChecker
	bookings EngagementCreator
	now      func() time.Time
}

func NewService(repo Repository, reqs RequestGate, roles RoleChecker, bookings EngagementCreator) *Service {
	return &Service{
		repo:     repo,
		reqs:     reqs,
		roles:    roles,
		bookings: bookings,
		now:      time.Now,
	}
}

type CreateInput struct {
	Message    string
	PriceCents int
}

// Create registra la oferta de un giver contra un pedido abierto.
func (s *Service) Create(ctx context.Context, requestID, giverUserID string, in CreateInput) (ServiceOffer, error) {
	if strings.TrimSpace(requestID) == "" || strings.TrimSpace(giverUserID) == "" {
		return ServiceOffer{}, ErrInvalidInput
	}
	if in.PriceCents < 0 {
		return ServiceOffer{}, ErrInvalidInput
	}

	role, err := s.roles.RoleOf(ctx, giverUserID)
	if err != nil {
		return ServiceOffer{}, err
	}
	if role != users.RoleGiver {
		return ServiceOffer{}, ErrNotAGiver
	}

	req, err := s.reqs.GetByID(ctx, requestID)
	if err != nil {
		return ServiceOffer{}, err
	}
	if req.Status != requests.StatusOpen {
		return ServiceOffer{}, ErrRequestNotOpen
	}
	if req.OwnerUserID == giverUserID {
		return ServiceOffer{}, ErrOwnRequest
	}

	now := s.now()
	o := ServiceOffer{
		ID:          uuid.NewString(),
		RequestID:   requestID,
		GiverUserID: giverUserID,
		Message:     strings.TrimSpace(in.Message),
		PriceCents:  in.PriceCents,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return ServiceOffer{}, err
	}
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (ServiceOffer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ServiceOffer{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListByRequest lo usa el owner del pedido para revisar ofertas.
func (s *Service) ListByRequest(ctx context.Context, requestID, actorUserID string) ([]ServiceOffer, error) {
	req, err := s.reqs.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.OwnerUserID != actorUserID {
		return nil, ErrForbidden
	}
	return s.repo.ListByRequest(ctx, requestID)
}

func (s *Service) ListByGiver(ctx context.Context, giverUserID string) ([]ServiceOffer, error) {
	return s.repo.ListByGiver(ctx, giverUserID)
}

// Accept: el owner acepta una oferta pendiente sobre su pedido abierto.
// Efectos: la oferta queda accepted, las hermanas pendientes rejected,
// el pedido pasa a matched y se crea el engagement. Devuelve la oferta
// aceptada y el id del booking creado.
func (s *Service) Accept(ctx context.Context, offerID, actorUserID string) (ServiceOffer, string, error) {
	o, err := s.GetByID(ctx, offerID)
	if err != nil {
		return ServiceOffer{}, "", err
	}
	if o.Status != StatusPending {
		return ServiceOffer{}, "", ErrNotPending
	}

	req, err := s.reqs.GetByID(ctx, o.RequestID)
	if err != nil {
		return ServiceOffer{}, "", err
	}
	if req.OwnerUserID != actorUserID {
		return ServiceOffer{}, "", ErrForbidden
	}
	if req.Status != requests.StatusOpen {
		// un segundo accept sobre el mismo pedido cae acá
		return ServiceOffer{}, "", ErrRequestNotOpen
	}

	now := s.now()
	o.Status = StatusAccepted
	o.UpdatedAt = now
	if err := s.repo.Update(ctx, o); err != nil {
		return ServiceOffer{}, "", err
	}

	// hermanas pendientes quedan rechazadas
	siblings, err := s.repo.ListByRequest(ctx, o.RequestID)
	if err == nil {
		for _, sib := range siblings {
			if sib.ID == o.ID || sib.Status != StatusPending {
				continue
			}
			sib.Status = StatusRejected
			sib.UpdatedAt = now
			_ = s.repo.Update(ctx, sib)
		}
	}

	if _, err := s.reqs.MarkMatched(ctx, o.RequestID); err != nil {
		return ServiceOffer{}, "", err
	}

	bookingID, err := s.bookings.CreateEngagement(ctx, EngagementInput{
		RequestID:       req.ID,
		OfferID:         o.ID,
		OwnerUserID:     req.OwnerUserID,
		GiverUserID:     o.GiverUserID,
		PetID:           req.PetID,
		StartAt:         req.StartAt,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		PriceCents:      o.PriceCents,
	})
	if err != nil {
		return ServiceOffer{}, "", err
	}

	return o, bookingID, nil
}

// Reject: el owner descarta una oferta pendiente.
func (s *Service) Reject(ctx context.Context, offerID, actorUserID string) (ServiceOffer, error) {
	o, err := s.GetByID(ctx, offerID)
	if err != nil {
		return ServiceOffer{}, err
	}
	if o.Status != StatusPending {
		return ServiceOffer{}, ErrNotPending
	}

	req, err := s.reqs.GetByID(ctx, o.RequestID)
	if err != nil {
		return ServiceOffer{}, err
	}
	if req.OwnerUserID != actorUserID {
		return ServiceOffer{}, ErrForbidden
	}

	o.Status = StatusRejected
	o.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, o); err != nil {
		return ServiceOffer{}, err
	}
	return o, nil
}
