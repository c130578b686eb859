package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-services-marketplace/internal/domain/bookings"
)

type bookingRepo struct {
	mu   sync.RWMutex
	byID map[string]bookings.Booking
}

func NewBookingRepo() bookings.Repository {
	return &bookingRepo{byID: make(map[string]bookings.Booking)}
}

func (r *bookingRepo) Create(ctx context.Context, b bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(b.ID) == "" {
		return errors.New("booking id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return errors.New("booking already exists")
	}
	r.byID[b.ID] = b
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return bookings.Booking{}, bookings.ErrNotFound
	}
	return b, nil
}

func (r *bookingRepo) ListByUser(ctx context.Context, userID string) ([]bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bookings.Booking, 0)
	for _, b := range r.byID {
		if b.OwnerUserID == userID || b.GiverUserID == userID {
			out = append(out, b)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out, nil
}

func (r *bookingRepo) Update(ctx context.Context, b bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[b.ID]; !exists {
		return bookings.ErrNotFound
	}
	r.byID[b.ID] = b
	return nil
}
