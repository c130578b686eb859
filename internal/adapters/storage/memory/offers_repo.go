package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-services-marketplace/internal/domain/offers"
)

type offerRepo struct {
	mu   sync.RWMutex
	byID map[string]offers.ServiceOffer
}

func NewOfferRepo() offers.Repository {
	return &offerRepo{byID: make(map[string]offers.ServiceOffer)}
}

func (r *offerRepo) Create(ctx context.Context, o offers.ServiceOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("offer id required")
	}
	if _, exists := r.byID[o.ID]; exists {
		return errors.New("offer already exists")
	}
	r.byID[o.ID] = o
	return nil
}

func (r *offerRepo) GetByID(ctx context.Context, id string) (offers.ServiceOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return offers.ServiceOffer{}, offers.ErrNotFound
	}
	return o, nil
}

func (r *offerRepo) ListByRequest(ctx context.Context, requestID string) ([]offers.ServiceOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]offers.ServiceOffer, 0)
	for _, o := range r.byID {
		if o.RequestID == requestID {
			out = append(out, o)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *offerRepo) ListByGiver(ctx context.Context, giverUserID string) ([]offers.ServiceOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]offers.ServiceOffer, 0)
	for _, o := range r.byID {
		if o.GiverUserID == giverUserID {
			out = append(out, o)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *offerRepo) Update(ctx context.Context, o offers.ServiceOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[o.ID]; !exists {
		return offers.ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}
