package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-services-marketplace/internal/domain/requests"
)

type requestRepo struct {
	mu   sync.RWMutex
	byID map[string]requests.ServiceRequest
}

func NewRequestRepo() requests.Repository {
	return &requestRepo{byID: make(map[string]requests.ServiceRequest)}
}

func (r *requestRepo) Create(ctx context.Context, sr requests.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(sr.ID) == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[sr.ID]; exists {
		return errors.New("request already exists")
	}
	r.byID[sr.ID] = sr
	return nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (requests.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sr, ok := r.byID[id]
	if !ok {
		return requests.ServiceRequest{}, requests.ErrNotFound
	}
	return sr, nil
}

func (r *requestRepo) ListOpen(ctx context.Context, f requests.ListFilter) ([]requests.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]requests.ServiceRequest, 0)
	for _, sr := range r.byID {
		if sr.Status != requests.StatusOpen {
			continue
		}
		if f.Type != "" && sr.Type != f.Type {
			continue
		}
		out = append(out, sr)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out, nil
}

func (r *requestRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]requests.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]requests.ServiceRequest, 0)
	for _, sr := range r.byID {
		if sr.OwnerUserID == ownerUserID {
			out = append(out, sr)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *requestRepo) Update(ctx context.Context, sr requests.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[sr.ID]; !exists {
		return requests.ErrNotFound
	}
	r.byID[sr.ID] = sr
	return nil
}
