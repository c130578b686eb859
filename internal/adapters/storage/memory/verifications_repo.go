package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-services-marketplace/internal/domain/verifications"
)

type verificationRepo struct {
	mu   sync.RWMutex
	byID map[string]verifications.Verification
}

func NewVerificationRepo() verifications.Repository {
	return &verificationRepo{byID: make(map[string]verifications.Verification)}
}

func (r *verificationRepo) Create(ctx context.Context, v verifications.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("verification id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("verification already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *verificationRepo) GetByID(ctx context.Context, id string) (verifications.Verification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return verifications.Verification{}, verifications.ErrNotFound
	}
	return v, nil
}

func (r *verificationRepo) GetByUser(ctx context.Context, userID string) (verifications.Verification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner verifications.Verification
	has := false
	for _, v := range r.byID {
		if v.UserID != userID {
			continue
		}
		if !has || v.CreatedAt.After(winner.CreatedAt) {
			winner = v
			has = true
		}
	}
	if !has {
		return verifications.Verification{}, verifications.ErrNotFound
	}
	return winner, nil
}

func (r *verificationRepo) Update(ctx context.Context, v verifications.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[v.ID]; !exists {
		return verifications.ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}
