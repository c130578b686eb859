package verifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("verification not found")
	ErrNotPending   = errors.New("verification is not pending")
	ErrSelfReview   = errors.New("cannot review own verification")
)

// UserMarker marca al usuario como verificado al aprobar.
// Lo implementa users.Service.
type UserMarker interface {
	SetVerified(ctx context.Context, id string, verified bool) error
}

type Service struct {
	repo  Repository
	users UserMarker
	now   func() time.Time
}

func NewService(repo Repository, users UserMarker) *Service {
	return &Service{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

type SubmitInput struct {
	IDDocumentURL string
	SelfieURL     string
}

// Submit crea (o reemplaza) el trámite pendiente del usuario. Re-enviar
// documentos sobre un trámite pendiente actualiza el mismo trámite; sobre uno
// rechazado, abre uno nuevo.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (Verification, error) {
	if strings.TrimSpace(userID) == "" {
		return Verification{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.IDDocumentURL) == "" || strings.TrimSpace(in.SelfieURL) == "" {
		return Verification{}, ErrInvalidInput
	}

	now := s.now()

	if existing, err := s.repo.GetByUser(ctx, userID); err == nil && existing.Status == StatusPending {
		existing.IDDocumentURL = strings.TrimSpace(in.IDDocumentURL)
		existing.SelfieURL = strings.TrimSpace(in.SelfieURL)
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Verification{}, err
		}
		return existing, nil
	}

	v := Verification{
		ID:            uuid.NewString(),
		UserID:        userID,
		IDDocumentURL: strings.TrimSpace(in.IDDocumentURL),
		SelfieURL:     strings.TrimSpace(in.SelfieURL),
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Verification{}, err
	}
	return v, nil
}

func (s *Service) GetByUser(ctx context.Context, userID string) (Verification, error) {
	if strings.TrimSpace(userID) == "" {
		return Verification{}, ErrInvalidInput
	}
	return s.repo.GetByUser(ctx, userID)
}

// Approve cierra el trámite y marca al usuario como verificado.
func (s *Service) Approve(ctx context.Context, id, verifierUserID string) (Verification, error) {
	v, err := s.review(ctx, id, verifierUserID, StatusApproved)
	if err != nil {
		return Verification{}, err
	}
	if err := s.users.SetVerified(ctx, v.UserID, true); err != nil {
		return Verification{}, err
	}
	return v, nil
}

func (s *Service) Reject(ctx context.Context, id, verifierUserID string) (Verification, error) {
	return s.review(ctx, id, verifierUserID, StatusRejected)
}

func (s *Service) review(ctx context.Context, id, verifierUserID string, to Status) (Verification, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(verifierUserID) == "" {
		return Verification{}, ErrInvalidInput
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Verification{}, err
	}
	if v.Status != StatusPending {
		return Verification{}, ErrNotPending
	}
	if v.UserID == verifierUserID {
		return Verification{}, ErrSelfReview
	}

	now := s.now()
	v.Status = to
	v.VerifierUserID = verifierUserID
	v.VerifiedAt = &now
	v.UpdatedAt = now
	if err := s.repo.Update(ctx, v); err != nil {
		return Verification{}, err
	}
	return v, nil
}
