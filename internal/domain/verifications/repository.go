package verifications

import "context"

type Repository interface {
	Create(ctx context.Context, v Verification) error
	GetByID(ctx context.Context, id string) (Verification, error)
	GetByUser(ctx context.Context, userID string) (Verification, error) // la más reciente
	Update(ctx context.Context, v Verification) error
}
