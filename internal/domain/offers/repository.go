package offers

import "context"

type Repository interface {
	Create(ctx context.Context, o ServiceOffer) error
	GetByID(ctx context.Context, id string) (ServiceOffer, error)
	ListByRequest(ctx context.Context, requestID string) ([]ServiceOffer, error)
	ListByGiver(ctx context.Context, giverUserID string) ([]ServiceOffer, error)
	Update(ctx context.Context, o ServiceOffer) error
}
