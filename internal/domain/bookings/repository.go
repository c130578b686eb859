package bookings

import "context"

type Repository interface {
	Create(ctx context.Context, b Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error) // owner o giver
	Update(ctx context.Context, b Booking) error
}
