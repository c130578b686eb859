package requests

import "context"

// ListFilter acota el listado de pedidos abiertos que ven los prestadores.
type ListFilter struct {
	Type ServiceType // "" = todos
}

type Repository interface {
	Create(ctx context.Context, r ServiceRequest) error
	GetByID(ctx context.Context, id string) (ServiceRequest, error)
	ListOpen(ctx context.Context, f ListFilter) ([]ServiceRequest, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]ServiceRequest, error)
	Update(ctx context.Context, r ServiceRequest) error
}
