package users

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Profile, error)
	Create(ctx context.Context, p Profile) error
	// Update aplica un cambio parcial y devuelve la fila resultante.
	Update(ctx context.Context, id string, in UpdateInput) (Profile, error)
	// SetVerified lo usa el módulo de verificaciones al aprobar.
	SetVerified(ctx context.Context, id string, verified bool) error
}

// UpdateInput es un PATCH real: nil = no tocar.
type UpdateInput struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
}

func (in UpdateInput) Empty() bool {
	return in.FullName == nil && in.Phone == nil && in.AvatarURL == nil
}
