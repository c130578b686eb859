package users

import "time"

// Role distingue a dueños de mascotas de prestadores de servicios.
type Role string

const (
	RoleOwner Role = "owner"
	RoleGiver Role = "giver"
)

func ValidRole(r Role) bool {
	return r == RoleOwner || r == RoleGiver
}

// Profile es la fila de perfil asociada a una identidad del backend.
// El cliente la crea explícitamente post sign-up (upsert idempotente);
// nunca la borra.
type Profile struct {
	ID       string // = identity id del backend
	Email    string
	FullName string
	Phone    string
	Role     Role

	AvatarURL string
	Verified  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
