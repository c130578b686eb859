package pets

import "time"

// Species define las especies soportadas por el marketplace.
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

func ValidSpecies(s Species) bool {
	return s == SpeciesDog || s == SpeciesCat
}

// SafeZone es la zona segura configurada por el dueño: centro + radio en metros.
// Los prestadores la ven al aceptar un paseo.
type SafeZone struct {
	Lat     float64
	Lng     float64
	RadiusM int
}

// Pet es el perfil de una mascota. Pertenece a exactamente un usuario con rol
// owner; se crea en el onboarding y se borra solo con acción explícita.
type Pet struct {
	ID          string
	OwnerUserID string

	Name        string
	Species     Species
	Breed       string
	BirthDate   *time.Time
	Description string

	AvatarURL string
	SafeZone  *SafeZone

	CreatedAt time.Time
	UpdatedAt time.Time
}
