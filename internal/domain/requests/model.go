package requests

import "time"

// ServiceType son los servicios que se pueden pedir.
type ServiceType string

const (
	TypeWalk     ServiceType = "walk"
	TypeGrooming ServiceType = "grooming"
	TypeBoarding ServiceType = "boarding"
	TypeTraining ServiceType = "training"
)

func ValidServiceType(t ServiceType) bool {
	switch t {
	case TypeWalk, TypeGrooming, TypeBoarding, TypeTraining:
		return true
	}
	return false
}

// Status es la máquina de estados del pedido:
// open -> matched -> in_progress -> completed, o cancelled desde open/matched.
type Status string

const (
	StatusOpen       Status = "open"
	StatusMatched    Status = "matched"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ServiceRequest es un pedido de servicio publicado por un dueño.
// Las transiciones las disparan las ofertas de prestadores y las acciones
// de inicio/cierre del engagement.
type ServiceRequest struct {
	ID          string
	PetID       string
	OwnerUserID string

	Type            ServiceType
	StartAt         time.Time
	DurationMinutes int
	Location        string
	Notes           string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
