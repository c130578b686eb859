package bookings

import "time"

// Status del engagement: scheduled -> in_progress -> completed | cancelled.
// "scheduled" cubre la ventana entre aceptar la oferta y arrancar el servicio.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Booking es el servicio concretado: nace de exactamente una oferta aceptada.
type Booking struct {
	ID          string
	RequestID   string
	OfferID     string
	OwnerUserID string
	GiverUserID string
	PetID       string

	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes int
	Location        string
	PriceCents      int
	PhotoURLs       []string

	Status Status
	Rating int // 1..5, 0 = sin calificar
	TipCents int

	CreatedAt time.Time
	UpdatedAt time.Time
}
