package offers

import "time"

// Status de una oferta: pending -> accepted | rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ServiceOffer es la propuesta de un prestador contra un pedido abierto.
// Referencia exactamente un pedido y un giver. De un pedido sale a lo sumo
// una oferta aceptada.
type ServiceOffer struct {
	ID          string
	RequestID   string
	GiverUserID string

	Message    string
	PriceCents int

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
