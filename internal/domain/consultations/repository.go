package consultations

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c Consultation) error
	GetByID(ctx context.Context, id string) (Consultation, error)
	// ListByOwner devuelve las consultas del dueño, inicio más reciente primero.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Consultation, error)
	// Complete hace la transición ACTIVE -> COMPLETED de forma atómica
	// (compare-and-set): si el estado actual no es ACTIVE devuelve
	// ErrNotActive, de modo que de N ends concurrentes gana exactamente uno.
	Complete(ctx context.Context, id string, endTime time.Time) (Consultation, error)
}

// MessageReader lo implementa el módulo de messages; consultations lo
// define acá para no invertir la dependencia entre paquetes.
type MessageReader interface {
	// Tail devuelve la cantidad de mensajes y el último (nil si no hay).
	Tail(ctx context.Context, consultationID string) (int, *LastMessage, error)
}
