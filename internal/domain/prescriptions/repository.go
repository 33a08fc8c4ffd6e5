package prescriptions

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Prescription) error
	GetByID(ctx context.Context, id string) (Prescription, error)
	// ListByPet devuelve las recetas de la mascota, emisión más reciente primero.
	ListByPet(ctx context.Context, petID string) ([]Prescription, error)
	// MarkDelivered es el flip one-way false->true. Idempotente: sobre una
	// receta ya entregada vuelve a responder OK y conserva el DeliveredAt
	// original (el primer flip gana).
	MarkDelivered(ctx context.Context, id string, at time.Time) (Prescription, error)
}
