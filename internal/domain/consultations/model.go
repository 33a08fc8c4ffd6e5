package consultations

import "time"

// Consultation es una sesión acotada entre el dueño de una mascota y el
// veterinario asignado. El nombre del vet se copia al crear para que el
// histórico no cambie si el padrón cambia después.
type Consultation struct {
	ID          string
	OwnerUserID string
	PetID       string

	VetID   string
	VetName string

	Kind   Kind
	Status Status

	StartTime time.Time
	EndTime   *time.Time
	CreatedAt time.Time
}

// LastMessage es el resumen del último mensaje con el que se enriquecen
// get/list. Se arma en tiempo de consulta, no es estado almacenado.
type LastMessage struct {
	ID         string
	SenderID   string
	SenderName string
	FromVet    bool
	Body       string
	Timestamp  time.Time
}
