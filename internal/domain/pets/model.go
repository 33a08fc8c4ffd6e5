package pets

import "time"

// Pet representa una mascota registrada. Cada mascota tiene exactamente
// un dueño; toda lectura/escritura verifica OwnerUserID contra el actor.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Breed   string
	Species string // texto libre, default "Dog"
	Age     int    // años, >= 0

	MedicalHistory string
	PhotoURI       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
