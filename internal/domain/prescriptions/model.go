package prescriptions

import "time"

type Medication struct {
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}

// Prescription registra medicación emitida contra una consulta. El vet
// (id y nombre) se copia de la consulta al crear y no se vuelve a
// resolver: una reasignación posterior no altera recetas históricas.
type Prescription struct {
	ID             string
	ConsultationID string
	PetID          string

	VetID   string
	VetName string

	Medications  []Medication
	Instructions string

	IssuedAt    time.Time
	Delivered   bool
	DeliveredAt *time.Time
}
