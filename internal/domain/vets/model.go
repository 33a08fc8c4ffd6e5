package vets

// Vet es data de referencia de solo lectura: se siembra al arrancar el
// proceso y no cambia en runtime.
type Vet struct {
	ID             string
	Name           string
	Specialization string
	Rating         float64
}
