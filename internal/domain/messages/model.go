package messages

import "time"

// Message es una entrada append-only del canal de una consulta.
// No hay update ni delete.
type Message struct {
	ID             string
	ConsultationID string

	SenderID   string
	SenderName string
	FromVet    bool

	Body      string
	Timestamp time.Time

	// Seq es una secuencia monótona por canal que asigna el repo al
	// insertar; desempata timestamps iguales sin depender del reloj.
	Seq uint64
}
