package messages

import (
	"context"

	"pet-telehealth/internal/domain/consultations"
)

type Repository interface {
	// Append asigna Seq y persiste; devuelve el mensaje con Seq puesto.
	Append(ctx context.Context, m Message) (Message, error)
	// ListByConsultation devuelve los mensajes ordenados por
	// (Timestamp, Seq) ascendente.
	ListByConsultation(ctx context.Context, consultationID string) ([]Message, error)
}

// ConsultationSource es la vista mínima que necesita el responder para
// saber si la consulta sigue recuperable al momento de entregar.
// La implementa consultations.Repository.
type ConsultationSource interface {
	GetByID(ctx context.Context, id string) (consultations.Consultation, error)
}
