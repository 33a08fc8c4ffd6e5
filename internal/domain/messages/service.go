package messages

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-telehealth/internal/domain/consultations"
	"pet-telehealth/internal/domain/users"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo      Repository
	consults  *consultations.Service
	users     *users.Service
	responder *Responder
	now       func() time.Time
}

func NewService(repo Repository, consults *consultations.Service, usersSvc *users.Service, responder *Responder) *Service {
	return &Service{
		repo:      repo,
		consults:  consults,
		users:     usersSvc,
		responder: responder,
		now:       time.Now,
	}
}

// Post agrega un mensaje del dueño y agenda exactamente una respuesta
// automática del vet asignado. El caller recibe su mensaje de inmediato;
// la respuesta se entrega después, fire-and-forget.
func (s *Service) Post(ctx context.Context, actorID, consultationID, body string) (Message, error) {
	if strings.TrimSpace(body) == "" {
		return Message{}, ErrInvalidInput
	}

	c, err := s.consults.Get(ctx, actorID, consultationID)
	if err != nil {
		return Message{}, err
	}

	switch c.Status {
	case consultations.StatusActive:
		// se puede postear
	case consultations.StatusPending, consultations.StatusCompleted, consultations.StatusCancelled:
		return Message{}, consultations.ErrNotActive
	default:
		return Message{}, consultations.ErrNotActive
	}

	m := Message{
		ID:             uuid.NewString(),
		ConsultationID: c.ID,
		SenderID:       actorID,
		SenderName:     s.users.DisplayName(ctx, actorID),
		FromVet:        false,
		Body:           body,
		Timestamp:      s.now(),
	}

	appended, err := s.repo.Append(ctx, m)
	if err != nil {
		return Message{}, err
	}

	s.responder.Schedule(c.ID, c.VetID, c.VetName)

	return appended, nil
}

// List devuelve todos los mensajes en orden ascendente sin importar el
// estado de la consulta (un chat completado sigue siendo legible).
func (s *Service) List(ctx context.Context, actorID, consultationID string) ([]Message, error) {
	if _, err := s.consults.Get(ctx, actorID, consultationID); err != nil {
		return nil, err
	}
	return s.repo.ListByConsultation(ctx, consultationID)
}

// Tail implementa consultations.MessageReader para el join en tiempo de
// consulta de get/list de consultas.
func (s *Service) Tail(ctx context.Context, consultationID string) (int, *consultations.LastMessage, error) {
	items, err := s.repo.ListByConsultation(ctx, consultationID)
	if err != nil {
		return 0, nil, err
	}
	if len(items) == 0 {
		return 0, nil, nil
	}

	last := items[len(items)-1]
	return len(items), &consultations.LastMessage{
		ID:         last.ID,
		SenderID:   last.SenderID,
		SenderName: last.SenderName,
		FromVet:    last.FromVet,
		Body:       last.Body,
		Timestamp:  last.Timestamp,
	}, nil
}
