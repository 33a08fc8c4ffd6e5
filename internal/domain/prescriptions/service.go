package prescriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-telehealth/internal/domain/consultations"
	"pet-telehealth/internal/domain/pets"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("prescription not found")
	// ErrNotPetOwner se reporta como 403, a diferencia del resto del
	// sistema donde mismatch de ownership es 404. Los clientes existentes
	// distinguen los dos casos; ver DESIGN.md.
	ErrNotPetOwner = errors.New("access denied")
)

type Service struct {
	repo     Repository
	consults *consultations.Service
	pets     *pets.Service
	now      func() time.Time
}

func NewService(repo Repository, consults *consultations.Service, petsSvc *pets.Service) *Service {
	return &Service{
		repo:     repo,
		consults: consults,
		pets:     petsSvc,
		now:      time.Now,
	}
}

type CreateInput struct {
	ConsultationID string
	PetID          string
	Medications    []Medication
	Instructions   string
}

// Create emite una receta contra una consulta del actor. El vet se copia
// de la consulta en este momento, no se re-resuelve después.
func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (Prescription, error) {
	if strings.TrimSpace(in.ConsultationID) == "" || strings.TrimSpace(in.PetID) == "" {
		return Prescription{}, ErrInvalidInput
	}
	if len(in.Medications) == 0 {
		return Prescription{}, ErrInvalidInput
	}
	for _, m := range in.Medications {
		if strings.TrimSpace(m.Name) == "" {
			return Prescription{}, ErrInvalidInput
		}
	}

	c, err := s.consults.Get(ctx, actorID, in.ConsultationID)
	if err != nil {
		return Prescription{}, err
	}

	p := Prescription{
		ID:             uuid.NewString(),
		ConsultationID: c.ID,
		PetID:          in.PetID,
		VetID:          c.VetID,
		VetName:        c.VetName,
		Medications:    in.Medications,
		Instructions:   in.Instructions,
		IssuedAt:       s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

// Get autoriza vía ownership de la mascota asociada: id desconocido es
// ErrNotFound, receta de mascota ajena es ErrNotPetOwner (403).
func (s *Service) Get(ctx context.Context, actorID, id string) (Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Prescription{}, err
	}

	if _, err := s.pets.Get(ctx, actorID, p.PetID); err != nil {
		return Prescription{}, ErrNotPetOwner
	}
	return p, nil
}

func (s *Service) ListByPet(ctx context.Context, actorID, petID string) ([]Prescription, error) {
	if _, err := s.pets.Get(ctx, actorID, petID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) MarkDelivered(ctx context.Context, actorID, id string) (Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Prescription{}, err
	}
	if _, err := s.pets.Get(ctx, actorID, p.PetID); err != nil {
		return Prescription{}, ErrNotPetOwner
	}

	return s.repo.MarkDelivered(ctx, id, s.now())
}
