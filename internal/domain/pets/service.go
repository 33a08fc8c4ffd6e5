package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name           string
	Breed          string
	Species        string
	Age            int
	MedicalHistory string
	PhotoURI       string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Breed) == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Pet{}, ErrInvalidInput
	}

	species := strings.TrimSpace(in.Species)
	if species == "" {
		species = "Dog"
	}

	now := s.now()
	p := Pet{
		ID:             uuid.NewString(),
		OwnerUserID:    ownerUserID,
		Name:           strings.TrimSpace(in.Name),
		Breed:          strings.TrimSpace(in.Breed),
		Species:        species,
		Age:            in.Age,
		MedicalHistory: in.MedicalHistory,
		PhotoURI:       in.PhotoURI,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Get devuelve ErrNotFound tanto si la mascota no existe como si
// pertenece a otro usuario: no filtramos existencia de mascotas ajenas.
func (s *Service) Get(ctx context.Context, actorID, petID string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != actorID {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateInput struct {
	// Punteros para merge parcial: nil = no tocar. Para los campos
	// requeridos un string vacío también conserva el valor anterior;
	// para los opcionales (historia médica, foto) el vacío se respeta.
	Name           *string
	Breed          *string
	Species        *string
	Age            *int
	MedicalHistory *string
	PhotoURI       *string
}

func (s *Service) Update(ctx context.Context, actorID, petID string, in UpdateInput) (Pet, error) {
	current, err := s.Get(ctx, actorID, petID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil && strings.TrimSpace(*in.Breed) != "" {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Species != nil && strings.TrimSpace(*in.Species) != "" {
		current.Species = strings.TrimSpace(*in.Species)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Pet{}, ErrInvalidInput
		}
		current.Age = *in.Age
	}
	if in.MedicalHistory != nil {
		current.MedicalHistory = *in.MedicalHistory
	}
	if in.PhotoURI != nil {
		current.PhotoURI = *in.PhotoURI
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, actorID, petID string) error {
	if _, err := s.Get(ctx, actorID, petID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, petID)
}
