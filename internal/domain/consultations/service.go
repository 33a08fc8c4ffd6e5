package consultations

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-telehealth/internal/domain/pets"
	"pet-telehealth/internal/domain/vets"
	"pet-telehealth/internal/platform/lock"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("consultation not found")
	ErrNotActive    = errors.New("consultation is not active")
)

type Service struct {
	repo     Repository
	pets     *pets.Service
	dir      *vets.Directory
	selector vets.Selector
	locker   lock.Locker
	now      func() time.Time
}

func NewService(repo Repository, petsSvc *pets.Service, dir *vets.Directory, selector vets.Selector, locker lock.Locker) *Service {
	return &Service{
		repo:     repo,
		pets:     petsSvc,
		dir:      dir,
		selector: selector,
		locker:   locker,
		now:      time.Now,
	}
}

type CreateInput struct {
	PetID string
	Kind  string
}

// Create valida el tipo y la propiedad de la mascota, asigna un vet via
// Selector y arranca la consulta directamente en ACTIVE (PENDING queda
// reservado en el enum pero este flujo de creación no lo usa).
func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (Consultation, error) {
	if strings.TrimSpace(actorID) == "" || strings.TrimSpace(in.PetID) == "" {
		return Consultation{}, ErrInvalidInput
	}

	kind, ok := ParseKind(in.Kind)
	if !ok {
		return Consultation{}, ErrInvalidInput
	}

	// La mascota tiene que ser del actor; ajena == inexistente.
	if _, err := s.pets.Get(ctx, actorID, in.PetID); err != nil {
		return Consultation{}, err
	}

	vet, err := s.selector.Pick(s.dir.All())
	if err != nil {
		return Consultation{}, err
	}

	now := s.now()
	c := Consultation{
		ID:          uuid.NewString(),
		OwnerUserID: actorID,
		PetID:       in.PetID,
		VetID:       vet.ID,
		VetName:     vet.Name,
		Kind:        kind,
		Status:      StatusActive,
		StartTime:   now,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Consultation{}, err
	}
	return c, nil
}

// End completa una consulta ACTIVE del actor. La transición va
// serializada por entidad (locker) y el repo la aplica como
// compare-and-set, así dos ends concurrentes nunca ganan los dos.
func (s *Service) End(ctx context.Context, actorID, consultationID string) (Consultation, error) {
	consultationID = strings.TrimSpace(consultationID)
	if consultationID == "" {
		return Consultation{}, ErrInvalidInput
	}

	var ended Consultation
	err := s.locker.WithLock(ctx, "consultation:"+consultationID, func(lockCtx context.Context) error {
		current, err := s.Get(lockCtx, actorID, consultationID)
		if err != nil {
			return err
		}

		switch current.Status {
		case StatusActive:
			// única transición válida
		case StatusPending, StatusCompleted, StatusCancelled:
			return ErrNotActive
		default:
			return ErrNotActive
		}

		ended, err = s.repo.Complete(lockCtx, consultationID, s.now())
		return err
	})
	if err != nil {
		return Consultation{}, err
	}
	return ended, nil
}

// Get es owner-scoped: consulta ajena o inexistente == ErrNotFound.
func (s *Service) Get(ctx context.Context, actorID, consultationID string) (Consultation, error) {
	c, err := s.repo.GetByID(ctx, consultationID)
	if err != nil {
		return Consultation{}, err
	}
	if c.OwnerUserID != actorID {
		return Consultation{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Consultation, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}
