package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-telehealth/internal/domain/consultations"
)

type consultationRepo struct {
	mu   sync.RWMutex
	byID map[string]consultations.Consultation
}

func NewConsultationRepo() consultations.Repository {
	return &consultationRepo{
		byID: make(map[string]consultations.Consultation),
	}
}

func (r *consultationRepo) Create(ctx context.Context, c consultations.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("consultation id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("consultation already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *consultationRepo) GetByID(ctx context.Context, id string) (consultations.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return consultations.Consultation{}, consultations.ErrNotFound
	}
	return c, nil
}

func (r *consultationRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]consultations.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]consultations.Consultation, 0)
	for _, c := range r.byID {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}

	// inicio más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})

	return out, nil
}

// Complete aplica ACTIVE -> COMPLETED bajo el write lock: de N llamadas
// concurrentes sobre el mismo id, una ve ACTIVE y gana; el resto ve
// COMPLETED y recibe ErrNotActive.
func (r *consultationRepo) Complete(ctx context.Context, id string, endTime time.Time) (consultations.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return consultations.Consultation{}, consultations.ErrNotFound
	}
	if c.Status != consultations.StatusActive {
		return consultations.Consultation{}, consultations.ErrNotActive
	}

	c.Status = consultations.StatusCompleted
	c.EndTime = &endTime
	r.byID[id] = c

	return c, nil
}
