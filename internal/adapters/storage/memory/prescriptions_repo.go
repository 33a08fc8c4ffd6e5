package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-telehealth/internal/domain/prescriptions"
)

type prescriptionRepo struct {
	mu   sync.RWMutex
	byID map[string]prescriptions.Prescription
}

func NewPrescriptionRepo() prescriptions.Repository {
	return &prescriptionRepo{
		byID: make(map[string]prescriptions.Prescription),
	}
}

func (r *prescriptionRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("prescription id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("prescription already exists")
	}
	r.byID[p.ID] = clonePrescription(p)
	return nil
}

func (r *prescriptionRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}
	return clonePrescription(p), nil
}

func (r *prescriptionRepo) ListByPet(ctx context.Context, petID string) ([]prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prescriptions.Prescription, 0)
	for _, p := range r.byID {
		if p.PetID == petID {
			out = append(out, clonePrescription(p))
		}
	}

	// emisión más reciente primero
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})

	return out, nil
}

// MarkDelivered es one-way: el primer flip fija DeliveredAt; los
// siguientes vuelven a responder OK sin tocar nada.
func (r *prescriptionRepo) MarkDelivered(ctx context.Context, id string, at time.Time) (prescriptions.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}

	if !p.Delivered {
		p.Delivered = true
		p.DeliveredAt = &at
		r.byID[id] = p
	}

	return clonePrescription(p), nil
}

// clonePrescription copia el slice de medicaciones para que ningún
// caller comparta referencias mutables con el repo.
func clonePrescription(p prescriptions.Prescription) prescriptions.Prescription {
	meds := make([]prescriptions.Medication, len(p.Medications))
	copy(meds, p.Medications)
	p.Medications = meds
	return p
}
