package pets

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsSpeciesToDog(t *testing.T) {
	svc := NewService(newTestRepo())

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:  "Max",
		Breed: "Golden Retriever",
		Age:   3,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.Species != "Dog" {
		t.Fatalf("expected species Dog by default, got %q", p.Species)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected timestamps == now")
	}
	if p.OwnerUserID != "owner-1" {
		t.Fatalf("expected owner owner-1, got %q", p.OwnerUserID)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []CreateInput{
		{Breed: "Mixed", Age: 1},           // sin nombre
		{Name: "Max", Age: 1},              // sin raza
		{Name: "Max", Breed: "M", Age: -1}, // edad negativa
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), "owner-1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Get_OtherOwnerLooksLikeNotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "Max", Breed: "Mixed", Age: 2,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := svc.Get(context.Background(), "owner-1", p.ID); err != nil {
		t.Fatalf("owner get error: %v", err)
	}

	// mascota ajena e inexistente responden igual
	if _, err := svc.Get(context.Background(), "owner-2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign pet, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner-1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown pet, got %v", err)
	}
}

func TestService_Update_PartialMerge(t *testing.T) {
	svc := NewService(newTestRepo())

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "Max", Breed: "Mixed", Species: "Cat", Age: 2,
		MedicalHistory: "vacunas al día",
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	later := created.CreatedAt.Add(time.Hour)
	svc.now = func() time.Time { return later }

	// nombre vacío conserva, historia médica vacía se respeta
	updated, err := svc.Update(context.Background(), "owner-1", created.ID, UpdateInput{
		Name:           strptr(""),
		Age:            intptr(3),
		MedicalHistory: strptr(""),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Max" {
		t.Fatalf("blank name must keep previous value, got %q", updated.Name)
	}
	if updated.Age != 3 {
		t.Fatalf("expected age 3, got %d", updated.Age)
	}
	if updated.MedicalHistory != "" {
		t.Fatalf("empty medical history must be honored, got %q", updated.MedicalHistory)
	}
	if updated.Species != "Cat" {
		t.Fatalf("untouched field changed: %q", updated.Species)
	}
	if updated.UpdatedAt != later {
		t.Fatalf("expected UpdatedAt bumped")
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("CreatedAt must not change on update")
	}
}

func TestService_Update_RejectsNegativeAge(t *testing.T) {
	svc := NewService(newTestRepo())

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "Max", Breed: "Mixed", Age: 2,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := svc.Update(context.Background(), "owner-1", p.ID, UpdateInput{Age: intptr(-1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Delete_OwnerScoped(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "Max", Breed: "Mixed", Age: 2,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := svc.Delete(context.Background(), "owner-2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting foreign pet, got %v", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", p.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, ok := repo.byID[p.ID]; ok {
		t.Fatalf("pet still present after delete")
	}
}
