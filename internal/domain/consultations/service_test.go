package consultations

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"pet-telehealth/internal/domain/pets"
	"pet-telehealth/internal/domain/vets"
	"pet-telehealth/internal/platform/lock"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Consultation
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Consultation{}}
}

func (r *testRepo) Create(ctx context.Context, c Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return Consultation{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Consultation, 0)
	for _, c := range r.byID {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (r *testRepo) Complete(ctx context.Context, id string, endTime time.Time) (Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return Consultation{}, ErrNotFound
	}
	if c.Status != StatusActive {
		return Consultation{}, ErrNotActive
	}

	c.Status = StatusCompleted
	end := endTime
	c.EndTime = &end
	r.byID[id] = c
	return c, nil
}

type testPetRepo struct {
	byID map[string]pets.Pet
}

func (r *testPetRepo) Create(ctx context.Context, p pets.Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testPetRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *testPetRepo) Update(ctx context.Context, p pets.Pet) error { r.byID[p.ID] = p; return nil }
func (r *testPetRepo) Delete(ctx context.Context, id string) error  { delete(r.byID, id); return nil }
func (r *testPetRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	return nil, nil
}

// firstSelector siempre elige el primer candidato: determinístico.
type firstSelector struct{}

func (firstSelector) Pick(candidates []vets.Vet) (vets.Vet, error) {
	if len(candidates) == 0 {
		return vets.Vet{}, vets.ErrNoVetAvailable
	}
	return candidates[0], nil
}

func newTestService(t *testing.T) (*Service, *testRepo) {
	t.Helper()

	repo := newTestRepo()
	petRepo := &testPetRepo{byID: map[string]pets.Pet{
		"pet-1": {ID: "pet-1", OwnerUserID: "owner-1", Name: "Max"},
	}}
	petsSvc := pets.NewService(petRepo)

	svc := NewService(repo, petsSvc, vets.DefaultDirectory(), firstSelector{}, lock.NewMemoryLocker())
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_AssignsVetAndStartsActive(t *testing.T) {
	svc, _ := newTestService(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	c, err := svc.Create(context.Background(), "owner-1", CreateInput{PetID: "pet-1", Kind: "chat"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Status != StatusActive {
		t.Fatalf("expected ACTIVE, got %s", c.Status)
	}
	if c.Kind != KindChat {
		t.Fatalf("expected kind CHAT (normalized), got %s", c.Kind)
	}
	if c.VetID != "vet_001" || c.VetName != "Dr. Sarah Johnson" {
		t.Fatalf("expected deterministic vet vet_001, got %s/%s", c.VetID, c.VetName)
	}
	if c.StartTime != now || c.CreatedAt != now {
		t.Fatalf("expected StartTime/CreatedAt == now")
	}
	if c.EndTime != nil {
		t.Fatalf("new consultation must not have EndTime")
	}
}

func TestService_Create_RejectsUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{PetID: "pet-1", Kind: "phone"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_ForeignPetLooksLikeNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create(context.Background(), "owner-2", CreateInput{PetID: "pet-1", Kind: "CHAT"}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected pets.ErrNotFound, got %v", err)
	}
}

func TestService_Create_NoVetAvailable(t *testing.T) {
	repo := newTestRepo()
	petRepo := &testPetRepo{byID: map[string]pets.Pet{
		"pet-1": {ID: "pet-1", OwnerUserID: "owner-1"},
	}}
	svc := NewService(repo, pets.NewService(petRepo), vets.NewDirectory(nil), firstSelector{}, lock.NewMemoryLocker())

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{PetID: "pet-1", Kind: "CHAT"}); !errors.Is(err, vets.ErrNoVetAvailable) {
		t.Fatalf("expected ErrNoVetAvailable, got %v", err)
	}
}

func TestService_End_CompletesActiveConsultation(t *testing.T) {
	svc, _ := newTestService(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	c, err := svc.Create(context.Background(), "owner-1", CreateInput{PetID: "pet-1", Kind: "VIDEO_CALL"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	end := start.Add(30 * time.Minute)
	svc.now = func() time.Time { return end }

	ended, err := svc.End(context.Background(), "owner-1", c.ID)
	if err != nil {
		t.Fatalf("End returned error: %v", err)
	}
	if ended.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", ended.Status)
	}
	if ended.EndTime == nil || !ended.EndTime.Equal(end) {
		t.Fatalf("expected EndTime == %v, got %v", end, ended.EndTime)
	}

	// segundo end sobre la misma consulta: ya no está activa
	if _, err := svc.End(context.Background(), "owner-1", c.ID); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive on second end, got %v", err)
	}
}

func TestService_End_ForeignConsultationLooksLikeNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.Create(context.Background(), "owner-1", CreateInput{PetID: "pet-1", Kind: "CHAT"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := svc.End(context.Background(), "owner-2", c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_End_ConcurrentEndsExactlyOneWins(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.Create(context.Background(), "owner-1", CreateInput{PetID: "pet-1", Kind: "CHAT"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	const n = 16

	var wg sync.WaitGroup
	results := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.End(context.Background(), "owner-1", c.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrNotActive):
			// perdedores esperados
		default:
			t.Fatalf("goroutine %d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winning end, got %d", wins)
	}

	final, err := svc.Get(context.Background(), "owner-1", c.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if final.Status != StatusCompleted {
		t.Fatalf("expected final status COMPLETED, got %s", final.Status)
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"chat", KindChat, true},
		{" CHAT ", KindChat, true},
		{"video_call", KindVideoCall, true},
		{"VIDEO_CALL", KindVideoCall, true},
		{"phone", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseKind(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseKind(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
