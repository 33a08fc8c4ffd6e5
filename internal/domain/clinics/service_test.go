package clinics

import (
	"errors"
	"math"
	"testing"
)

func TestService_Nearby_ReferencePoint(t *testing.T) {
	svc := NewService(DefaultSeed())

	// punto de referencia: la dirección exacta de la clínica "1"
	ranked := svc.Nearby(40.7128, -74.0060)

	if len(ranked) != 4 {
		t.Fatalf("expected full directory (4), got %d", len(ranked))
	}
	if ranked[0].ID != "1" {
		t.Fatalf("expected clinic 1 first, got %s", ranked[0].ID)
	}
	if ranked[0].DistanceKm > 0.001 {
		t.Fatalf("expected near-zero distance for clinic 1, got %f", ranked[0].DistanceKm)
	}

	wantOrder := []string{"1", "3", "2", "4"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Fatalf("position %d: expected clinic %s, got %s", i, want, ranked[i].ID)
		}
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceKm < ranked[i-1].DistanceKm {
			t.Fatalf("distances not ascending at %d", i)
		}
	}
}

func TestService_Nearby_StableOnEqualDistance(t *testing.T) {
	// dos clínicas en el mismo punto: a igual distancia se conserva el
	// orden del directorio
	svc := NewService([]Clinic{
		{ID: "a", Name: "A", Latitude: 10, Longitude: 10},
		{ID: "b", Name: "B", Latitude: 10, Longitude: 10},
	})

	ranked := svc.Nearby(0, 0)
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Fatalf("expected directory order preserved, got %s,%s", ranked[0].ID, ranked[1].ID)
	}
}

func TestService_GetByID(t *testing.T) {
	svc := NewService(DefaultSeed())

	c, err := svc.GetByID("2")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if c.Name != "Emergency Pet Care Center" || !c.IsEmergency {
		t.Fatalf("unexpected clinic %#v", c)
	}

	if _, err := svc.GetByID("99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// NYC a Los Ángeles: ~3936 km de círculo máximo
	got := haversineKm(40.7128, -74.0060, 34.0522, -118.2437)
	if math.Abs(got-3936) > 40 {
		t.Fatalf("NYC-LA distance: got %f, want ~3936", got)
	}

	if d := haversineKm(10, 20, 10, 20); d != 0 {
		t.Fatalf("same point distance must be 0, got %f", d)
	}
}
