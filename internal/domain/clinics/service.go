package clinics

import (
	"errors"
	"math"
	"sort"
	"strings"
)

var (
	ErrInvalidInput = errors.New("latitude and longitude are required")
	ErrNotFound     = errors.New("clinic not found")
)

// earthRadiusKm es el radio medio terrestre para haversine.
const earthRadiusKm = 6371

type Service struct {
	clinics []Clinic
	byID    map[string]Clinic
}

func NewService(seed []Clinic) *Service {
	s := &Service{
		clinics: make([]Clinic, len(seed)),
		byID:    make(map[string]Clinic, len(seed)),
	}
	copy(s.clinics, seed)
	for _, c := range seed {
		s.byID[c.ID] = c
	}
	return s
}

// DefaultSeed es el directorio de referencia de cuatro clínicas.
func DefaultSeed() []Clinic {
	return []Clinic{
		{
			ID: "1", Name: "Happy Paws Veterinary Clinic",
			Address:  "123 Main Street, New York, NY 10001",
			Latitude: 40.7128, Longitude: -74.0060,
			Phone: "+1-555-0101", Rating: 4.8,
			OpeningHours: "Mon-Fri: 9AM-6PM, Sat: 10AM-4PM",
		},
		{
			ID: "2", Name: "Emergency Pet Care Center",
			Address:  "456 Oak Avenue, New York, NY 10002",
			Latitude: 40.7580, Longitude: -73.9855,
			Phone: "+1-555-0102", Rating: 4.9,
			IsEmergency:  true,
			OpeningHours: "24/7",
		},
		{
			ID: "3", Name: "City Animal Hospital",
			Address:  "789 Park Boulevard, New York, NY 10003",
			Latitude: 40.7505, Longitude: -73.9934,
			Phone: "+1-555-0103", Rating: 4.7,
			OpeningHours: "Mon-Sun: 8AM-8PM",
		},
		{
			ID: "4", Name: "Pet Wellness Center",
			Address:  "321 Broadway, New York, NY 10004",
			Latitude: 40.7282, Longitude: -74.0776,
			Phone: "+1-555-0104", Rating: 4.6,
			OpeningHours: "Mon-Fri: 8AM-7PM, Sat-Sun: 9AM-5PM",
		},
	}
}

// Nearby devuelve el directorio completo anotado con distancia,
// ascendente. El sort es estable: a igual distancia se conserva el
// orden del directorio. La comparación usa precisión completa; el
// redondeo a 2 decimales es solo de representación (handler).
func (s *Service) Nearby(lat, lon float64) []RankedClinic {
	out := make([]RankedClinic, 0, len(s.clinics))
	for _, c := range s.clinics {
		out = append(out, RankedClinic{
			Clinic:     c,
			DistanceKm: haversineKm(lat, lon, c.Latitude, c.Longitude),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})

	return out
}

func (s *Service) All() []Clinic {
	out := make([]Clinic, len(s.clinics))
	copy(out, s.clinics)
	return out
}

func (s *Service) GetByID(id string) (Clinic, error) {
	c, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return Clinic{}, ErrNotFound
	}
	return c, nil
}

// haversineKm calcula la distancia de círculo máximo entre dos puntos
// lat/lon en grados.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
