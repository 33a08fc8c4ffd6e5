package clinics

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/vets/nearby", nearbyHandler(svc))
	r.Get("/vets/clinics", listClinicsHandler(svc))
	r.Get("/vets/clinics/{clinicID}", getClinicHandler(svc))
}

type clinicResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Phone        string  `json:"phone"`
	Rating       float64 `json:"rating"`
	IsEmergency  bool    `json:"isEmergency"`
	OpeningHours string  `json:"openingHours"`

	// Distance solo viene en /vets/nearby, redondeada a 2 decimales.
	Distance *float64 `json:"distance,omitempty"`
}

func nearbyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		latRaw := strings.TrimSpace(q.Get("latitude"))
		lonRaw := strings.TrimSpace(q.Get("longitude"))
		if latRaw == "" || lonRaw == "" {
			writeError(w, http.StatusBadRequest, "latitude and longitude are required")
			return
		}

		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lon, errLon := strconv.ParseFloat(lonRaw, 64)
		if errLat != nil || errLon != nil {
			writeError(w, http.StatusBadRequest, "latitude and longitude must be numbers")
			return
		}

		ranked := svc.Nearby(lat, lon)
		out := make([]clinicResponse, 0, len(ranked))
		for _, rc := range ranked {
			resp := toClinicResponse(rc.Clinic)
			d := math.Round(rc.DistanceKm*100) / 100
			resp.Distance = &d
			out = append(out, resp)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func listClinicsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		all := svc.All()
		out := make([]clinicResponse, 0, len(all))
		for _, c := range all {
			out = append(out, toClinicResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getClinicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(chi.URLParam(r, "clinicID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "clinic not found")
			return
		}
		writeJSON(w, http.StatusOK, toClinicResponse(c))
	}
}

func toClinicResponse(c Clinic) clinicResponse {
	return clinicResponse{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		Phone:        c.Phone,
		Rating:       c.Rating,
		IsEmergency:  c.IsEmergency,
		OpeningHours: c.OpeningHours,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
