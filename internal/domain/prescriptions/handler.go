package prescriptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-telehealth/internal/domain/consultations"
	"pet-telehealth/internal/domain/pets"
	"pet-telehealth/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Post("/", createPrescriptionHandler(svc))
		pr.Get("/", listPrescriptionsHandler(svc))
		pr.Get("/{prescriptionID}", getPrescriptionHandler(svc))
		pr.Put("/{prescriptionID}/delivery", markDeliveredHandler(svc))
	})
}

type medicationPayload struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type createPrescriptionRequest struct {
	ConsultationID string              `json:"consultationId"`
	PetID          string              `json:"petId"`
	Medications    []medicationPayload `json:"medications"`
	Instructions   string              `json:"instructions"`
}

type prescriptionResponse struct {
	ID             string              `json:"id"`
	ConsultationID string              `json:"consultationId"`
	PetID          string              `json:"petId"`
	VetID          string              `json:"vetId"`
	VetName        string              `json:"vetName"`
	Medications    []medicationPayload `json:"medications"`
	Instructions   string              `json:"instructions"`
	Date           time.Time           `json:"date"`
	IsDelivered    bool                `json:"isDelivered"`
	DeliveredAt    *time.Time          `json:"deliveredAt,omitempty"`
}

func createPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		meds := make([]Medication, 0, len(req.Medications))
		for _, m := range req.Medications {
			meds = append(meds, Medication{
				Name:      m.Name,
				Dosage:    m.Dosage,
				Frequency: m.Frequency,
				Duration:  m.Duration,
			})
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			ConsultationID: req.ConsultationID,
			PetID:          req.PetID,
			Medications:    meds,
			Instructions:   req.Instructions,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "consultation id, pet id, and medications are required")
			case errors.Is(err, consultations.ErrNotFound):
				writeError(w, http.StatusNotFound, "consultation not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPrescriptionResponse(p))
	}
}

func listPrescriptionsHandler(svc *Service) http.HandlerFunc {
	// Filtro por mascota via query (?petId=), como el cliente existente.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := strings.TrimSpace(r.URL.Query().Get("petId"))
		if petID == "" {
			writeError(w, http.StatusBadRequest, "pet id is required")
			return
		}

		items, err := svc.ListByPet(r.Context(), claims.UserID, petID)
		if err != nil {
			switch {
			case errors.Is(err, pets.ErrNotFound):
				writeError(w, http.StatusNotFound, "pet not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		out := make([]prescriptionResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPrescriptionResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "prescriptionID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotPetOwner):
				writeError(w, http.StatusForbidden, "access denied")
			default:
				writeError(w, http.StatusNotFound, "prescription not found")
			}
			return
		}

		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

func markDeliveredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.MarkDelivered(r.Context(), claims.UserID, chi.URLParam(r, "prescriptionID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotPetOwner):
				writeError(w, http.StatusForbidden, "access denied")
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "prescription not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	meds := make([]medicationPayload, 0, len(p.Medications))
	for _, m := range p.Medications {
		meds = append(meds, medicationPayload{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	return prescriptionResponse{
		ID:             p.ID,
		ConsultationID: p.ConsultationID,
		PetID:          p.PetID,
		VetID:          p.VetID,
		VetName:        p.VetName,
		Medications:    meds,
		Instructions:   p.Instructions,
		Date:           p.IssuedAt,
		IsDelivered:    p.Delivered,
		DeliveredAt:    p.DeliveredAt,
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
