package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-telehealth/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name           string `json:"name"`
	Breed          string `json:"breed"`
	Species        string `json:"species"`
	Age            *int   `json:"age"`
	MedicalHistory string `json:"medicalHistory"`
	PhotoURI       string `json:"photoUri"`
}

type updatePetRequest struct {
	Name           *string `json:"name"`
	Breed          *string `json:"breed"`
	Species        *string `json:"species"`
	Age            *int    `json:"age"`
	MedicalHistory *string `json:"medicalHistory"`
	PhotoURI       *string `json:"photoUri"`
}

type petResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Breed          string    `json:"breed"`
	Species        string    `json:"species"`
	Age            int       `json:"age"`
	MedicalHistory string    `json:"medicalHistory"`
	PhotoURI       *string   `json:"photoUri"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Age == nil {
			writeError(w, http.StatusBadRequest, "name, breed, age, and species are required")
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:           req.Name,
			Breed:          req.Breed,
			Species:        req.Species,
			Age:            *req.Age,
			MedicalHistory: req.MedicalHistory,
			PhotoURI:       req.PhotoURI,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "name, breed, age, and species are required")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "petID"), UpdateInput{
			Name:           req.Name,
			Breed:          req.Breed,
			Species:        req.Species,
			Age:            req.Age,
			MedicalHistory: req.MedicalHistory,
			PhotoURI:       req.PhotoURI,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "pet not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "petID")); err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Pet deleted successfully"})
	}
}

func toPetResponse(p Pet) petResponse {
	resp := petResponse{
		ID:             p.ID,
		UserID:         p.OwnerUserID,
		Name:           p.Name,
		Breed:          p.Breed,
		Species:        p.Species,
		Age:            p.Age,
		MedicalHistory: p.MedicalHistory,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.PhotoURI != "" {
		resp.PhotoURI = &p.PhotoURI
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
