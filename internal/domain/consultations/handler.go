package consultations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-telehealth/internal/domain/pets"
	"pet-telehealth/internal/domain/vets"
	"pet-telehealth/internal/middleware"
	"pet-telehealth/internal/platform/lock"

	"github.com/go-chi/chi/v5"
)

// Rutas planas (sin subrouter): el módulo de messages también registra
// paths bajo /consultations y un Mount acá le pisaría el árbol.
func RegisterRoutes(r chi.Router, svc *Service, msgs MessageReader) {
	r.Post("/consultations", createConsultationHandler(svc))
	r.Get("/consultations", listConsultationsHandler(svc, msgs))
	r.Get("/consultations/{consultationID}", getConsultationHandler(svc, msgs))
	r.Put("/consultations/{consultationID}/end", endConsultationHandler(svc))
}

type createConsultationRequest struct {
	PetID string `json:"petId"`
	Type  string `json:"type"` // CHAT o VIDEO_CALL
}

type lastMessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	IsFromVet  bool      `json:"isFromVet"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

type consultationResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	PetID     string     `json:"petId"`
	VetID     string     `json:"vetId"`
	VetName   string     `json:"vetName"`
	Type      Kind       `json:"type"`
	Status    Status     `json:"status"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	CreatedAt time.Time  `json:"createdAt"`

	// Composición en tiempo de consulta con el módulo de messages.
	MessageCount int                  `json:"messageCount"`
	LastMessage  *lastMessageResponse `json:"lastMessage,omitempty"`
}

func createConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createConsultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			PetID: req.PetID,
			Kind:  req.Type,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "pet id and consultation type are required")
			case errors.Is(err, pets.ErrNotFound):
				writeError(w, http.StatusNotFound, "pet not found")
			case errors.Is(err, vets.ErrNoVetAvailable):
				writeError(w, http.StatusServiceUnavailable, "no vet available")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toConsultationResponse(c, 0, nil))
	}
}

func listConsultationsHandler(svc *Service, msgs MessageReader) http.HandlerFunc {
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

		out := make([]consultationResponse, 0, len(items))
		for _, c := range items {
			count, last, err := msgs.Tail(r.Context(), c.ID)
			if err != nil {
				count, last = 0, nil
			}
			out = append(out, toConsultationResponse(c, count, last))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getConsultationHandler(svc *Service, msgs MessageReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		c, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "consultationID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "consultation not found")
			return
		}

		count, last, err := msgs.Tail(r.Context(), c.ID)
		if err != nil {
			count, last = 0, nil
		}

		writeJSON(w, http.StatusOK, toConsultationResponse(c, count, last))
	}
}

func endConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		c, err := svc.End(r.Context(), claims.UserID, chi.URLParam(r, "consultationID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "consultation not found")
			case errors.Is(err, ErrNotActive):
				writeError(w, http.StatusBadRequest, "consultation is not active")
			case errors.Is(err, lock.ErrNotAcquired):
				writeError(w, http.StatusConflict, "consultation is busy, retry")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, toConsultationResponse(c, 0, nil))
	}
}

func toConsultationResponse(c Consultation, count int, last *LastMessage) consultationResponse {
	resp := consultationResponse{
		ID:           c.ID,
		UserID:       c.OwnerUserID,
		PetID:        c.PetID,
		VetID:        c.VetID,
		VetName:      c.VetName,
		Type:         c.Kind,
		Status:       c.Status,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		CreatedAt:    c.CreatedAt,
		MessageCount: count,
	}
	if last != nil {
		resp.LastMessage = &lastMessageResponse{
			ID:         last.ID,
			SenderID:   last.SenderID,
			SenderName: last.SenderName,
			IsFromVet:  last.FromVet,
			Message:    last.Body,
			Timestamp:  last.Timestamp,
		}
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
