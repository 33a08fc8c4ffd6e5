package messages

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-telehealth/internal/domain/consultations"
	"pet-telehealth/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/consultations/{consultationID}/messages", postMessageHandler(svc))
	r.Get("/consultations/{consultationID}/messages", listMessagesHandler(svc))
}

type postMessageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConsultationID string    `json:"consultationId"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	IsFromVet      bool      `json:"isFromVet"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

func postMessageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req postMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		m, err := svc.Post(r.Context(), claims.UserID, chi.URLParam(r, "consultationID"), req.Message)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "message is required")
			case errors.Is(err, consultations.ErrNotFound):
				writeError(w, http.StatusNotFound, "consultation not found")
			case errors.Is(err, consultations.ErrNotActive):
				// distinto de 404: la consulta existe pero no acepta mensajes
				writeError(w, http.StatusBadRequest, "consultation is not active")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toMessageResponse(m))
	}
}

func listMessagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.List(r.Context(), claims.UserID, chi.URLParam(r, "consultationID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "consultation not found")
			return
		}

		out := make([]messageResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMessageResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConsultationID: m.ConsultationID,
		SenderID:       m.SenderID,
		SenderName:     m.SenderName,
		IsFromVet:      m.FromVet,
		Message:        m.Body,
		Timestamp:      m.Timestamp,
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
