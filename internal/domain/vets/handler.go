package vets

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, dir *Directory) {
	r.Get("/vets/doctors", listVetsHandler(dir))
}

type vetResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Rating         float64 `json:"rating"`
}

func listVetsHandler(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		all := dir.All()
		out := make([]vetResponse, 0, len(all))
		for _, v := range all {
			out = append(out, vetResponse{
				ID:             v.ID,
				Name:           v.Name,
				Specialization: v.Specialization,
				Rating:         v.Rating,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
