package transport

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wires the HTTP surface: the draw stream endpoint and a health check
func NewRouter(h *Handler) http.Handler {
	router := mux.NewRouter()
	router.Handle("/draw", h).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins:   h.config.Domains,
		AllowedMethods:   []string{http.MethodGet},
		AllowCredentials: true,
	}).Handler(router)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
