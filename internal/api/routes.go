package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/stocks/{symbol}/daily", handler.GetDailyBySymbol).Methods("GET")
	api.HandleFunc("/stocks/{symbol}/daily/latest", handler.GetLatestDaily).Methods("GET")
	api.HandleFunc("/runs/latest", handler.GetLatestRun).Methods("GET")

	return r
}
