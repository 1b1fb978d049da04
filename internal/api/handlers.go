package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/database"
	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/models"
)

const defaultDailyLimit = 100

// RunRecorder keeps the most recent completed run summary for the status
// endpoint. Safe for concurrent use.
type RunRecorder struct {
	mu   sync.RWMutex
	last *models.RunSummary
}

// Record stores the latest run summary
func (r *RunRecorder) Record(summary *models.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = summary
}

// Latest returns the most recent run summary, or nil if no run completed yet
func (r *RunRecorder) Latest() *models.RunSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db   *database.DB
	runs *RunRecorder
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB, runs *RunRecorder) *Handler {
	return &Handler{
		db:   db,
		runs: runs,
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetDailyBySymbol handles GET /stocks/{symbol}/daily
func (h *Handler) GetDailyBySymbol(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	limit := defaultDailyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.db.GetDailyBySymbol(symbol, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// GetLatestDaily handles GET /stocks/{symbol}/daily/latest
func (h *Handler) GetLatestDaily(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	record, err := h.db.GetLatestDaily(symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// GetLatestRun handles GET /runs/latest
func (h *Handler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	summary := h.runs.Latest()
	if summary == nil {
		http.Error(w, "no pipeline run has completed yet", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
