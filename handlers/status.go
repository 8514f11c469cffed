package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"chainbreak/services"
)

// StatusHandler exposes a small read-only HTTP surface for operators.
type StatusHandler struct {
	communities services.CommunitiesService
	botUsername string
	startedAt   time.Time
}

func NewStatusHandler(communities services.CommunitiesService, botUsername string) *StatusHandler {
	return &StatusHandler{
		communities: communities,
		botUsername: botUsername,
		startedAt:   time.Now(),
	}
}

func (h *StatusHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
	router.HandleFunc("/communities", h.handleCommunities).Methods("GET")
}

func (h *StatusHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "ok",
		"bot":    h.botUsername,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *StatusHandler) handleCommunities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.communities.Snapshot())
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to write response: %v", err)
	}
}
