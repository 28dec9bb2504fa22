package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"kurumibot/usecases/moderation"
)

type StatusHandler struct {
	moderationUseCase *moderation.ModerationUseCase
	startedAt         time.Time
}

func NewStatusHandler(moderationUseCase *moderation.ModerationUseCase) *StatusHandler {
	return &StatusHandler{
		moderationUseCase: moderationUseCase,
		startedAt:         time.Now(),
	}
}

func (h *StatusHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
	router.HandleFunc("/status", h.handleStatus).Methods("GET")
}

func (h *StatusHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Printf("❌ Failed to write health check response: %v", err)
	}
}

func (h *StatusHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.moderationUseCase.Stats()

	response := map[string]any{
		"status":                "ok",
		"uptime_seconds":        int(time.Since(h.startedAt).Seconds()),
		"tracked_users":         stats.TrackedUsers,
		"live_debounce_entries": stats.LiveDebounceEntries,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ Failed to write status response: %v", err)
	}
}
