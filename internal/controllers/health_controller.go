package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"guildstore/internal/providers"
)

// RepositoryStatus reports whether persistence is configured.
type RepositoryStatus interface {
	IsInitialized() bool
}

type HealthController struct {
	repo      RepositoryStatus
	tracker   providers.KeyTrackerInterface
	types     providers.TypeListerInterface
	startTime time.Time
}

type healthResponse struct {
	Status           string   `json:"status"`
	Uptime           string   `json:"uptime"`
	UptimeSeconds    float64  `json:"uptime_seconds"`
	Persistence      bool     `json:"persistence"`
	KnownStorageKeys []string `json:"known_storage_keys"`
	RegisteredTypes  []string `json:"registered_types"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:           "ok",
		Uptime:           formatDuration(uptime),
		UptimeSeconds:    uptime.Seconds(),
		Persistence:      hc.repo.IsInitialized(),
		KnownStorageKeys: hc.tracker.Keys(),
		RegisteredTypes:  hc.types.GetRegisteredTypes(),
	}
	if !resp.Persistence {
		resp.Status = "degraded"
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(repo RepositoryStatus, tracker providers.KeyTrackerInterface, types providers.TypeListerInterface) *HealthController {
	return &HealthController{
		repo:      repo,
		tracker:   tracker,
		types:     types,
		startTime: time.Now(),
	}
}
