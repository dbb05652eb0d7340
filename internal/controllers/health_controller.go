package controllers

import (
	"context"
	"falci/internal/providers"
	"falci/internal/services"
	"falci/internal/storage"
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"time"
)

const storagePingTimeout = 2 * time.Second

type HealthController struct {
	registry  services.SessionRegistryInterface
	store     storage.AdapterInterface
	logger    providers.Logger
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Sessions      int     `json:"sessions"`
	Storage       string  `json:"storage"`
}

// Health answers 503 with status "degraded" while the store does not respond.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Sessions:      hc.registry.Count(),
		Storage:       "ok",
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), storagePingTimeout)
	defer cancel()
	if err := hc.store.Ping(ctx); err != nil {
		hc.logger.Warnf(providers.TypeGet, "Health: storage ping failed: %s", err)
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		status = http.StatusServiceUnavailable
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(registry services.SessionRegistryInterface, store storage.AdapterInterface, logger providers.Logger) *HealthController {
	return &HealthController{
		registry:  registry,
		store:     store,
		logger:    logger,
		startTime: time.Now(),
	}
}
