package controllers

import (
	"emd/internal/services"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	query     services.QueryServiceInterface
	accounts  services.AccountServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string  `json:"status"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	SelectedAccount string  `json:"selected_account,omitempty"`
	WindowHours     int     `json:"window_hours"`
	BootstrapError  string  `json:"bootstrap_error,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		SelectedAccount: hc.accounts.Selected(),
		WindowHours:     hc.query.Window().Hours(),
		BootstrapError:  hc.accounts.BootstrapError(),
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

func NewHealthController(query services.QueryServiceInterface, accounts services.AccountServiceInterface) *HealthController {
	return &HealthController{
		query:     query,
		accounts:  accounts,
		startTime: time.Now(),
	}
}
