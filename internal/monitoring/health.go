package monitoring

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports engine liveness: how many strategy tasks are
// running and which ones have died.
type HealthChecker struct {
	mu          sync.RWMutex
	running     int
	failed      []string
	lastBalance float64
}

// HealthStatus is the JSON body of the health endpoint.
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime"`
	RunningTasks int      `json:"running_tasks"`
	FailedTasks []string  `json:"failed_tasks,omitempty"`
	LastBalance float64   `json:"last_balance_usd"`
}

// NewHealthChecker creates an empty health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

// TaskStarted records one running strategy task.
func (h *HealthChecker) TaskStarted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running++
}

// TaskStopped records a task leaving the running set; name is recorded
// as failed when the task died on an error.
func (h *HealthChecker) TaskStopped(name string, failed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running--
	if failed {
		h.failed = append(h.failed, name)
	}
}

// SetBalance records the last observed account balance.
func (h *HealthChecker) SetBalance(balanceUSD float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastBalance = balanceUSD
}

// ServeHealth exposes the checker on /health. Blocks until the server
// stops.
func ServeHealth(port int, h *HealthChecker) error {
	mux := http.NewServeMux()
	mux.Handle("/health", h)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	switch {
	case h.running == 0:
		status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	case len(h.failed) > 0:
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthStatus{
		Status:       status,
		Timestamp:    time.Now(),
		Uptime:       time.Since(startTime).String(),
		RunningTasks: h.running,
		FailedTasks:  h.failed,
		LastBalance:  h.lastBalance,
	})
}
