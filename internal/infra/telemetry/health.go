package telemetry

import (
	"sync"
	"time"
)

// HealthReport is served on /healthz.
type HealthReport struct {
	Status    string    `json:"status"`
	LastSync  time.Time `json:"lastSync,omitempty"`
	LastError string    `json:"lastError,omitempty"`
	Revision  uint64    `json:"revision"`
}

// HealthTracker remembers the outcome of the latest sync.
type HealthTracker struct {
	mu     sync.RWMutex
	report HealthReport
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{report: HealthReport{Status: "starting"}}
}

// Record stores the outcome of a sync run.
func (h *HealthTracker) Record(revision uint64, at time.Time, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report.Revision = revision
	if err != nil {
		h.report.Status = "degraded"
		h.report.LastError = err.Error()
		return
	}
	h.report.Status = "ok"
	h.report.LastSync = at
	h.report.LastError = ""
}

func (h *HealthTracker) Report() HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.report
}
