// Package health tracks the latest fetch outcome of every dashboard slot.
package health

import (
	"sort"
	"sync"
	"time"

	"github.com/abdulachik/dashboard/internal/dashboard"
)

// Status is the last known state of one component.
type Status struct {
	Healthy     bool          `json:"healthy"`
	LastCheck   time.Time     `json:"last_check"`
	LastSuccess time.Time     `json:"last_success"`
	LastError   string        `json:"last_error,omitempty"`
	Latency     time.Duration `json:"latency_ns"`
	Failures    int           `json:"consecutive_failures"`
}

// Health records component outcomes. It is safe for concurrent use.
type Health struct {
	mu         sync.RWMutex
	components map[string]*Status
	now        func() time.Time
}

// New creates an empty tracker.
func New() *Health {
	return &Health{
		components: make(map[string]*Status),
		now:        time.Now,
	}
}

// RecordFetch stores the outcome of a slot fetch.
func (h *Health) RecordFetch(slot dashboard.Slot, elapsed time.Duration, err error) {
	if err != nil {
		h.SetUnhealthy(string(slot), elapsed, err)
		return
	}
	h.SetHealthy(string(slot), elapsed)
}

// SetHealthy marks a component as healthy.
func (h *Health) SetHealthy(component string, latency time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.status(component)
	s.Healthy = true
	s.LastCheck = h.now()
	s.LastSuccess = s.LastCheck
	s.LastError = ""
	s.Latency = latency
	s.Failures = 0
}

// SetUnhealthy marks a component as unhealthy.
func (h *Health) SetUnhealthy(component string, latency time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.status(component)
	s.Healthy = false
	s.LastCheck = h.now()
	s.LastError = err.Error()
	s.Latency = latency
	s.Failures++
}

// status returns the entry for component, creating it. Callers hold mu.
func (h *Health) status(component string) *Status {
	s, ok := h.components[component]
	if !ok {
		s = &Status{}
		h.components[component] = s
	}
	return s
}

// Get returns a copy of a component's status, or nil when unknown.
func (h *Health) Get(component string) *Status {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.components[component]
	if !ok {
		return nil
	}
	c := *s
	return &c
}

// All returns copies of every status keyed by component.
func (h *Health) All() map[string]Status {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]Status, len(h.components))
	for name, s := range h.components {
		out[name] = *s
	}
	return out
}

// Unhealthy lists the failing components in sorted order.
func (h *Health) Unhealthy() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var names []string
	for name, s := range h.components {
		if !s.Healthy {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// IsOverallHealthy returns true if all components are healthy.
func (h *Health) IsOverallHealthy() bool {
	return len(h.Unhealthy()) == 0
}
