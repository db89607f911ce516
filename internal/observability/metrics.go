package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for requests and authorization decisions.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	decisions    map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		decisions:    make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordDecision counts an allow or deny outcome for operation.
func (m *Metrics) RecordDecision(operation string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions[operation+"|"+outcome]++
}

// Decisions returns the count for an operation outcome.
func (m *Metrics) Decisions(operation string, allowed bool) int64 {
	if m == nil {
		return 0
	}
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decisions[operation+"|"+outcome]
}

// Snapshot copies every counter, keyed by kind then label.
func (m *Metrics) Snapshot() map[string]map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]map[string]int64{
		"requests":  copyCounts(m.requestCount),
		"errors":    copyCounts(m.errorCount),
		"decisions": copyCounts(m.decisions),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
