package observability

import (
	"strconv"
	"sync"
	"time"
)

type routeStat struct {
	count        int64
	totalElapsed time.Duration
}

// Metrics keeps in-memory request and error counters. Request counters are
// keyed by route, method and status; error counters by the domain error code
// reported through the error middleware (LOCKED_OUT, RATE_LIMITED and so on).
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*routeStat
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*routeStat),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts one completed request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stat, ok := m.requests[key]
	if !ok {
		stat = &routeStat{}
		m.requests[key] = stat
	}
	stat.count++
	stat.totalElapsed += duration
}

// RecordError counts one request rejected with a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[code]++
}

// RequestCount returns how many requests matched the route, method and status.
func (m *Metrics) RequestCount(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stat, ok := m.requests[path+"|"+method+"|"+strconv.Itoa(status)]
	if !ok {
		return 0
	}
	return stat.count
}

// AverageLatency returns the mean duration observed for the route, method and
// status, or zero when nothing has been recorded.
func (m *Metrics) AverageLatency(path, method string, status int) time.Duration {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stat, ok := m.requests[path+"|"+method+"|"+strconv.Itoa(status)]
	if !ok || stat.count == 0 {
		return 0
	}
	return stat.totalElapsed / time.Duration(stat.count)
}

// ErrorCounts returns a copy of the per-code error counters.
func (m *Metrics) ErrorCounts() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.errors))
	for code, n := range m.errors {
		out[code] = n
	}
	return out
}
