package metrics

import (
	"sync"
	"time"
)

type catalogStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type operationStats struct {
	calls  int
	errors map[string]int
}

// Recorder captures lightweight, in-memory metrics about catalog calls and collection operations.
// When built by Setup it also forwards every observation to OpenTelemetry instruments.
type Recorder struct {
	mu         sync.Mutex
	stats      map[string]*catalogStats
	operations map[string]*operationStats
	otel       *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:      make(map[string]*catalogStats),
		operations: make(map[string]*operationStats),
		otel:       otel,
	}
}

// RecordCatalogAttempt increments counters for a catalog call and stores the last observed latency.
func (r *Recorder) RecordCatalogAttempt(catalog string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(catalog)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCatalogAttempt(catalog, duration, err)
	}
}

// RecordRateLimit tracks that a catalog response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(catalog string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(catalog)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(catalog, retryAfter)
	}
}

// RecordOperation counts a collection operation and, on failure, the error kind it failed with.
func (r *Recorder) RecordOperation(operation, errKind string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	op, ok := r.operations[operation]
	if !ok {
		op = &operationStats{errors: make(map[string]int)}
		r.operations[operation] = op
	}
	op.calls++
	if errKind != "" {
		op.errors[errKind]++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOperation(operation, errKind)
	}
}

// CatalogCalls returns the total attempts recorded for a catalog.
func (r *Recorder) CatalogCalls(catalog string) int {
	return r.Snapshot(catalog).Calls
}

// CatalogErrors returns the total failed attempts recorded for a catalog.
func (r *Recorder) CatalogErrors(catalog string) int {
	return r.Snapshot(catalog).Errors
}

// RateLimitHits returns the number of rate limit events seen for a catalog.
func (r *Recorder) RateLimitHits(catalog string) int {
	return r.Snapshot(catalog).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a catalog.
func (r *Recorder) LastRetryAfter(catalog string) time.Duration {
	return r.Snapshot(catalog).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a catalog call.
func (r *Recorder) LastCallLatency(catalog string) time.Duration {
	return r.Snapshot(catalog).LastCallLatency
}

// OperationCalls returns how many times an operation ran.
func (r *Recorder) OperationCalls(operation string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if op, ok := r.operations[operation]; ok {
		return op.calls
	}
	return 0
}

// OperationErrors returns how many times an operation failed with errKind.
func (r *Recorder) OperationErrors(operation, errKind string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if op, ok := r.operations[operation]; ok {
		return op.errors[errKind]
	}
	return 0
}

// Snapshot returns a copy of the current stats for the catalog.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(catalog string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[catalog]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ensureStats must be called with the lock held.
func (r *Recorder) ensureStats(catalog string) *catalogStats {
	stats, ok := r.stats[catalog]
	if !ok {
		stats = &catalogStats{}
		r.stats[catalog] = stats
	}
	return stats
}
