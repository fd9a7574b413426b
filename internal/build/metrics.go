package build

import (
	"sync"
	"time"
)

// Metrics tracks per-component compile outcomes and per-stage durations for
// a pipeline run.
type Metrics struct {
	TotalCompiles      int64
	SuccessfulCompiles int64
	FailedCompiles     int64
	CacheHits          int64
	AverageDuration    time.Duration
	TotalDuration      time.Duration
	StageDurations     map[string]time.Duration
	mutex              sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		StageDurations: make(map[string]time.Duration),
	}
}

// RecordCompile records one component compile
func (m *Metrics) RecordCompile(duration time.Duration, cacheHit bool, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalCompiles++
	m.TotalDuration += duration

	if cacheHit {
		m.CacheHits++
	}

	if err != nil {
		m.FailedCompiles++
	} else {
		m.SuccessfulCompiles++
	}

	// Update average duration
	if m.TotalCompiles > 0 {
		m.AverageDuration = m.TotalDuration / time.Duration(m.TotalCompiles)
	}
}

// RecordStage records how long a pipeline stage took. Repeated stages
// accumulate.
func (m *Metrics) RecordStage(stage string, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.StageDurations[stage] += duration
}

// MetricsSnapshot is a point-in-time copy of the tracked metrics, safe to
// pass around and mutate without touching the live tracker.
type MetricsSnapshot struct {
	TotalCompiles      int64
	SuccessfulCompiles int64
	FailedCompiles     int64
	CacheHits          int64
	AverageDuration    time.Duration
	TotalDuration      time.Duration
	StageDurations     map[string]time.Duration
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stages := make(map[string]time.Duration, len(m.StageDurations))
	for stage, d := range m.StageDurations {
		stages[stage] = d
	}

	return MetricsSnapshot{
		TotalCompiles:      m.TotalCompiles,
		SuccessfulCompiles: m.SuccessfulCompiles,
		FailedCompiles:     m.FailedCompiles,
		CacheHits:          m.CacheHits,
		AverageDuration:    m.AverageDuration,
		TotalDuration:      m.TotalDuration,
		StageDurations:     stages,
	}
}

// Reset resets all metrics
func (m *Metrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalCompiles = 0
	m.SuccessfulCompiles = 0
	m.FailedCompiles = 0
	m.CacheHits = 0
	m.AverageDuration = 0
	m.TotalDuration = 0
	m.StageDurations = make(map[string]time.Duration)
}

// GetCacheHitRate returns the cache hit rate as a percentage
func (m *Metrics) GetCacheHitRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalCompiles == 0 {
		return 0.0
	}

	return float64(m.CacheHits) / float64(m.TotalCompiles) * 100.0
}

// GetSuccessRate returns the success rate as a percentage
func (m *Metrics) GetSuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalCompiles == 0 {
		return 0.0
	}

	return float64(m.SuccessfulCompiles) / float64(m.TotalCompiles) * 100.0
}
