package export

import (
	"sync"
	"time"
)

// Metrics represents the metrics for the exporter
type Metrics struct {
	Renders         int64
	Written         int64
	Skipped         int64
	Failed          int64
	AverageDuration time.Duration
	LastUpdate      time.Time
	mutex           sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdate: time.Now(),
	}
}

// RecordExport records the outcome of one export
func (m *Metrics) RecordExport(duration time.Duration, written, skipped, failed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Renders++
	switch {
	case failed:
		m.Failed++
	case skipped:
		m.Skipped++
	case written:
		m.Written++
	}

	if m.AverageDuration == 0 {
		m.AverageDuration = duration
	} else {
		m.AverageDuration = (m.AverageDuration + duration) / 2
	}

	m.LastUpdate = time.Now()
}

// GetStats returns the metrics statistics
func (m *Metrics) GetStats() (int64, int64, int64, int64, time.Duration) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.Renders, m.Written, m.Skipped, m.Failed, m.AverageDuration
}
