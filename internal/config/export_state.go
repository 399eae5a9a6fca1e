package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// OutputState records the last export written to one output file
type OutputState struct {
	Format      string    `json:"format"`
	Fingerprint string    `json:"fingerprint"`
	Parameters  int       `json:"parameters"`
	LastUpdate  time.Time `json:"last_update"`
}

// ExportState tracks the exports written to an output directory between runs
type ExportState struct {
	Outputs map[string]OutputState `json:"outputs"`
	LastRun time.Time              `json:"last_run"`
	mutex   sync.RWMutex
}

// NewExportState creates an empty export state
func NewExportState() *ExportState {
	return &ExportState{
		Outputs: make(map[string]OutputState),
	}
}

// LoadExportState reads the export state file. A missing file yields an empty state.
func LoadExportState(stateFile string) (*ExportState, error) {
	data, err := os.ReadFile(stateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// First run, return empty state
			return NewExportState(), nil
		}
		return nil, fmt.Errorf("failed to read export state: %w", err)
	}

	state := NewExportState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse export state: %w", err)
	}
	if state.Outputs == nil {
		state.Outputs = make(map[string]OutputState)
	}

	return state, nil
}

// Save writes the export state file
func (es *ExportState) Save(stateFile string) error {
	// Ensure directory exists
	dir := filepath.Dir(stateFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	es.mutex.RLock()
	data, err := json.MarshalIndent(es, "", "  ")
	es.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal export state: %w", err)
	}

	if err := os.WriteFile(stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write export state: %w", err)
	}

	return nil
}

// Update records a written output
func (es *ExportState) Update(path, format, fingerprint string, parameters int) {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	now := time.Now()
	es.Outputs[path] = OutputState{
		Format:      format,
		Fingerprint: fingerprint,
		Parameters:  parameters,
		LastUpdate:  now,
	}
	es.LastRun = now
}

// IsChanged reports whether fingerprint differs from the last export of path.
// Paths that were never exported are changed.
func (es *ExportState) IsChanged(path, fingerprint string) bool {
	es.mutex.RLock()
	defer es.mutex.RUnlock()

	prev, ok := es.Outputs[path]
	return !ok || prev.Fingerprint != fingerprint
}

// Output returns the recorded state of path
func (es *ExportState) Output(path string) (OutputState, bool) {
	es.mutex.RLock()
	defer es.mutex.RUnlock()

	out, ok := es.Outputs[path]
	return out, ok
}

// Paths returns the recorded output paths in sorted order
func (es *ExportState) Paths() []string {
	es.mutex.RLock()
	defer es.mutex.RUnlock()

	paths := make([]string, 0, len(es.Outputs))
	for path := range es.Outputs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// HasPreviousState reports whether any export was recorded
func (es *ExportState) HasPreviousState() bool {
	es.mutex.RLock()
	defer es.mutex.RUnlock()

	return len(es.Outputs) > 0 && !es.LastRun.IsZero()
}

// Clear forgets all recorded exports
func (es *ExportState) Clear() {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	es.Outputs = make(map[string]OutputState)
	es.LastRun = time.Time{}
}
