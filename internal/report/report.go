// Package report collects removal records and writes the JSON audit report.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// RemovalRecord describes one deleted volume. Records are immutable once
// appended and a volume appears at most once per run.
type RemovalRecord struct {
	VolumeID    string    `json:"volume_id"`
	VolumeType  string    `json:"volume_type"`
	SizeGiB     int64     `json:"size"`
	CreateTime  time.Time `json:"create_time"`
	RemovalTime time.Time `json:"removal_time"`
}

// Log is an append-only removal log safe for concurrent deletion workers
type Log struct {
	mu      sync.Mutex
	records []RemovalRecord
}

// Append adds a record to the log
func (l *Log) Append(r RemovalRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of the appended records
func (l *Log) Records() []RemovalRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]RemovalRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of appended records
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Report maps account ID to region to the removal records of one run
type Report map[string]map[string][]RemovalRecord

// New creates an empty report
func New() Report {
	return make(Report)
}

// EnsureAccount adds an account entry so scanned accounts appear in the
// report even when every region was skipped.
func (r Report) EnsureAccount(accountID string) {
	if _, ok := r[accountID]; !ok {
		r[accountID] = make(map[string][]RemovalRecord)
	}
}

// AddRegion records the removals of one account/region pass
func (r Report) AddRegion(accountID, region string, records []RemovalRecord) {
	r.EnsureAccount(accountID)
	r[accountID][region] = records
}

// TotalRemoved returns the number of records across all accounts and regions
func (r Report) TotalRemoved() int {
	total := 0
	for _, regions := range r {
		for _, records := range regions {
			total += len(records)
		}
	}
	return total
}

// WriteFile writes the report as indented JSON. Map keys marshal in sorted
// order, so output is stable across runs.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	return nil
}
