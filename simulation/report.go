package simulation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0"

// Report is the serializable outcome of a batch, with enough of its setup to
// reproduce it.
type Report struct {
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Strategy  string          `json:"strategy"`
	Players   int             `json:"players"`
	Means     []float64       `json:"means"`
	Seed      uint64          `json:"seed"`
	Stats     AggregatedStats `json:"stats"`
}

// NewReport wraps stats with the batch setup.
func NewReport(cfg BatchConfig, seed uint64, stats AggregatedStats) *Report {
	return &Report{
		Version:   ReportVersion,
		Timestamp: time.Now().UTC(),
		Strategy:  cfg.Kind.String(),
		Players:   cfg.Players,
		Means:     append([]float64(nil), cfg.Means...),
		Seed:      seed,
		Stats:     stats,
	}
}

// SaveReport writes r as JSON to path.
func SaveReport(path string, r *Report) error {
	if r == nil {
		return fmt.Errorf("no report to save")
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := sonnet.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes to a temp file first, then renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}

// SaveResult writes the per-round record of a single simulation as JSON.
func SaveResult(path string, res *Result) error {
	if res == nil {
		return fmt.Errorf("no result to save")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}
	data, err := sonnet.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// LoadReport reads a report written by SaveReport.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	if err := sonnet.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &r, nil
}
