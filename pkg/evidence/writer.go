package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Writer writes a run's evidence bundle to baseDir/runID. Layout:
//
//	run.json                 run-level metadata
//	trials/NNN-<cond>.json   one file per trial (study mode)
//	comparisons.json         endpoint comparisons (compare mode)
//	verdict.json             StudyVerdict
//	summary.json             ComparisonSummary
type Writer struct {
	baseDir string
	runDir  string
}

// NewRunID returns a sortable run identifier.
func NewRunID() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
}

// NewWriter creates a writer rooted at baseDir/runID.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, "trials"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &Writer{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the directory this writer writes into.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes the run-level metadata.
func (w *Writer) WriteRun(record RunRecord) error {
	return w.writeJSON(filepath.Join(w.runDir, "run.json"), record)
}

// WriteTrial writes one trial, named by pair index and condition so the
// bundle stays readable after truncation.
func (w *Writer) WriteTrial(pairIndex int, trial TrialResult) error {
	name := fmt.Sprintf("%03d-%s.json", pairIndex, trial.Condition)
	return w.writeJSON(filepath.Join(w.runDir, "trials", name), trial)
}

// WriteComparisons writes the full endpoint comparison list.
func (w *Writer) WriteComparisons(comparisons []EndpointComparison) error {
	return w.writeJSON(filepath.Join(w.runDir, "comparisons.json"), comparisons)
}

// WriteVerdict writes the study verdict.
func (w *Writer) WriteVerdict(verdict *StudyVerdict) error {
	return w.writeJSON(filepath.Join(w.runDir, "verdict.json"), verdict)
}

// WriteSummary writes the comparison summary.
func (w *Writer) WriteSummary(summary *ComparisonSummary) error {
	return w.writeJSON(filepath.Join(w.runDir, "summary.json"), summary)
}

func (w *Writer) writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
