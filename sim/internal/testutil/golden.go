// Package testutil provides shared test infrastructure for the oslab engine.
// It holds the golden dataset types and assertion helpers used by the sim
// test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenProcess mirrors sim.ProcessSpec without importing sim.
type GoldenProcess struct {
	PID      int `json:"pid"`
	Arrival  int `json:"arrival"`
	Burst    int `json:"burst"`
	Priority int `json:"priority"`
}

// GoldenSlice mirrors sim.TimelineSlice.
type GoldenSlice struct {
	PID   int `json:"pid"`
	Start int `json:"start"`
	End   int `json:"end"`
	Core  int `json:"core"`
}

// GoldenTestCase represents a single scheduling run with its expected output.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Policy    string          `json:"policy"`
	Cores     int             `json:"cores"`
	Quantum   int             `json:"quantum"`
	Processes []GoldenProcess `json:"processes"`
	Slices    []GoldenSlice   `json:"slices"`
	Metrics   GoldenMetrics   `json:"metrics"`
}

// GoldenMetrics represents the expected aggregate metrics of a golden case.
type GoldenMetrics struct {
	AverageWait       float64 `json:"average_wait"`
	AverageTurnaround float64 `json:"average_turnaround"`
	Makespan          int     `json:"makespan"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
