package sim

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
)

// GeneratorConfig bounds randomly generated process specs.
type GeneratorConfig struct {
	Count       int `yaml:"count"`        // Number of processes
	MaxArrival  int `yaml:"max_arrival"`  // Arrivals drawn from [0, MaxArrival]
	MaxBurst    int `yaml:"max_burst"`    // Bursts drawn from [1, MaxBurst]
	MaxPriority int `yaml:"max_priority"` // Priorities drawn from [0, MaxPriority]
}

// Validate checks generator bounds.
func (c GeneratorConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", c.Count)
	}
	if c.MaxArrival < 0 {
		return fmt.Errorf("max_arrival must be non-negative, got %d", c.MaxArrival)
	}
	if c.MaxBurst < 1 {
		return fmt.Errorf("max_burst must be >= 1, got %d", c.MaxBurst)
	}
	if c.MaxPriority < 0 {
		return fmt.Errorf("max_priority must be non-negative, got %d", c.MaxPriority)
	}
	return nil
}

// GenerateSpecs draws a valid spec set from rng. PIDs are 1..Count assigned
// in arrival order. Deterministic for a given rng state and config.
func GenerateSpecs(rng *rand.Rand, cfg GeneratorConfig) ([]ProcessSpec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	specs := make([]ProcessSpec, cfg.Count)
	for i := range specs {
		specs[i] = ProcessSpec{
			Arrival:  rng.Intn(cfg.MaxArrival + 1),
			Burst:    1 + rng.Intn(cfg.MaxBurst),
			Priority: rng.Intn(cfg.MaxPriority + 1),
		}
	}
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].Arrival < specs[j].Arrival
	})
	for i := range specs {
		specs[i].PID = i + 1
	}
	return specs, nil
}

// csvHeader is the expected (case-insensitive) header of a spec CSV file.
var csvHeader = []string{"pid", "arrival", "burst", "priority"}

// LoadSpecsCSV reads a spec set from a CSV file with header
// "pid,arrival,burst,priority". The result is validated.
func LoadSpecsCSV(path string) ([]ProcessSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spec csv: %w", err)
	}
	defer file.Close()
	return ReadSpecsCSV(file)
}

// ReadSpecsCSV parses spec rows from r; see LoadSpecsCSV.
func ReadSpecsCSV(r io.Reader) ([]ProcessSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), csvHeader[i]) {
			return nil, fmt.Errorf("csv header column %d: got %q, want %q", i, col, csvHeader[i])
		}
	}

	var specs []ProcessSpec
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", row, err)
		}
		var fields [4]int
		for i, raw := range record {
			v, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("csv row %d column %s: %w", row, csvHeader[i], err)
			}
			fields[i] = v
		}
		specs = append(specs, ProcessSpec{PID: fields[0], Arrival: fields[1], Burst: fields[2], Priority: fields[3]})
	}
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}
	return specs, nil
}
