package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario holds a complete run description, loadable from a YAML file:
// a process set with the policy to schedule it, and live simulator settings.
// Nil pointer fields mean "not set in YAML" and fall back to defaults.
type Scenario struct {
	Scheduler  ScheduleConfig   `yaml:"scheduler"`
	Processes  []ProcessSpec    `yaml:"processes"`
	Simulators SimulatorsConfig `yaml:"simulators"`
}

// SimulatorsConfig holds settings shared by the live simulators plus
// per-simulator actor counts.
type SimulatorsConfig struct {
	Speed     *float64        `yaml:"speed"`      // initial speed factor (1.0 = nominal pacing)
	TimeScale *float64        `yaml:"time_scale"` // multiplier on every base pacing delay
	Jitter    *float64        `yaml:"jitter"`     // relative pacing jitter in [0, 1)
	Seed      int64           `yaml:"seed"`       // seeds pacing jitter
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	IPC       IPCConfig       `yaml:"ipc"`
	Semaphore SemaphoreConfig `yaml:"semaphore"`
}

// LifecycleConfig holds process-lifecycle simulator settings.
type LifecycleConfig struct {
	Processes int `yaml:"processes"`
}

// IPCConfig holds bounded-buffer simulator settings.
type IPCConfig struct {
	Producers int `yaml:"producers"`
	Consumers int `yaml:"consumers"`
}

// SemaphoreConfig holds counting-semaphore simulator settings.
type SemaphoreConfig struct {
	Capacity  int `yaml:"capacity"`
	Producers int `yaml:"producers"`
	Consumers int `yaml:"consumers"`
}

// Simulator defaults applied by WithDefaults.
const (
	DefaultLifecycleProcesses = 6
	DefaultIPCProducers       = 1
	DefaultIPCConsumers       = 1
	DefaultSemaphoreCapacity  = 3
	DefaultSemaphoreProducers = 2
	DefaultSemaphoreConsumers = 2
)

// LoadScenario reads and parses a YAML scenario file.
// Uses strict field checking so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// DefaultScenario returns the scenario used when no file is given:
// the classic three-process set under fcfs on one core.
func DefaultScenario() *Scenario {
	sc := &Scenario{
		Scheduler: ScheduleConfig{Policy: PolicyFCFS, Cores: 1, Quantum: 2},
		Processes: DefaultProcessSpecs(),
	}
	return sc.WithDefaults()
}

// WithDefaults fills unset fields in place and returns the scenario.
// An empty process list is replaced by DefaultProcessSpecs.
func (sc *Scenario) WithDefaults() *Scenario {
	if sc.Scheduler.Policy == "" {
		sc.Scheduler.Policy = PolicyFCFS
	}
	if sc.Scheduler.Cores == 0 {
		sc.Scheduler.Cores = 1
	}
	if sc.Scheduler.Quantum == 0 {
		sc.Scheduler.Quantum = 2
	}
	if len(sc.Processes) == 0 {
		sc.Processes = DefaultProcessSpecs()
	}
	s := &sc.Simulators
	if s.Speed == nil {
		s.Speed = float64Ptr(1.0)
	}
	if s.TimeScale == nil {
		s.TimeScale = float64Ptr(1.0)
	}
	if s.Jitter == nil {
		s.Jitter = float64Ptr(0)
	}
	if s.Lifecycle.Processes == 0 {
		s.Lifecycle.Processes = DefaultLifecycleProcesses
	}
	if s.IPC.Producers == 0 {
		s.IPC.Producers = DefaultIPCProducers
	}
	if s.IPC.Consumers == 0 {
		s.IPC.Consumers = DefaultIPCConsumers
	}
	if s.Semaphore.Capacity == 0 {
		s.Semaphore.Capacity = DefaultSemaphoreCapacity
	}
	if s.Semaphore.Producers == 0 {
		s.Semaphore.Producers = DefaultSemaphoreProducers
	}
	if s.Semaphore.Consumers == 0 {
		s.Semaphore.Consumers = DefaultSemaphoreConsumers
	}
	return sc
}

// Validate checks policy names, the process set and parameter ranges.
func (sc *Scenario) Validate() error {
	if !IsValidScheduler(sc.Scheduler.Policy) {
		return fmt.Errorf("unknown scheduler %q", sc.Scheduler.Policy)
	}
	if sc.Scheduler.Cores < 0 {
		return fmt.Errorf("cores must be non-negative, got %d", sc.Scheduler.Cores)
	}
	if sc.Scheduler.Quantum < 0 {
		return fmt.Errorf("quantum must be non-negative, got %d", sc.Scheduler.Quantum)
	}
	if err := ValidateSpecs(sc.Processes); err != nil {
		return err
	}

	s := sc.Simulators
	if s.Speed != nil && *s.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %f", *s.Speed)
	}
	if s.TimeScale != nil && *s.TimeScale <= 0 {
		return fmt.Errorf("time_scale must be positive, got %f", *s.TimeScale)
	}
	if s.Jitter != nil && (*s.Jitter < 0 || *s.Jitter >= 1) {
		return fmt.Errorf("jitter must be in [0, 1), got %f", *s.Jitter)
	}
	if s.Lifecycle.Processes < 0 {
		return fmt.Errorf("lifecycle.processes must be non-negative, got %d", s.Lifecycle.Processes)
	}
	if s.IPC.Producers < 0 || s.IPC.Consumers < 0 {
		return fmt.Errorf("ipc producers/consumers must be non-negative, got %d/%d",
			s.IPC.Producers, s.IPC.Consumers)
	}
	if s.Semaphore.Capacity < 0 {
		return fmt.Errorf("semaphore.capacity must be non-negative, got %d", s.Semaphore.Capacity)
	}
	if s.Semaphore.Producers < 0 || s.Semaphore.Consumers < 0 {
		return fmt.Errorf("semaphore producers/consumers must be non-negative, got %d/%d",
			s.Semaphore.Producers, s.Semaphore.Consumers)
	}
	return nil
}

func float64Ptr(v float64) *float64 { return &v }
