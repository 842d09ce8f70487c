// Package sim provides the deterministic CPU scheduling engine of oslab.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - process.go: ProcessSpec input, TimelineSlice output and spec-set validation
//   - scheduler.go: the policies (fcfs, sjf, srtf, priority, rr) and the Schedule entry point
//   - metrics.go: per-process finish/turnaround/wait and run averages
//
// # Architecture
//
// The engine is pure: Schedule never mutates its input and produces the same
// timeline for the same specs and config. Live, wall-clock simulators sit in
// sub-packages and share the sim/live runtime:
//   - sim/trace/: dispatch decision recording and summaries
//   - sim/live/: event queue, speed-controlled pacer and actor group
//   - sim/lifecycle/: process state machine simulator
//   - sim/ipc/: bounded-buffer producer/consumer simulator
//   - sim/semaphore/: counting semaphore simulator
//
// Scenario files (bundle.go) and the workload generator (workload_config.go)
// feed both halves; Seeds (rng.go) keeps their randomness isolated.
package sim
