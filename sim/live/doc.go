// Package live holds the runtime shared by the wall-clock simulators:
// a drainable event queue, a speed-controlled pacer and an actor group
// that owns the running flag, the run context and the run identifier.
package live
