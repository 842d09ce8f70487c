package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every dispatch decision and idle jump.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level  TraceLevel
	Policy string // policy name the trace was recorded under
}

// ScheduleTrace collects decision records during one scheduling run.
type ScheduleTrace struct {
	Config     TraceConfig
	Dispatches []DispatchRecord
	IdleJumps  []IdleJumpRecord
}

// NewScheduleTrace creates a ScheduleTrace ready for recording.
func NewScheduleTrace(config TraceConfig) *ScheduleTrace {
	return &ScheduleTrace{
		Config:     config,
		Dispatches: make([]DispatchRecord, 0),
		IdleJumps:  make([]IdleJumpRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on nil.
func (st *ScheduleTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordDispatch appends a dispatch decision record.
func (st *ScheduleTrace) RecordDispatch(record DispatchRecord) {
	st.Dispatches = append(st.Dispatches, record)
}

// RecordIdleJump appends an idle-gap record.
func (st *ScheduleTrace) RecordIdleJump(record IdleJumpRecord) {
	st.IdleJumps = append(st.IdleJumps, record)
}
