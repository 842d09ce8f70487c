package trace

import (
	"testing"
)

func TestScheduleTrace_RecordDispatch_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewScheduleTrace(TraceConfig{Level: TraceLevelDecisions, Policy: "sjf"})

	// WHEN a dispatch record is recorded
	st.RecordDispatch(DispatchRecord{
		Clock:    5,
		PID:      3,
		Core:     0,
		Duration: 2,
		Ready:    []int{3, 2},
		Reason:   ReasonShortestBurst,
	})

	// THEN the trace contains one dispatch record with correct data
	if len(st.Dispatches) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(st.Dispatches))
	}
	if st.Dispatches[0].PID != 3 {
		t.Errorf("expected pid 3, got %d", st.Dispatches[0].PID)
	}
	if st.Dispatches[0].Reason != ReasonShortestBurst {
		t.Errorf("expected reason shortest-burst, got %s", st.Dispatches[0].Reason)
	}
}

func TestScheduleTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewScheduleTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN multiple records are added
	st.RecordDispatch(DispatchRecord{Clock: 0, PID: 1, Duration: 2})
	st.RecordDispatch(DispatchRecord{Clock: 2, PID: 2, Duration: 2})
	st.RecordIdleJump(IdleJumpRecord{From: 4, To: 6})

	// THEN order is preserved
	if len(st.Dispatches) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(st.Dispatches))
	}
	if st.Dispatches[0].PID != 1 || st.Dispatches[1].PID != 2 {
		t.Error("dispatch order not preserved")
	}
	if len(st.IdleJumps) != 1 || st.IdleJumps[0].To != 6 {
		t.Error("idle jump record mismatch")
	}
}

func TestScheduleTrace_Enabled(t *testing.T) {
	var nilTrace *ScheduleTrace
	if nilTrace.Enabled() {
		t.Error("nil trace must not be enabled")
	}
	if NewScheduleTrace(TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("level none must not be enabled")
	}
	if !NewScheduleTrace(TraceConfig{Level: TraceLevelDecisions}).Enabled() {
		t.Error("level decisions must be enabled")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"decisions", true},
		{"", true}, // empty defaults to none
		{"detailed", false},
		{"foobar", false},
		{"NONE", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}
