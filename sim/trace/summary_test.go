package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewScheduleTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalDispatches != 0 {
		t.Errorf("expected 0 dispatches, got %d", summary.TotalDispatches)
	}
	if summary.ContextSwitches != 0 || summary.IdleJumps != 0 || summary.IdleTime != 0 {
		t.Error("expected zero switches and idle statistics")
	}
	if len(summary.DispatchesPerPID) != 0 {
		t.Error("expected empty per-pid distribution")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary == nil || summary.TotalDispatches != 0 || summary.DispatchesPerPID == nil {
		t.Fatalf("expected non-nil zero summary, got %+v", summary)
	}
}

func TestSummarize_ContextSwitches_CountedPerCore(t *testing.T) {
	// GIVEN core 0 running 1,1,2,1 and core 1 running 3,3
	st := NewScheduleTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDispatch(DispatchRecord{Clock: 0, PID: 1, Core: 0, Duration: 1})
	st.RecordDispatch(DispatchRecord{Clock: 0, PID: 3, Core: 1, Duration: 2})
	st.RecordDispatch(DispatchRecord{Clock: 1, PID: 1, Core: 0, Duration: 1})
	st.RecordDispatch(DispatchRecord{Clock: 2, PID: 2, Core: 0, Duration: 1})
	st.RecordDispatch(DispatchRecord{Clock: 2, PID: 3, Core: 1, Duration: 2})
	st.RecordDispatch(DispatchRecord{Clock: 3, PID: 1, Core: 0, Duration: 1})

	// WHEN summarized
	summary := Summarize(st)

	// THEN switches on core 0 are 1→2 and 2→1; core 1 never switches
	if summary.ContextSwitches != 2 {
		t.Errorf("expected 2 context switches, got %d", summary.ContextSwitches)
	}
	if summary.DispatchesPerPID[1] != 3 || summary.DispatchesPerPID[2] != 1 || summary.DispatchesPerPID[3] != 2 {
		t.Errorf("unexpected per-pid counts: %v", summary.DispatchesPerPID)
	}
}

func TestSummarize_IdleJumps_SumsSkippedTime(t *testing.T) {
	// GIVEN two idle gaps of 3 and 4 ticks
	st := NewScheduleTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordIdleJump(IdleJumpRecord{From: 0, To: 3})
	st.RecordIdleJump(IdleJumpRecord{From: 5, To: 9})

	// WHEN summarized
	summary := Summarize(st)

	// THEN idle time is the sum of the gaps
	if summary.IdleJumps != 2 {
		t.Errorf("expected 2 idle jumps, got %d", summary.IdleJumps)
	}
	if summary.IdleTime != 7 {
		t.Errorf("expected idle time 7, got %d", summary.IdleTime)
	}
}
