package system

import (
	"testing"
	"time"
)

type recorder struct {
	phase Phase
	name  string
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{PhaseCleanup, "cleanup", &log})
	r.Register(recorder{PhaseRender, "render", &log})
	r.Register(recorder{PhaseInput, "input", &log})
	r.Register(recorder{PhaseRender, "render2", &log})

	r.Tick(16 * time.Millisecond)

	want := []string{"input", "render", "render2", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
	if r.Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", r.Frames())
	}

	log = log[:0]
	r.TickPhase(PhaseRender, 0)
	if len(log) != 2 || r.Frames() != 1 {
		t.Fatalf("TickPhase ran %v, frames=%d", log, r.Frames())
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseScript.String() != "script" || Phase(42).String() != "unknown" {
		t.Fatalf("unexpected phase names")
	}
}
