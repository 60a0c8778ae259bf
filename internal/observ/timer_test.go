package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReportSkipsOpenPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	lex := tm.Begin("lex")
	tm.End(lex, "12 tokens")
	tm.Begin("parse")

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("expected 1 closed phase, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "lex" || r.Phases[0].Note != "12 tokens" {
		t.Fatalf("unexpected phase %+v", r.Phases[0])
	}
	if r.Phases[0].DurationMS != 1 || r.TotalMS != 1 {
		t.Fatalf("expected 1ms, got %v / %v", r.Phases[0].DurationMS, r.TotalMS)
	}
}

func TestTimerEndIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "x")
	idx := tm.Begin("load")
	tm.End(idx, "first")
	tm.End(idx, "second")
	if got := tm.Report().Phases[0].Note; got != "first" {
		t.Fatalf("phase closed twice: note %q", got)
	}
}

func TestMerge(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "lex", DurationMS: 1}, {Name: "parse", DurationMS: 2}}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "preprocess", DurationMS: 1}, {Name: "lex", DurationMS: 4}}}

	m := Merge(a, b)
	if m.TotalMS != 8 {
		t.Fatalf("total = %v", m.TotalMS)
	}
	want := []PhaseReport{
		{Name: "lex", DurationMS: 5, Note: "2 runs"},
		{Name: "parse", DurationMS: 2, Note: "1 runs"},
		{Name: "preprocess", DurationMS: 1, Note: "1 runs"},
	}
	if len(m.Phases) != len(want) {
		t.Fatalf("phases = %+v", m.Phases)
	}
	for i := range want {
		if m.Phases[i] != want[i] {
			t.Errorf("phase %d = %+v, want %+v", i, m.Phases[i], want[i])
		}
	}
}

func TestReportWrite(t *testing.T) {
	var sb strings.Builder
	r := Report{TotalMS: 2.5, Phases: []PhaseReport{{Name: "lex", DurationMS: 2.5, Note: "cached"}}}
	if err := r.Write(&sb, "a.c"); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"timings for a.c:", "lex", "2.50 ms  cached", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
