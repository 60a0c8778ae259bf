package observ

import (
	"fmt"
	"io"
	"time"
)

// Phase is one timed stage of a pipeline run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	open  bool
}

// Timer records stage durations for a single file. It is not safe for
// concurrent use; each pipeline unit owns its own.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 4), now: time.Now}
}

// Begin opens a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now(), open: true})
	return len(t.phases) - 1
}

// End closes the phase at idx. Unknown or already closed indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) || !t.phases[idx].open {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
	p.open = false
}

// PhaseReport is the serialisable view of a closed phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the timing summary attached to driver results.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the closed phases; phases still open are skipped.
func (t *Timer) Report() Report {
	var report Report
	for _, p := range t.phases {
		if p.open {
			continue
		}
		ms := millis(p.Dur)
		report.Phases = append(report.Phases, PhaseReport{Name: p.Name, DurationMS: ms, Note: p.Note})
		report.TotalMS += ms
	}
	return report
}

// Merge sums reports phase by phase, keeping the order in which phase
// names first appear. Notes are replaced by the number of runs that
// contributed to the phase.
func Merge(reports ...Report) Report {
	var (
		out   Report
		index = make(map[string]int)
		runs  []int
	)
	for _, r := range reports {
		for _, p := range r.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
				runs = append(runs, 0)
			}
			out.Phases[i].DurationMS += p.DurationMS
			runs[i]++
		}
		out.TotalMS += r.TotalMS
	}
	for i := range out.Phases {
		out.Phases[i].Note = fmt.Sprintf("%d runs", runs[i])
	}
	return out
}

// Write prints the report as an aligned table headed by label.
func (r Report) Write(w io.Writer, label string) error {
	if _, err := fmt.Fprintf(w, "timings for %s:\n", label); err != nil {
		return err
	}
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-12s %9.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  " + p.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
