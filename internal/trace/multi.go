package trace

import "errors"

// MultiTracer copies every event to each of its targets.
type MultiTracer struct {
	targets []Tracer
	level   Level
}

func NewMultiTracer(level Level, targets ...Tracer) *MultiTracer {
	return &MultiTracer{targets: targets, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, target := range t.targets {
		// each target stamps its own Seq
		cp := *ev
		target.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }

func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

func (t *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(t.targets))
	for _, target := range t.targets {
		errs = append(errs, fn(target))
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level { return t.level }

func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// Ring returns the first ring target.
func (t *MultiTracer) Ring() *RingTracer {
	for _, target := range t.targets {
		if r, ok := target.(*RingTracer); ok {
			return r
		}
	}
	return nil
}
