package trace

import (
	"sync"
	"time"
)

// Heartbeat emits a driver-scope point at a fixed interval while a long
// run is in progress. A trace whose heartbeats keep coming while no span
// ends points at a file the parser is stuck on.
type Heartbeat struct {
	stop chan struct{}
	done sync.WaitGroup
	once sync.Once
}

// StartHeartbeat starts the ticker. status, when non-nil, supplies the
// detail of each beat. A disabled tracer or a non-positive interval
// yields a nil Heartbeat, which is safe to Stop.
func StartHeartbeat(t Tracer, interval time.Duration, parent uint64, status func() string) *Heartbeat {
	if !enabled(t, ScopeDriver) || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{})}
	h.done.Add(1)
	go func() {
		defer h.done.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				detail := ""
				if status != nil {
					detail = status()
				}
				Point(t, ScopeDriver, "heartbeat", detail, parent)
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

// Stop ends the ticker and waits for the goroutine to exit.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.done.Wait()
}
