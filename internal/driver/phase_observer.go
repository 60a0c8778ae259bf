package driver

import "time"

// Stage names one step of the per-file pipeline.
type Stage uint8

const (
	StageLoad Stage = iota
	StagePreprocess
	StageLex
	StageParse
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StagePreprocess:
		return "preprocess"
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Status reports whether a stage started or finished.
type Status uint8

const (
	StatusStart Status = iota
	StatusDone
	// StatusFailed ends the pipeline for the file.
	StatusFailed
)

// Event describes a stage boundary of one file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Elapsed time.Duration
	// Errors is the number of error diagnostics collected so far, set on
	// StatusDone and StatusFailed.
	Errors int
}

// Observer receives stage events.
type Observer func(Event)

func (o Observer) emit(ev Event) {
	if o != nil {
		o(ev)
	}
}
