// Package trace provides a tracing subsystem for the rcc front-end.
//
// Tracing follows a file through the pipeline (read, preprocess, lex, parse,
// build) and, at debug level, every grammar rule the parser enters. It is the
// tool of choice when a grammar change makes the parser slow or trips the
// engine's loop guard.
//
// # Usage
//
//	rcc parse --trace=- --trace-level=phase file.c
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer, dumped when the parser panics
//   - MultiTracer: fans out to several tracers
//   - Heartbeat: periodic driver points during directory runs
//
// # Levels and scopes
//
// LevelPhase emits driver and pass boundaries, LevelDetail adds per-file
// events and LevelDebug adds rule-level ScopeNode events.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "parse")
//	defer span.End("")
package trace
