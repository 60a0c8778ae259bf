// Package diag defines the diagnostic model shared by the preprocessor,
// lexer, parser and driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     Ranges: PP 1000s, LEX 2000s, SYN 3000s, IO 4000s, PRJ 5000s.
//   - Message – short, actionable text.
//   - Primary – the source.Span pointing at the issue.
//   - Notes – optional secondary spans with extra context.
//
// # Emitting diagnostics
//
// Producers take a Reporter and either call Report directly or go through
// ReportError / ReportWarning and chain WithNote before Emit. BagReporter
// collects into a Bag which supports a size limit, sorting and deduplication.
//
// Package diag performs no formatting or IO; rendering lives in
// internal/diagfmt.
package diag
