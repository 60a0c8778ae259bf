// Package token defines C11 lexical token kinds for the rcc front-end.
// Invariants:
//   - Kind is a closed set; Unknown covers any input the lexer cannot classify
//     and is never a failure state.
//   - EOF is a sentinel appended once at the end of every token slice.
//   - Kind values are dense and zero-based; NumKinds is the size of the alphabet.
//   - Token.Text is the exact source text covered by Token.Span.
package token
