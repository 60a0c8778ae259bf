// Package lexer turns C source text into tokens.
//
// Lexing is total: every input produces a token stream ending in token.EOF.
// Bytes that fit no lexical category are glued into token.Unknown, and
// malformed literals are reported through Options.Reporter without stopping.
// Whitespace, comments and preprocessor lines starting with '#' are skipped.
package lexer
