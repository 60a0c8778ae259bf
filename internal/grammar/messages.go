package grammar

import (
	"strings"

	"rcc/internal/diag"
)

// Code classifies a parse error message produced by this grammar.
func Code(msg string) diag.Code {
	what, found := strings.CutPrefix(msg, "expected ")
	if !found {
		if strings.HasPrefix(msg, "type specifier missing") {
			return diag.SynExpectType
		}
		return diag.SynError
	}
	what, _, _ = strings.Cut(what, ", found")
	switch what {
	case "';'":
		return diag.SynExpectSemicolon
	case "expression", "initializer":
		return diag.SynExpectExpression
	case "declarator":
		return diag.SynExpectDeclarator
	case "statement", "statement or declaration":
		return diag.SynExpectStatement
	case "type name", "parameter declaration":
		return diag.SynExpectType
	case "identifier", "identifier or '{'", "enumerator":
		return diag.SynExpectIdentifier
	case "')'", "']'", "'}'":
		return diag.SynUnclosedDelimiter
	case "declaration", "member declaration":
		return diag.SynExpectDeclaration
	}
	return diag.SynUnexpectedToken
}
