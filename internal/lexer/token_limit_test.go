package lexer

import (
	"strings"
	"testing"

	"rcc/internal/diag"
	"rcc/internal/token"
)

func TestTokenTooLongIsUnknownAndLexingContinues(t *testing.T) {
	content := strings.Repeat("a", maxTokenLength+1) + " b"
	bag := diag.NewBag(4)
	lx := New(createFile(content), Options{Reporter: diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Unknown {
		t.Fatalf("expected unknown token, got %v", tok.Kind)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", bag.Items())
	}
	if next := lx.Next(); next.Kind != token.Ident || next.Text != "b" {
		t.Fatalf("expected ident after long token, got %v", next)
	}
}

func TestTokenAtLimitAllowed(t *testing.T) {
	bag := diag.NewBag(1)
	lx := New(createFile(strings.Repeat("b", maxTokenLength)), Options{Reporter: diag.BagReporter{Bag: bag}})

	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("expected ident token, got %v", tok.Kind)
	}
	if bag.HasErrors() {
		t.Fatalf("did not expect diagnostics, got %v", bag.Items())
	}
}
