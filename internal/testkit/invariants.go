package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"rcc/internal/source"
	"rcc/internal/syntax"
	"rcc/internal/token"
)

// CheckTreeInvariants runs the structural checks every parse result must pass:
// 1) the tree's terminals are exactly the input tokens minus the final EOF
// 2) every node span lies inside its parent span and inside file content
// 3) children appear in source order
func CheckTreeInvariants(tree *syntax.Tree, tokens []token.Token, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if err := checkLossless(tree, tokens); err != nil {
		return err
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if tree.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", tree.Span.End, lenContent)
	}
	return checkNode(tree, sf.ID)
}

func checkLossless(tree *syntax.Tree, tokens []token.Token) error {
	want := tokens
	if n := len(want); n > 0 && want[n-1].Kind == token.EOF {
		want = want[:n-1]
	}
	got := tree.Tokens()
	if len(got) != len(want) {
		return fmt.Errorf("tree holds %d tokens, input has %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Kind != want[i].Kind || got[i].Span != want[i].Span {
			return fmt.Errorf("token %d: got %s at %v, want %s at %v",
				i, got[i].Kind, got[i].Span, want[i].Kind, want[i].Span)
		}
	}
	return nil
}

func checkNode(t *syntax.Tree, file source.FileID) error {
	var prevEnd uint32
	for i, c := range t.Children {
		sp := c.Span()
		if sp.File != file {
			return fmt.Errorf("%s child %d: span file mismatch: got=%d want=%d", t.Kind, i, sp.File, file)
		}
		if sp.Start < t.Span.Start || sp.End > t.Span.End {
			// пустые узлы в конце родителя ставятся на следующий токен
			if !(sp.Empty() && sp.Start >= t.Span.End) {
				return fmt.Errorf("%s child %d: span %v outside parent %v", t.Kind, i, sp, t.Span)
			}
		}
		if sp.Start < prevEnd && !sp.Empty() {
			return fmt.Errorf("%s child %d: span %v starts before previous end %d", t.Kind, i, sp, prevEnd)
		}
		if !sp.Empty() {
			prevEnd = sp.End
		}
		if c.Tree != nil {
			if err := checkNode(c.Tree, file); err != nil {
				return err
			}
		}
	}
	return nil
}
