package testkit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus runs a table driven test whose table is a directory of files.
// Every file matching Pattern under Root is a case; each Output is compared
// against a sibling file named "<case>.<Extension>". A missing output file
// stands for an empty expectation.
type Corpus struct {
	// Root is relative to the directory of the calling test file.
	Root string
	// Pattern selects case files, e.g. "**/*.c".
	Pattern string
	// Refresh names an environment variable holding a glob. Matching cases
	// have their output files rewritten instead of compared.
	Refresh string
	Outputs []Output
	// Test runs one case and returns one string per Output.
	Test func(t *testing.T, path, text string) []string
}

// Output is one compared result of a corpus case.
type Output struct {
	Extension string
	// Compare returns "" on match. Nil means byte equality with a diff.
	Compare func(got, want string) string
}

// Run executes every case as a subtest.
func (c Corpus) Run(t *testing.T) {
	t.Helper()
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	cases, err := doublestar.Glob(os.DirFS(root), c.Pattern)
	if err != nil {
		t.Fatalf("testkit: bad pattern %q: %v", c.Pattern, err)
	}
	if len(cases) == 0 {
		t.Fatalf("testkit: no files match %q under %s", c.Pattern, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if refresh != "" && !doublestar.ValidatePattern(refresh) {
			t.Fatalf("testkit: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}

	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(root, filepath.FromSlash(name))
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("testkit: reading %s: %v", path, err)
			}
			results := c.Test(t, path, string(data))
			if len(results) != len(c.Outputs) {
				t.Fatalf("testkit: got %d results for %d outputs", len(results), len(c.Outputs))
			}
			rewrite := false
			if refresh != "" {
				rewrite, _ = doublestar.Match(refresh, name)
			}
			for i, out := range c.Outputs {
				outPath := fmt.Sprint(path, ".", out.Extension)
				if rewrite {
					if err := writeOutput(outPath, results[i]); err != nil {
						t.Errorf("testkit: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(outPath)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("testkit: reading %s: %v", outPath, err)
					continue
				}
				cmp := out.Compare
				if cmp == nil {
					cmp = Diff
				}
				if msg := cmp(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %s:\n%s", outPath, msg)
				}
			}
		})
	}
}

func writeOutput(path, text string) error {
	if text == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(text), 0o600)
}

// Diff returns a unified diff of want against got, or "" when they match.
func Diff(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return strings.TrimRight(diff, "\n")
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("testkit: could not determine the test file's directory")
	}
	return filepath.Dir(file)
}
