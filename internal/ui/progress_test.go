package ui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"rcc/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	dir := filepath.Join("proj", "src")
	model := NewProgressModel("parse", dir, []string{"a.c", "sub/b.c"}, nil).(*progressModel)

	send := func(rel string, stage driver.Stage, status driver.Status, errs int) {
		model.Update(eventMsg{File: filepath.Join(dir, filepath.FromSlash(rel)), Stage: stage, Status: status, Errors: errs})
	}

	send("a.c", driver.StageLex, driver.StatusStart, 0)
	if view := model.View(); !strings.Contains(view, "lexing") || !strings.Contains(view, "[0/2]") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	send("a.c", driver.StageParse, driver.StatusDone, 0)
	send("sub/b.c", driver.StageParse, driver.StatusDone, 2)
	view := model.View()
	for _, want := range []string{"ok", "2 errors", "[2/2]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	if _, cmd := model.Update(doneMsg{}); cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if !strings.Contains(model.View(), "done: parse") {
		t.Fatalf("expected the done header:\n%s", model.View())
	}
}

func TestProgressModelIgnoresUnknownFiles(t *testing.T) {
	model := NewProgressModel("parse", "d", []string{"a.c"}, nil).(*progressModel)
	if cmd := model.applyEvent(driver.Event{File: "elsewhere.c", Stage: driver.StageParse}); cmd != nil {
		t.Fatalf("expected no command for an unknown file")
	}
	if model.items[0].status != "queued" {
		t.Fatalf("status changed to %q", model.items[0].status)
	}
}

func TestProgressFailedFile(t *testing.T) {
	model := NewProgressModel("parse", "d", []string{"a.c"}, nil).(*progressModel)
	model.applyEvent(driver.Event{File: filepath.Join("d", "a.c"), Stage: driver.StagePreprocess, Status: driver.StatusFailed})
	if !model.items[0].finished || model.items[0].status != "failed" {
		t.Fatalf("unexpected item %+v", model.items[0])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 20); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	// wide runes count as two cells and the result never exceeds width
	if got := truncate("文件文件文件.c", 8); got != "文件..." || runewidth.StringWidth(got) > 8 {
		t.Fatalf("truncate = %q", got)
	}
}
