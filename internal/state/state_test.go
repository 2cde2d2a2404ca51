package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Paintersrp/zortex/internal/config"
)

func writeNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func newTestState(t *testing.T, dir string) *State {
	t.Helper()
	s, err := FromWorkspace(config.NewWorkspace(dir), ":memory:", nil)
	if err != nil {
		t.Fatalf("FromWorkspace returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFromWorkspaceWiresSearchAndHistory(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "recipes.zortex", "@@Recipes\n\n# Breakfast\nEggs and toast\n")
	writeNote(t, dir, "ignored.md", "@@Ignored\n")

	s := newTestState(t, dir)

	results, err := s.Engine.Search([]string{"breakfast"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) == 0 || results[0].Path != path {
		t.Fatalf("expected a hit in %s, got %+v", path, results)
	}

	if _, err := s.History.Record(results[0].Selection([]string{"breakfast"})); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if s.History.Len() != 1 {
		t.Fatalf("expected one history entry, got %d", s.History.Len())
	}

	if docs := s.Index.Stats().Documents; docs != 1 {
		t.Fatalf("expected one indexed document, got %d", docs)
	}
}

func TestFromWorkspaceRejectsEmptyNotesDir(t *testing.T) {
	if _, err := FromWorkspace(config.NewWorkspace(""), ":memory:", nil); err == nil {
		t.Fatalf("expected an error for an empty notes dir")
	}
}

func TestWatchQueuesChangedNotes(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "a.zortex", "@@A\n")

	s := newTestState(t, dir)
	if err := s.Watch(); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	writeNote(t, dir, "b.zortex", "@@B\n")

	deadline := time.Now().Add(5 * time.Second)
	for s.Index.Stats().Pending == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the watcher to queue an update")
		}
		time.Sleep(20 * time.Millisecond)
	}

	docs, err := s.Index.Documents()
	if err != nil {
		t.Fatalf("Documents returned error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected both notes after flush, got %d", len(docs))
	}
}
