package index

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
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

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	if err := os.Chtimes(path, at, at); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func newTestIndex(dir string, opts ...Option) *Index {
	return New(NewFSSource(dir, []string{".zortex"}, []string{"archive"}), opts...)
}

func TestGetCachesUntilModified(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "calc.zortex", "@@Calculus\n# Limits\n")
	touch(t, path, time.Unix(1_700_000_000, 0))

	ix := newTestIndex(dir)
	first, err := ix.Get(path)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if first.Title() != "Calculus" {
		t.Fatalf("expected article name Calculus, got %q", first.Title())
	}

	again, err := ix.Get("calc.zortex")
	if err != nil {
		t.Fatalf("Get with relative path returned error: %v", err)
	}
	if again != first {
		t.Fatalf("expected cached document to be reused")
	}

	writeNote(t, dir, "calc.zortex", "@@Analysis\n# Limits\n")
	touch(t, path, time.Unix(1_700_000_100, 0))

	updated, err := ix.Get(path)
	if err != nil {
		t.Fatalf("Get after change returned error: %v", err)
	}
	if updated == first || updated.Title() != "Analysis" {
		t.Fatalf("expected reparsed document, got %q", updated.Title())
	}
}

func TestGetRejectsPathsOutsideCorpus(t *testing.T) {
	dir := t.TempDir()
	txt := writeNote(t, dir, "notes.txt", "@@Nope")
	archived := writeNote(t, dir, "archive/old.zortex", "@@Old")

	ix := newTestIndex(dir)
	for _, path := range []string{txt, archived} {
		if _, err := ix.Get(path); !errors.Is(err, ErrNotIndexed) {
			t.Fatalf("expected ErrNotIndexed for %s, got %v", path, err)
		}
	}
}

func TestDocumentsSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "a.zortex", "@@Alpha")
	writeNote(t, dir, "b.zortex", "@@Beta")
	writeNote(t, dir, ".hidden/c.zortex", "@@Hidden")
	writeNote(t, dir, "archive/d.zortex", "@@Archived")

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	src := &flakySource{FSSource: NewFSSource(dir, []string{".zortex"}, []string{"archive"}), fail: "b.zortex"}
	ix := New(src, WithLogger(log))

	docs, err := ix.Documents()
	if err != nil {
		t.Fatalf("Documents returned error: %v", err)
	}
	if len(docs) != 1 || docs[0].Title() != "Alpha" {
		t.Fatalf("expected only Alpha to load, got %+v", docs)
	}
	if !strings.Contains(logs.String(), "skipping unreadable file") {
		t.Fatalf("expected warning to be logged, got %q", logs.String())
	}
	if got := ix.Stats().Skipped; got != 1 {
		t.Fatalf("expected 1 skipped file, got %d", got)
	}
}

type flakySource struct {
	*FSSource
	fail string
}

func (s *flakySource) Read(path string) ([]byte, error) {
	if filepath.Base(path) == s.fail {
		return nil, os.ErrPermission
	}
	return s.FSSource.Read(path)
}

func TestQueueUpdateAppliesOnFlush(t *testing.T) {
	dir := t.TempDir()
	keep := writeNote(t, dir, "keep.zortex", "@@Keep")
	gone := writeNote(t, dir, "gone.zortex", "@@Gone")
	touch(t, keep, time.Unix(1_700_000_000, 0))

	ix := newTestIndex(dir)
	if err := ix.Refresh(); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := len(ix.All()); got != 2 {
		t.Fatalf("expected 2 cached documents, got %d", got)
	}

	writeNote(t, dir, "keep.zortex", "@@Kept")
	touch(t, keep, time.Unix(1_700_000_500, 0))
	if err := os.Remove(gone); err != nil {
		t.Fatalf("remove: %v", err)
	}

	ix.QueueUpdate("keep.zortex")
	ix.QueueUpdate(keep)
	ix.QueueUpdate("gone.zortex")
	if got := ix.Stats().Pending; got != 2 {
		t.Fatalf("expected duplicate updates to coalesce into 2, got %d", got)
	}

	if err := ix.Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}

	all := ix.All()
	if len(all) != 1 || all[0].Title() != "Kept" {
		t.Fatalf("expected only the updated document, got %+v", all)
	}
	if got := ix.Stats().Pending; got != 0 {
		t.Fatalf("expected pending queue to be drained, got %d", got)
	}
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	a := writeNote(t, dir, "a.zortex", "@@A")
	b := writeNote(t, dir, "b.zortex", "@@B")
	c := writeNote(t, dir, "c.zortex", "@@C")

	ix := newTestIndex(dir, WithCapacity(2))
	for _, p := range []string{a, b, a, c} {
		if _, err := ix.Get(p); err != nil {
			t.Fatalf("Get %s: %v", p, err)
		}
	}

	if _, ok := ix.Lookup(b); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := ix.Lookup(a); !ok {
		t.Fatalf("expected a to stay cached")
	}

	docs, err := ix.Documents()
	if err != nil {
		t.Fatalf("Documents returned error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected all documents despite the bound, got %d", len(docs))
	}
}

func TestClosePreventsAccess(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "note.zortex", "content")

	ix := newTestIndex(dir)
	if err := ix.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := ix.Get(path); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
	if _, err := ix.Documents(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Documents, got %v", err)
	}
}
