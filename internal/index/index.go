package index

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Paintersrp/zortex/internal/cache"
)

// ErrClosed signals that the index has been shut down.
var ErrClosed = errors.New("index closed")

// ErrNotIndexed is returned for paths outside the corpus.
var ErrNotIndexed = errors.New("path is not part of the corpus")

// Stats captures lightweight instrumentation about the index.
type Stats struct {
	Documents   int       `json:"documents"`
	Pending     int       `json:"pending"`
	LastRefresh time.Time `json:"last_refresh"`
	Skipped     int       `json:"skipped"`
}

// Index caches parsed documents keyed by path. An entry stays valid while the
// file's modification time is unchanged.
type Index struct {
	mu          sync.RWMutex
	source      Source
	docs        *cache.LRU[string, *Document]
	pending     map[string]struct{}
	lastRefresh time.Time
	skipped     int
	closed      bool

	log *slog.Logger
	now func() time.Time
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used for skipped files.
func WithLogger(log *slog.Logger) Option {
	return func(ix *Index) {
		if log != nil {
			ix.log = log
		}
	}
}

// WithCapacity bounds the number of cached documents. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(ix *Index) {
		ix.docs = cache.New[string, *Document](n)
	}
}

// New constructs an empty index over src.
func New(src Source, opts ...Option) *Index {
	ix := &Index{
		source:  src,
		docs:    cache.New[string, *Document](0),
		pending: make(map[string]struct{}),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ix)
	}
	ix.log = ix.log.With("component", "index")
	return ix
}

// Get returns the parsed document for path, reparsing it when the file changed
// since it was cached.
func (ix *Index) Get(path string) (*Document, error) {
	if err := ix.checkOpen(); err != nil {
		return nil, err
	}

	canonical := ix.source.Canonical(path)
	if canonical == "" || !ix.source.Includes(canonical) {
		return nil, fmt.Errorf("index: %s: %w", path, ErrNotIndexed)
	}

	modified, err := ix.source.Stat(canonical)
	if err != nil {
		ix.docs.Remove(canonical)
		return nil, fmt.Errorf("index: stat %s: %w", canonical, err)
	}

	if doc, ok := ix.docs.Get(canonical); ok && doc.ModifiedAt.Equal(modified) {
		return doc, nil
	}

	content, err := ix.source.Read(canonical)
	if err != nil {
		ix.docs.Remove(canonical)
		return nil, fmt.Errorf("index: read %s: %w", canonical, err)
	}

	doc := NewDocument(canonical, content, modified)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return nil, ErrClosed
	}
	ix.docs.Put(canonical, doc)
	return doc, nil
}

// Lookup returns a cached document without touching the disk.
func (ix *Index) Lookup(path string) (*Document, bool) {
	return ix.docs.Peek(ix.source.Canonical(path))
}

// Invalidate drops the cached entry for path.
func (ix *Index) Invalidate(path string) {
	ix.docs.Remove(ix.source.Canonical(path))
}

// All returns the currently cached documents sorted by path. The slice is a
// snapshot; later invalidations do not affect it.
func (ix *Index) All() []*Document {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	keys := ix.docs.Keys()
	docs := make([]*Document, 0, len(keys))
	for _, key := range keys {
		if doc, ok := ix.docs.Peek(key); ok {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

// Documents applies pending updates, then loads every corpus file and returns
// them sorted by path. Unreadable files are logged and skipped.
func (ix *Index) Documents() ([]*Document, error) {
	if err := ix.Flush(); err != nil {
		return nil, err
	}

	paths, err := ix.source.List()
	if err != nil {
		return nil, fmt.Errorf("index: list corpus: %w", err)
	}

	listed := make(map[string]struct{}, len(paths))
	docs := make([]*Document, 0, len(paths))
	skipped := 0
	for _, path := range paths {
		listed[path] = struct{}{}
		doc, err := ix.Get(path)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil, err
			}
			skipped++
			ix.log.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	for _, key := range ix.docs.Keys() {
		if _, ok := listed[key]; !ok {
			ix.docs.Remove(key)
		}
	}

	ix.mu.Lock()
	ix.lastRefresh = ix.now()
	ix.skipped = skipped
	ix.mu.Unlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Refresh eagerly populates the cache.
func (ix *Index) Refresh() error {
	_, err := ix.Documents()
	return err
}

// QueueUpdate schedules a path for invalidation on the next Flush. Repeated
// calls for the same path coalesce.
func (ix *Index) QueueUpdate(path string) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return
	}
	ix.pending[ix.source.Canonical(trimmed)] = struct{}{}
}

// Flush applies queued updates: changed files are reparsed, removed ones
// dropped.
func (ix *Index) Flush() error {
	ix.mu.Lock()
	if ix.closed {
		ix.mu.Unlock()
		return ErrClosed
	}
	pending := ix.pending
	ix.pending = make(map[string]struct{})
	ix.mu.Unlock()

	for path := range pending {
		ix.docs.Remove(path)
		if !ix.source.Includes(path) {
			continue
		}
		if _, err := ix.Get(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrNotIndexed) {
				continue
			}
			if errors.Is(err, ErrClosed) {
				return err
			}
			ix.log.Warn("skipping unreadable file", "path", path, "error", err)
		}
	}
	return nil
}

// Stats returns instrumentation about the index lifecycle.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return Stats{
		Documents:   ix.docs.Len(),
		Pending:     len(ix.pending),
		LastRefresh: ix.lastRefresh,
		Skipped:     ix.skipped,
	}
}

// Close releases the cache. Subsequent calls return ErrClosed.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return nil
	}
	ix.closed = true
	ix.docs.Purge()
	ix.pending = nil
	return nil
}

func (ix *Index) checkOpen() error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return ErrClosed
	}
	return nil
}
