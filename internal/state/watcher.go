package state

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/zortex/internal/pathutil"
)

// NotesWatcher reports changes to note files below a directory.
type NotesWatcher struct {
	watcher    *fsnotify.Watcher
	root       string
	extensions []string
	log        *slog.Logger
	done       chan struct{}
	stopped    chan struct{}
	once       sync.Once
	startOnce  sync.Once
	started    bool

	mu       sync.Mutex
	onChange func(string)
}

func NewNotesWatcher(root string, extensions []string, log *slog.Logger) (*NotesWatcher, error) {
	normalized := pathutil.NormalizePath(root)
	if normalized == "" {
		return nil, errors.New("notes directory cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &NotesWatcher{
		watcher:    w,
		root:       normalized,
		extensions: extensions,
		log:        log.With("component", "watcher"),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}

	if err := watcher.addRecursive(normalized); err != nil {
		_ = w.Close()
		return nil, err
	}

	return watcher, nil
}

// OnChange registers the callback receiving absolute paths of changed notes.
func (w *NotesWatcher) OnChange(fn func(string)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Start consumes events in a goroutine until Close.
func (w *NotesWatcher) Start() {
	w.startOnce.Do(func() {
		w.mu.Lock()
		w.started = true
		w.mu.Unlock()
		go w.run()
	})
}

func (w *NotesWatcher) run() {
	defer close(w.stopped)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.log.Warn("failed to watch directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !w.isRelevant(event) {
				continue
			}

			path := pathutil.NormalizePath(event.Name)
			w.log.Debug("note changed", "path", path, "op", event.Op.String())

			w.mu.Lock()
			fn := w.onChange
			w.mu.Unlock()
			if fn != nil {
				fn(path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.log.Warn("watcher error", "error", err)
			}
		}
	}
}

// Close stops the watcher. Once it returns, no further OnChange callbacks run.
func (w *NotesWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()

		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if started {
			<-w.stopped
		}
	})

	return closeErr
}

func (w *NotesWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != normalized {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

func (w *NotesWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, err := pathutil.Relative(w.root, pathutil.NormalizePath(event.Name))
	if err != nil || rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return false
	}

	return pathutil.MatchesExtension(rel, w.extensions)
}
