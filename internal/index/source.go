package index

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Paintersrp/zortex/internal/pathutil"
)

// Source enumerates corpus files and reads them.
type Source interface {
	// List returns the canonical paths of every corpus file.
	List() ([]string, error)
	// Canonical maps a user supplied path onto the form List returns.
	Canonical(path string) string
	// Includes reports whether a canonical path belongs to the corpus.
	Includes(path string) bool
	Stat(path string) (time.Time, error)
	Read(path string) ([]byte, error)
}

// FSSource is a Source over a notes directory on disk.
type FSSource struct {
	Root           string
	Extensions     []string
	IgnoredFolders []string
}

// NewFSSource returns a source rooted at dir.
func NewFSSource(dir string, extensions, ignored []string) *FSSource {
	return &FSSource{
		Root:           pathutil.NormalizePath(dir),
		Extensions:     extensions,
		IgnoredFolders: ignored,
	}
}

func (s *FSSource) List() ([]string, error) {
	ignored := make(map[string]struct{}, len(s.IgnoredFolders))
	for _, dir := range s.IgnoredFolders {
		ignored[strings.ToLower(dir)] = struct{}{}
	}

	paths := make([]string, 0)
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := strings.ToLower(d.Name())
			if strings.HasPrefix(name, ".") && path != s.Root {
				return filepath.SkipDir
			}
			if _, skip := ignored[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		if pathutil.MatchesExtension(d.Name(), s.Extensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *FSSource) Canonical(path string) string {
	return pathutil.Resolve(s.Root, path)
}

func (s *FSSource) Includes(path string) bool {
	rel, err := pathutil.Relative(s.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	if !pathutil.MatchesExtension(path, s.Extensions) {
		return false
	}

	parts := strings.Split(rel, "/")
	for _, dir := range parts[:len(parts)-1] {
		if strings.HasPrefix(dir, ".") {
			return false
		}
		for _, ignored := range s.IgnoredFolders {
			if strings.EqualFold(dir, ignored) {
				return false
			}
		}
	}
	return true
}

func (s *FSSource) Stat(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	if info.IsDir() {
		return time.Time{}, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrInvalid}
	}
	return info.ModTime(), nil
}

func (s *FSSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}
