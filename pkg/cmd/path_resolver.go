package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Paintersrp/zortex/internal/state"
)

// ResolveNotePath maps a command argument onto a path inside the notes
// directory. Relative paths are taken from the notes directory.
func ResolveNotePath(s *state.State, arg string) (string, error) {
	if s == nil || s.Notes == "" {
		return "", fmt.Errorf("notes directory is not configured")
	}
	notesDir := filepath.Clean(s.Notes)
	if arg == "" {
		return "", fmt.Errorf("a path argument is required")
	}

	var resolved string
	if filepath.IsAbs(arg) {
		resolved = filepath.Clean(arg)
	} else {
		resolved = filepath.Join(notesDir, filepath.Clean(arg))
	}

	if err := ensureWithinNotes(notesDir, resolved); err != nil {
		return "", err
	}

	return resolved, nil
}

// ParseLocation splits "FILE:LINE" into its parts. A missing line is 1.
func ParseLocation(arg string) (string, int, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return arg, 1, nil
	}

	line, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		return arg, 1, nil
	}
	if line < 1 {
		return "", 0, fmt.Errorf("line must be at least 1, got %d", line)
	}
	return arg[:i], line, nil
}

func ensureWithinNotes(notesDir, resolved string) error {
	rel, err := filepath.Rel(notesDir, resolved)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q relative to notes %q: %w", resolved, notesDir, err)
	}

	if rel == "." {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the notes directory %q", resolved, notesDir)
	}

	return nil
}
