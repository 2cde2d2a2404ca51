package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// Relative returns the path to target relative to the notes directory, always
// using forward slashes.
func Relative(notesDir, target string) (string, error) {
	base := NormalizePath(notesDir)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// Resolve joins a notes-relative path onto the notes directory. Absolute paths
// are only normalized.
func Resolve(notesDir, p string) string {
	p = NormalizePath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(NormalizePath(notesDir), p)
}

// MatchesExtension reports whether name ends in one of exts, ignoring case.
// An empty list matches everything.
func MatchesExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

const timestampDigits = 13

// DisplayName returns a short human name for a note file. Files named after a
// creation stamp (year, week, weekday, hour, minute, second) render as
// "YYYY-WW-D HH:MM:SS"; anything else is the base name without extension.
func DisplayName(path string) string {
	base := filepath.Base(NormalizePath(path))
	if len(base) >= timestampDigits && allDigits(base[:timestampDigits]) {
		return fmt.Sprintf("%s-%s-%s %s:%s:%s",
			base[0:4], base[4:6], base[6:7], base[7:9], base[9:11], base[11:13])
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
