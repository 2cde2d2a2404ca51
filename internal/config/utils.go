package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/zortex/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// EnsureConfigExists creates the config file on first use and checks that the
// resolved workspace names a notes directory. A fresh file is seeded with a
// default workspace so that an override-only first run persists its settings.
func EnsureConfigExists(homeDir string) error {
	path := GetConfigPath(homeDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("config: create %s: %w", path, err)
		}
	case err != nil:
		return fmt.Errorf("config: stat %s: %w", path, err)
	}

	cfg, err := Load(homeDir)
	if err != nil {
		return fmt.Errorf("config: load: %w", err)
	}

	ws, err := cfg.Resolved()
	if err != nil {
		return err
	}
	if strings.TrimSpace(ws.NotesDir) == "" {
		return &ConfigInitError{Key: "notes_dir", Path: path}
	}

	// Persist an override-supplied notes dir into a workspace that has none.
	if active := cfg.MustWorkspace(); active.NotesDir == "" {
		active.NotesDir = ws.NotesDir
		return cfg.Save()
	}
	return nil
}
