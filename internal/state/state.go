package state

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Paintersrp/zortex/internal/config"
	"github.com/Paintersrp/zortex/internal/constants"
	"github.com/Paintersrp/zortex/internal/history"
	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/search"
)

type State struct {
	Config        *config.Config
	Workspace     *config.Workspace
	WorkspaceName string
	Home          string
	Notes         string
	Log           *slog.Logger
	Index         *index.Index
	History       *history.History
	Engine        *search.Engine
	Resolver      *resolver.Resolver
	Watcher       *NotesWatcher
}

func NewState(workspaceOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if workspaceOverride != "" {
		if err := cfg.ActivateWorkspace(workspaceOverride); err != nil {
			return nil, err
		}
	}

	ws, err := cfg.Resolved()
	if err != nil {
		return nil, err
	}

	s, err := FromWorkspace(ws, cfg.HistoryPath(ws), NewLogger(os.Stderr, ws.LogLevel))
	if err != nil {
		return nil, err
	}
	s.Config = cfg
	s.WorkspaceName = cfg.CurrentWorkspace
	s.Home = home
	return s, nil
}

// FromWorkspace wires the index, history, search engine and resolver for ws.
// historyPath may be ":memory:".
func FromWorkspace(ws *config.Workspace, historyPath string, log *slog.Logger) (*State, error) {
	if ws == nil {
		return nil, errors.New("workspace cannot be nil")
	}
	if strings.TrimSpace(ws.NotesDir) == "" {
		return nil, errors.New("notes directory cannot be empty")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	src := index.NewFSSource(ws.NotesDir, ws.Extensions, ws.IgnoredFolders)
	idx := index.New(src, index.WithLogger(log), index.WithCapacity(ws.CacheSize))

	store, err := history.OpenSQLite(historyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	hist, err := history.Open(ws.History.Config, store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	return &State{
		Workspace: ws,
		Notes:     src.Root,
		Log:       log,
		Index:     idx,
		History:   hist,
		Engine:    search.NewEngine(idx, hist, ws.Search),
		Resolver:  resolver.New(idx),
	}, nil
}

// NewLogger returns a text logger filtering below level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Watch starts a notes watcher feeding the index update queue.
func (s *State) Watch() error {
	if s.Watcher != nil {
		return nil
	}

	w, err := NewNotesWatcher(s.Notes, s.Workspace.Extensions, s.Log)
	if err != nil {
		return fmt.Errorf("failed to create notes watcher: %w", err)
	}
	w.OnChange(s.Index.QueueUpdate)
	w.Start()

	s.Watcher = w
	return nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close releases the watcher, index and history store.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil && !errors.Is(err, index.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if s.History != nil {
		if err := s.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
