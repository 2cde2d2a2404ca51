package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"

	"github.com/Paintersrp/zortex/internal/config"
)

func writeConfig(t *testing.T, home string, data map[string]any) {
	t.Helper()
	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}
	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func workspaceConfig(notesDir string, extra map[string]any) map[string]any {
	ws := map[string]any{"notes_dir": notesDir}
	for k, v := range extra {
		ws[k] = v
	}
	return map[string]any{
		"current_workspace": "main",
		"workspaces":        map[string]any{"main": ws},
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	notes := filepath.Join(home, "notes")
	writeConfig(t, home, workspaceConfig(notes, nil))

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	ws := cfg.MustWorkspace()
	if ws.NotesDir != notes {
		t.Fatalf("expected notes dir %q, got %q", notes, ws.NotesDir)
	}
	if !slices.Equal(ws.Extensions, []string{".zortex"}) {
		t.Fatalf("expected default extension, got %v", ws.Extensions)
	}
	if ws.LogLevel != "warn" {
		t.Fatalf("expected default log level warn, got %q", ws.LogLevel)
	}
	if ws.Server.Addr != "127.0.0.1:7878" {
		t.Fatalf("expected default addr, got %q", ws.Server.Addr)
	}
	if ws.History.Capacity != 500 || ws.History.Decay != 0.7 {
		t.Fatalf("expected default history tuning, got %+v", ws.History.Config)
	}
	if ws.Search.Weights.HierarchicalBonus != 10 {
		t.Fatalf("expected default search weights, got %+v", ws.Search.Weights)
	}
	if got := cfg.HistoryPath(ws); got != filepath.Join(filepath.Dir(config.GetConfigPath(home)), "history.db") {
		t.Fatalf("unexpected history path %q", got)
	}
}

func TestLoadReadsSearchTuning(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	writeConfig(t, home, workspaceConfig(home, map[string]any{
		"extensions": []string{".zortex", ".md"},
		"search": map[string]any{
			"max_results":          25,
			"breadcrumb_separator": " / ",
		},
		"history": map[string]any{
			"capacity": 20,
			"database": "/tmp/zortex-history.db",
		},
	}))

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	ws := cfg.MustWorkspace()
	if ws.Search.MaxResults != 25 || ws.Search.BreadcrumbSeparator != " / " {
		t.Fatalf("search tuning not loaded: %+v", ws.Search)
	}
	if ws.History.Capacity != 20 {
		t.Fatalf("expected history capacity 20, got %d", ws.History.Capacity)
	}
	if got := cfg.HistoryPath(ws); got != "/tmp/zortex-history.db" {
		t.Fatalf("expected configured history path, got %q", got)
	}
	if !slices.Equal(ws.Extensions, []string{".zortex", ".md"}) {
		t.Fatalf("unexpected extensions %v", ws.Extensions)
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	writeConfig(t, home, workspaceConfig(home, map[string]any{"log_level": "loud"}))

	if _, err := config.Load(home); err == nil {
		t.Fatalf("expected invalid log level to be rejected")
	}
}

func TestResolvedPrefersViperOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	writeConfig(t, home, workspaceConfig(filepath.Join(home, "notes"), nil))

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	viper.Set("notes_dir", "/elsewhere")
	viper.Set("log_level", "debug")

	ws, err := cfg.Resolved()
	if err != nil {
		t.Fatalf("Resolved returned error: %v", err)
	}
	if ws.NotesDir != "/elsewhere" || ws.LogLevel != "debug" {
		t.Fatalf("expected overrides to apply, got %+v", ws)
	}
	if cfg.MustWorkspace().NotesDir == "/elsewhere" {
		t.Fatalf("Resolved must not mutate the stored workspace")
	}
}

func TestEnsureConfigExistsRequiresNotesDir(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	err := config.EnsureConfigExists(home)

	var initErr *config.ConfigInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}
	if _, statErr := os.Stat(config.GetConfigPath(home)); statErr != nil {
		t.Fatalf("expected config file to be created: %v", statErr)
	}
}

func TestEnsureConfigExistsSeedsNotesDirOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	notes := filepath.Join(home, "notes")
	viper.Set("notes_dir", notes)

	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}

	raw, err := os.ReadFile(config.GetConfigPath(home))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var saved struct {
		Workspaces map[string]struct {
			NotesDir string `yaml:"notes_dir"`
		} `yaml:"workspaces"`
	}
	if err := yaml.Unmarshal(raw, &saved); err != nil {
		t.Fatalf("parse saved config: %v", err)
	}
	if got := saved.Workspaces["default"].NotesDir; got != notes {
		t.Fatalf("expected seeded notes dir %q, got %q", notes, got)
	}
}

func TestConfigAddAndRemoveWorkspace(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	writeConfig(t, home, workspaceConfig(filepath.Join(home, "notes"), nil))

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	work := config.NewWorkspace(filepath.Join(home, "work"))
	if err := cfg.AddWorkspace("work", work, true); err != nil {
		t.Fatalf("AddWorkspace returned error: %v", err)
	}
	if err := cfg.AddWorkspace("work", nil, false); err == nil {
		t.Fatalf("expected duplicate workspace to be rejected")
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if reloaded.CurrentWorkspace != "work" {
		t.Fatalf("expected work to be current, got %q", reloaded.CurrentWorkspace)
	}
	if !slices.Equal(reloaded.WorkspaceNames(), []string{"main", "work"}) {
		t.Fatalf("unexpected workspaces %v", reloaded.WorkspaceNames())
	}

	if err := reloaded.RemoveWorkspace("work"); err != nil {
		t.Fatalf("RemoveWorkspace returned error: %v", err)
	}
	if reloaded.CurrentWorkspace != "main" {
		t.Fatalf("expected fallback to main, got %q", reloaded.CurrentWorkspace)
	}
	if err := reloaded.RemoveWorkspace("main"); err == nil {
		t.Fatalf("expected removing the last workspace to fail")
	}
}

func TestSwitchWorkspacePersists(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	data := workspaceConfig(filepath.Join(home, "notes"), nil)
	data["workspaces"].(map[string]any)["archive"] = map[string]any{"notes_dir": filepath.Join(home, "archive")}
	writeConfig(t, home, data)

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.SwitchWorkspace("archive"); err != nil {
		t.Fatalf("SwitchWorkspace returned error: %v", err)
	}
	if err := cfg.SwitchWorkspace("missing"); err == nil {
		t.Fatalf("expected unknown workspace to be rejected")
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if got := reloaded.MustWorkspace().NotesDir; got != filepath.Join(home, "archive") {
		t.Fatalf("expected archive workspace, got %q", got)
	}
}
