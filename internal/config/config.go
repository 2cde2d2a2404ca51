package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"

	"github.com/Paintersrp/zortex/internal/constants"
	"github.com/Paintersrp/zortex/internal/history"
	"github.com/Paintersrp/zortex/internal/search"
)

type HistoryConfig struct {
	history.Config `yaml:",inline"`
	Database       string `yaml:"database" json:"database"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Workspace struct {
	NotesDir       string        `yaml:"notes_dir"       json:"notes_dir"`
	Extensions     []string      `yaml:"extensions"      json:"extensions"`
	IgnoredFolders []string      `yaml:"ignored_folders" json:"ignored_folders"`
	CacheSize      int           `yaml:"cache_size"      json:"cache_size"`
	Search         search.Config `yaml:"search"          json:"search"`
	History        HistoryConfig `yaml:"history"         json:"history"`
	Server         ServerConfig  `yaml:"server"          json:"server"`
	LogLevel       string        `yaml:"log_level"       json:"log_level"`
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`

	active *Workspace `yaml:"-"`
	home   string     `yaml:"-"`
}

const defaultWorkspaceName = "default"

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func ValidateLogLevel(level string) error {
	if validLogLevels[strings.ToLower(level)] {
		return nil
	}
	return fmt.Errorf("invalid log level: %q. Please choose from 'debug', 'info', 'warn', or 'error'", level)
}

func NewWorkspace(notesDir string) *Workspace {
	ws := &Workspace{NotesDir: notesDir}
	ws.ensureDefaults()
	return ws
}

func (ws *Workspace) ensureDefaults() {
	if len(ws.Extensions) == 0 {
		ws.Extensions = []string{constants.NoteExtension}
	}
	if ws.IgnoredFolders == nil {
		ws.IgnoredFolders = []string{}
	}
	if ws.CacheSize < 0 {
		ws.CacheSize = 0
	}

	def := search.DefaultConfig()
	if ws.Search.Weights == (search.Weights{}) {
		ws.Search.Weights = def.Weights
	}
	if ws.Search.Multipliers == (search.Multipliers{}) {
		ws.Search.Multipliers = def.Multipliers
	}
	if ws.Search.Floor <= 0 {
		ws.Search.Floor = def.Floor
	}
	if ws.Search.BreadcrumbSeparator == "" {
		ws.Search.BreadcrumbSeparator = def.BreadcrumbSeparator
	}

	hist := history.DefaultConfig()
	if ws.History.Capacity <= 0 {
		ws.History.Capacity = hist.Capacity
	}
	if ws.History.Decay <= 0 || ws.History.Decay > 1 {
		ws.History.Decay = hist.Decay
	}
	if ws.History.AgeRate <= 0 {
		ws.History.AgeRate = hist.AgeRate
	}

	if ws.Server.Addr == "" {
		ws.Server.Addr = constants.DefaultAddr
	}
	if ws.LogLevel == "" {
		ws.LogLevel = "warn"
	}
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{home: home}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}
	if err := ValidateLogLevel(ws.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if cfg.CurrentWorkspace == "" {
		if len(cfg.Workspaces) == 0 {
			cfg.Workspaces[defaultWorkspaceName] = NewWorkspace("")
			cfg.CurrentWorkspace = defaultWorkspaceName
		} else {
			cfg.CurrentWorkspace = cfg.WorkspaceNames()[0]
		}
	}

	return cfg.setActiveWorkspace(cfg.CurrentWorkspace)
}

func (cfg *Config) setActiveWorkspace(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if ws == nil {
		ws = NewWorkspace("")
		cfg.Workspaces[name] = ws
	}

	ws.ensureDefaults()
	cfg.CurrentWorkspace = name
	cfg.active = ws

	syncWorkspaceWithViper(ws)
	return nil
}

// syncWorkspaceWithViper publishes file values as viper defaults so that bound
// flags and ZORTEX_ environment variables take precedence.
func syncWorkspaceWithViper(ws *Workspace) {
	viper.SetDefault("notes_dir", ws.NotesDir)
	viper.SetDefault("extensions", ws.Extensions)
	viper.SetDefault("ignored_folders", ws.IgnoredFolders)
	viper.SetDefault("cache_size", ws.CacheSize)
	viper.SetDefault("log_level", ws.LogLevel)
	viper.SetDefault("addr", ws.Server.Addr)
	viper.SetDefault("history_db", ws.History.Database)
}

// Resolved returns a copy of the active workspace with flag and environment
// overrides applied.
func (cfg *Config) Resolved() (*Workspace, error) {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	out := *ws
	out.NotesDir = viper.GetString("notes_dir")
	if exts := viper.GetStringSlice("extensions"); len(exts) > 0 {
		out.Extensions = exts
	}
	out.IgnoredFolders = viper.GetStringSlice("ignored_folders")
	out.CacheSize = viper.GetInt("cache_size")
	out.LogLevel = viper.GetString("log_level")
	out.Server.Addr = viper.GetString("addr")
	out.History.Database = viper.GetString("history_db")
	out.ensureDefaults()

	if err := ValidateLogLevel(out.LogLevel); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentWorkspace == "" {
		return nil, fmt.Errorf("no workspace is currently selected")
	}

	if err := cfg.setActiveWorkspace(cfg.CurrentWorkspace); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) MustWorkspace() *Workspace {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		panic(err)
	}
	return ws
}

func (cfg *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cfg *Config) ActivateWorkspace(name string) error {
	return cfg.setActiveWorkspace(name)
}

func (cfg *Config) SwitchWorkspace(name string) error {
	if err := cfg.setActiveWorkspace(name); err != nil {
		return err
	}
	return cfg.Save()
}

func (cfg *Config) AddWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if _, exists := cfg.Workspaces[trimmed]; exists {
		return fmt.Errorf("workspace %q already exists", trimmed)
	}

	if ws == nil {
		ws = NewWorkspace("")
	}
	ws.ensureDefaults()
	cfg.Workspaces[trimmed] = ws

	if cfg.CurrentWorkspace == "" || makeCurrent {
		if err := cfg.setActiveWorkspace(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) RemoveWorkspace(name string) error {
	if len(cfg.Workspaces) <= 1 {
		return fmt.Errorf("cannot remove the last workspace")
	}

	if _, exists := cfg.Workspaces[name]; !exists {
		return fmt.Errorf("workspace %q does not exist", name)
	}

	delete(cfg.Workspaces, name)

	if cfg.CurrentWorkspace == name {
		cfg.active = nil
		cfg.CurrentWorkspace = ""
		if err := cfg.ensureInitialized(); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	home := cfg.home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return ""
		}
	}
	return GetConfigPath(home)
}

// HistoryPath is the history database location, defaulting to the config
// directory.
func (cfg *Config) HistoryPath(ws *Workspace) string {
	if ws.History.Database != "" {
		return ws.History.Database
	}
	return filepath.Join(filepath.Dir(cfg.GetConfigPath()), constants.HistoryFile)
}

func (cfg *Config) Save() error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}
	if err := ValidateLogLevel(ws.LogLevel); err != nil {
		return err
	}

	syncWorkspaceWithViper(ws)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}
