package flags

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Global flag names, shared by every command.
const (
	Workspace = "workspace"
	NotesDir  = "notes-dir"
	LogLevel  = "log-level"
)

// AddGlobal registers the persistent flags on fs.
func AddGlobal(fs *pflag.FlagSet) {
	fs.StringP(Workspace, "w", "", "Workspace to use instead of the current one")
	fs.String(NotesDir, "", "Notes directory, overriding the workspace setting")
	fs.String(LogLevel, "", "Log level: debug, info, warn or error")
}

// BindGlobal binds the persistent flags to their configuration keys so that
// a flag that was set overrides the file and the environment.
func BindGlobal(fs *pflag.FlagSet) {
	viper.BindPFlag("notes_dir", fs.Lookup(NotesDir))
	viper.BindPFlag("log_level", fs.Lookup(LogLevel))
}

// PreParse reads the persistent flags out of args before the command tree
// exists. Unknown flags and parse errors are left for cobra to report.
func PreParse(args []string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	AddGlobal(fs)
	_ = fs.Parse(args)
	return fs
}
