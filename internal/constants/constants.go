package constants

const (
	Version        = `0.1.0`
	AppName        = `zortex`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.zortex-cli/`
	HistoryFile    = `history.db`
	EnvPrefix      = `ZORTEX`
	NoteExtension  = `.zortex`
	DefaultAddr    = `127.0.0.1:7878`
)
