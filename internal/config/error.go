package config

import "fmt"

// ConfigInitError reports a setting that must be present before zortex can
// index anything.
type ConfigInitError struct {
	Key  string
	Path string
}

func (e *ConfigInitError) Error() string {
	return fmt.Sprintf("config: %q is not set in %s", e.Key, e.Path)
}
