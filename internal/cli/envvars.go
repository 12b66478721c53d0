package cli

import (
	"strings"

	envparse "github.com/caarlos0/env/v11"
)

// baseEnv defines root CLI defaults sourced from HOUDINICTL_* env vars.
type baseEnv struct {
	// ConfigPath is the engine config path from HOUDINICTL_CONFIG.
	ConfigPath string `env:"HOUDINICTL_CONFIG"`
	// Context is the production context name from HOUDINICTL_CONTEXT.
	Context string `env:"HOUDINICTL_CONTEXT"`
	// LogLevel is the logging level from HOUDINICTL_LOG_LEVEL.
	LogLevel string `env:"HOUDINICTL_LOG_LEVEL"`
}

// varsEnv describes inline vars and var files passed via env.
type varsEnv struct {
	// Vars is a k=v,k2=v2 list from HOUDINICTL_VARS.
	Vars string `env:"HOUDINICTL_VARS"`
	// VarFile is a .env-style path from HOUDINICTL_VAR_FILE.
	VarFile string `env:"HOUDINICTL_VAR_FILE"`
}

// parseEnv fills target from HOUDINICTL_* env vars via caarlos0/env.
func parseEnv(target any) error {
	return envparse.Parse(target)
}

// envLogLevel returns the log level from the environment, defaulting to info.
func envLogLevel() string {
	var base baseEnv
	if err := parseEnv(&base); err == nil && strings.TrimSpace(base.LogLevel) != "" {
		return base.LogLevel
	}
	return "info"
}
