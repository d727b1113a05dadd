// Package config loads QDMI's process-wide runtime configuration: where to
// keep the job ledger, and how verbosely to log. It follows a
// layered-defaults-then-environment-override shape, simplified to QDMI's
// much smaller configuration surface — QDMI has no YAML user config file of
// its own (that concern is entirely owned by QDMI_CONF, see
// driver.ParseConfigFile), so only the environment-feeder half of that
// layering is carried forward.
package config

import (
	"os"
	"path/filepath"
)

// Config is QDMI's process-wide runtime configuration.
type Config struct {
	// RuntimeDir holds files associated with a running driver process:
	// the job ledger database, primarily.
	RuntimeDir string

	// LogLevel is one of qlog.Levels' keys.
	LogLevel string

	// LogType selects the log output format: "basic" or "json".
	LogType string
}

const (
	envRuntimeDir = "QDMI_RUNTIME_DIR"
	envLogLevel   = "QDMI_LOG_LEVEL"
	envLogType    = "QDMI_LOG_TYPE"

	defaultLogLevel = "info"
	defaultLogType  = "basic"
)

// Default returns a Config populated with QDMI's built-in defaults,
// overridden by any of the QDMI_* environment variables that are set.
func Default() (*Config, error) {
	c := &Config{
		LogLevel: defaultLogLevel,
		LogType:  defaultLogType,
	}

	if err := setRuntimeDirDefault(c); err != nil {
		return nil, err
	}

	c.feedFromEnv()

	return c, nil
}

func setRuntimeDirDefault(c *Config) error {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	c.RuntimeDir = filepath.Join(base, "qdmi")
	return nil
}

// feedFromEnv overrides c's fields from the environment, following
// kraftkit's EnvFeeder idea of environment variables taking precedence
// over computed defaults.
func (c *Config) feedFromEnv() {
	if v := os.Getenv(envRuntimeDir); v != "" {
		c.RuntimeDir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envLogType); v != "" {
		c.LogType = v
	}
}
