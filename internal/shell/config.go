// Package shell composes the pkg/shell engine with the line-editing front
// end, configuration, and logging that a runnable shell needs but that the
// core lexer/parser/executor contracts do not depend on.
package shell

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded from the environment, namespaced SHELL_.
type Config struct {
	HistFile string `envconfig:"HISTFILE" default:""`
	HistSize int    `envconfig:"HISTSIZE" default:"1000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// LoadConfig reads SHELL_-prefixed environment variables into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("shell", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
