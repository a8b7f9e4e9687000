// Package config loads the interpreter's own rc-file: REPL prompt strings
// and the default log level, read from ~/.shpprc.toml or $SHPP_HOME/rc.toml
// with github.com/BurntSushi/toml.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Configuration is the bag of values built from the rc-file and flags in
// cmd/shpp; of its fields, only the prompt strings reach the REPL.
type Configuration struct {
	Version   string
	BuildDate string
	Commit    string
	RootPath  string
	DebugAST  bool
	ShppHome  string

	LogLevel string `toml:"log_level"`
	Prompt   string `toml:"prompt"`
	Continue string `toml:"continue_prompt"`
}

func defaults() Configuration {
	return Configuration{
		LogLevel: "none",
		Prompt:   "> ",
		Continue: "| ",
	}
}

// rcPath resolves the rc-file location: $SHPP_HOME/rc.toml if SHPP_HOME is
// set, else ~/.shpprc.toml.
func rcPath() (string, bool) {
	if home := os.Getenv("SHPP_HOME"); home != "" {
		return filepath.Join(home, "rc.toml"), true
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(homeDir, ".shpprc.toml"), true
}

// Load builds a Configuration from defaults, overlaid with the rc-file's
// contents if one is present. A missing rc-file is not an error; a
// malformed one is.
func Load() (Configuration, error) {
	cfg := defaults()
	path, ok := rcPath()
	if !ok {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
