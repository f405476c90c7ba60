// Package config handles loading and saving mind configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/mind/config.yaml
//   - Data:    ~/.local/share/mind/ (state file, data files)
//   - State:   ~/.local/state/mind/ (debug logs)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "mind"

// PersistenceConfig says where trees and data files are stored.
type PersistenceConfig struct {
	DataDir   string `yaml:"data_dir,omitempty"`   // Directory for data files created from nodes
	StatePath string `yaml:"state_path,omitempty"` // Forest state file
}

// InteractiveConfig configures the external fuzzy picker used to select
// nodes, e.g. fzf with "--prompt".
type InteractiveConfig struct {
	FuzzyTermProgram   string `yaml:"fuzzy_term_program,omitempty"`
	FuzzyTermPromptOpt string `yaml:"fuzzy_term_prompt_opt,omitempty"`
}

// EditConfig configures editing of file data.
type EditConfig struct {
	Editor string `yaml:"editor,omitempty"` // Falls back to $EDITOR
}

// UIConfig holds TUI preference settings.
type UIConfig struct {
	StickyTimeout int  `yaml:"sticky_timeout,omitempty"` // Seconds a status message stays up
	NoWatch       bool `yaml:"no_watch,omitempty"`       // Do not reload when the state file changes on disk
	ExpandAll     bool `yaml:"expand_all,omitempty"`     // Expand every node on startup
}

// Config is the top-level configuration for mind.
type Config struct {
	Persistence PersistenceConfig `yaml:"persistence,omitempty"`
	Interactive InteractiveConfig `yaml:"interactive,omitempty"`
	Edit        EditConfig        `yaml:"edit,omitempty"`
	UI          UIConfig          `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	data := DataDir()
	return Config{
		Persistence: PersistenceConfig{
			DataDir:   filepath.Join(data, "data"),
			StatePath: filepath.Join(data, "state.json"),
		},
		UI: UIConfig{
			StickyTimeout: 5,
		},
	}
}

// ConfigDir returns the XDG config directory for mind.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG data directory for mind.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// StateDir returns the XDG state directory for mind.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml. MIND_CONFIG overrides it.
func ConfigPath() string {
	if path := os.Getenv("MIND_CONFIG"); path != "" {
		return expandHome(path)
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. On a parse error the
// defaults are returned along with the error so callers can warn and go on.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.Persistence.DataDir == "" {
		cfg.Persistence.DataDir = defaults.Persistence.DataDir
	}
	if cfg.Persistence.StatePath == "" {
		cfg.Persistence.StatePath = defaults.Persistence.StatePath
	}
	cfg.Persistence.DataDir = expandHome(cfg.Persistence.DataDir)
	cfg.Persistence.StatePath = expandHome(cfg.Persistence.StatePath)
	if cfg.UI.StickyTimeout <= 0 {
		cfg.UI.StickyTimeout = defaults.UI.StickyTimeout
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Editor returns the configured editor, then $EDITOR, then "vi".
func (c Config) Editor() string {
	if c.Edit.Editor != "" {
		return c.Edit.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// FuzzyCommand returns the picker program and the arguments that set its
// prompt. ok is false when no picker is configured.
func (c Config) FuzzyCommand(prompt string) (program string, args []string, ok bool) {
	program = strings.TrimSpace(c.Interactive.FuzzyTermProgram)
	if program == "" {
		return "", nil, false
	}
	if opt := c.Interactive.FuzzyTermPromptOpt; opt != "" && prompt != "" {
		args = append(args, opt, prompt)
	}
	return program, args, true
}

// StickyDuration returns how long TUI status messages stay visible.
func (c Config) StickyDuration() time.Duration {
	return time.Duration(c.UI.StickyTimeout) * time.Second
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
