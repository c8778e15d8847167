// Package config loads mdsync settings from an optional YAML file and
// MDSYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/mdsync/internal/markdown"
)

const envPrefix = "MDSYNC"

// Config holds the complete application configuration
type Config struct {
	Markdown markdown.Options `mapstructure:"markdown" yaml:"markdown"`
	Editor   EditorConfig     `mapstructure:"editor" yaml:"editor"`
	Logging  LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

type EditorConfig struct {
	TabWidth int `mapstructure:"tab_width" yaml:"tab_width"`
	// KeepCRLF writes CRLF line endings back when the file was loaded with them.
	KeepCRLF bool `mapstructure:"keep_crlf" yaml:"keep_crlf"`
	// Command and Clipboard override the external editor and clipboard
	// programs found on PATH. Both accept shell-style quoting.
	Command   string `mapstructure:"command" yaml:"command"`
	Clipboard string `mapstructure:"clipboard" yaml:"clipboard"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// Console selects human readable output instead of JSON lines.
	Console bool `mapstructure:"console" yaml:"console"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Markdown: markdown.DefaultOptions(),
		Editor: EditorConfig{
			TabWidth: 4,
			KeepCRLF: true,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			Console: true,
		},
	}
}

// Load reads path (or, when empty, mdsync.yaml from the working directory
// and $HOME/.config/mdsync) on top of the defaults, then applies MDSYNC_*
// environment overrides such as MDSYNC_EDITOR_TAB_WIDTH. A missing default
// file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mdsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mdsync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed in the types.
func (c *Config) Validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("invalid editor.tab_width %d (must be 1-16)", c.Editor.TabWidth)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// LogLevel returns the configured level, falling back to warn.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return level
}

// WriteFile stores the configuration as YAML, creating parent directories.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath is where `mdsync config init` writes the configuration.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "mdsync", "mdsync.yaml")
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("markdown.tables", d.Markdown.Tables)
	v.SetDefault("markdown.strikethrough", d.Markdown.Strikethrough)
	v.SetDefault("markdown.autolink", d.Markdown.Autolink)
	v.SetDefault("markdown.tasklist", d.Markdown.TaskList)
	v.SetDefault("markdown.footnotes", d.Markdown.Footnotes)
	v.SetDefault("markdown.description_lists", d.Markdown.DescriptionLists)
	v.SetDefault("markdown.front_matter", d.Markdown.FrontMatter)
	v.SetDefault("editor.tab_width", d.Editor.TabWidth)
	v.SetDefault("editor.keep_crlf", d.Editor.KeepCRLF)
	v.SetDefault("editor.command", d.Editor.Command)
	v.SetDefault("editor.clipboard", d.Editor.Clipboard)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.console", d.Logging.Console)
}
