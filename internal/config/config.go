package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGlamourStyle = "dark"
	EnvPrefix           = "BUILD_IN_PUBLIC"
	appName             = "build-in-public"
)

// Keys understood in the config file and as BUILD_IN_PUBLIC_* variables.
const (
	KeyClaudeHome    = "claude_home"
	KeyDBPath        = "db_path"
	KeyOutputDir     = "output_dir"
	KeyTwitterStyle  = "twitter_style"
	KeyLinkedInStyle = "linkedin_style"
	KeyHistory       = "history"
	KeyGlamourStyle  = "glamour_style"
)

type AppConfig struct {
	ClaudeHome    string `yaml:"claude_home" mapstructure:"claude_home"`
	DBPath        string `yaml:"db_path" mapstructure:"db_path"`
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	TwitterStyle  string `yaml:"twitter_style" mapstructure:"twitter_style"`
	LinkedInStyle string `yaml:"linkedin_style" mapstructure:"linkedin_style"`
	History       bool   `yaml:"history" mapstructure:"history"`
	GlamourStyle  string `yaml:"glamour_style" mapstructure:"glamour_style"`
}

// DefaultPath is the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.yaml"), nil
}

// New builds a viper instance with defaults, BUILD_IN_PUBLIC_* env binding
// and the config file at path (DefaultPath when empty). A missing file is
// not an error.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyClaudeHome, "")
	v.SetDefault(KeyDBPath, "")
	v.SetDefault(KeyOutputDir, "")
	v.SetDefault(KeyTwitterStyle, "ship")
	v.SetDefault(KeyLinkedInStyle, "professional")
	v.SetDefault(KeyHistory, true)
	v.SetDefault(KeyGlamourStyle, DefaultGlamourStyle)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return v, nil
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if explicit {
				return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
			}
			return v, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// Resolve unmarshals v and fills in derived paths.
func Resolve(v *viper.Viper) (AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	var err error
	cfg.ClaudeHome, err = DetectClaudeHome(cfg.ClaudeHome)
	if err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath, err = DefaultDBPath()
		if err != nil {
			return cfg, err
		}
	}
	if cfg.GlamourStyle == "" {
		cfg.GlamourStyle = DefaultGlamourStyle
	}
	return cfg, nil
}

// DefaultDBPath is where run history lives unless db_path says otherwise.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName, "history.sqlite"), nil
}

// YAML renders cfg the way it would appear in a config file.
func (cfg AppConfig) YAML() ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

func DetectClaudeHome(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Clean(explicit), nil
	}
	if fromEnv := os.Getenv("CLAUDE_HOME"); fromEnv != "" {
		return filepath.Clean(fromEnv), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude"), nil
}
