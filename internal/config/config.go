// Package config resolves penwise settings from flags, the environment, a
// .env file and an optional penwise.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/penwise/internal/llm"
	"github.com/abhisek/penwise/internal/store"
)

// EnvPrefix is prepended to every environment key, e.g. PENWISE_PROVIDER.
const EnvPrefix = "PENWISE"

// Config is the resolved application configuration.
type Config struct {
	LLM    llm.Config
	DBPath string

	// Tick is the countdown interval of a writing session.
	Tick time.Duration

	// LogLevel is one of debug, info, warn or error. LogFormat is text or json.
	LogLevel  string
	LogFormat string

	// Source is the config file that was read, if any.
	Source string
}

// AddFlags registers the persistent flags Load understands.
func AddFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("provider", "", "LLM provider (gemini, openai, openrouter, anthropic, mock)")
	f.String("model", "", "Model name or provider model ID")
	f.String("api-keys", "", "Comma-separated API keys, rotated per request")
	f.String("base-url", "", "Override the provider endpoint")
	f.Duration("timeout", 60*time.Second, "Per-request LLM timeout")
	f.String("db", "", "SQLite database path (default: $XDG_DATA_HOME/penwise/penwise.db)")
	f.Duration("tick", time.Second, "Countdown interval")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	_ = f.MarkHidden("tick")
}

// Load resolves the configuration for cmd. Precedence, highest first:
// flags, PENWISE_* environment, .env, penwise.yaml, defaults.
func Load(cmd *cobra.Command) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	v := newViper(cmd, searchPaths())
	return fromViper(v)
}

// loadDotEnv populates unset environment variables from path. A missing
// file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func searchPaths() []string {
	paths := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "penwise"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "penwise"))
	}
	return paths
}

// newViper binds cmd's flags and the environment to a fresh viper instance
// and reads the first penwise.yaml found in paths.
func newViper(cmd *cobra.Command, paths []string) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("penwise")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LLM:    llm.DefaultConfig(),
		DBPath: v.GetString("db"),
		Tick:   v.GetDuration("tick"),
		Source: v.ConfigFileUsed(),

		LogLevel:  strings.ToLower(v.GetString("log-level")),
		LogFormat: strings.ToLower(v.GetString("log-format")),
	}

	provider := strings.ToLower(strings.TrimSpace(v.GetString("provider")))
	keys := apiKeys(v.Get("api-keys"))

	// Without explicit keys fall back to the well-known provider variables.
	if len(keys) == 0 {
		if found, ok := llm.DiscoverConfig(); ok && (provider == "" || provider == found.Provider) {
			provider = found.Provider
			keys = found.APIKeys
		}
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	cfg.LLM.APIKeys = keys
	cfg.LLM.Model = v.GetString("model")
	cfg.LLM.BaseURL = v.GetString("base-url")
	if d := v.GetDuration("timeout"); d > 0 {
		cfg.LLM.Timeout = d
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	} else if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	return cfg, nil
}

// apiKeys accepts a comma-separated string (flag, env) or a YAML list.
func apiKeys(raw any) []string {
	switch val := raw.(type) {
	case string:
		return llm.SplitKeys(val)
	case []string:
		return llm.SplitKeys(strings.Join(val, ","))
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return llm.SplitKeys(strings.Join(parts, ","))
	default:
		return nil
	}
}
