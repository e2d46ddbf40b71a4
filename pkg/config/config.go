// Package config loads moodlog settings from .moodlog.yaml, .env and the
// MOODLOG_ environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/moodlog/pkg/secrets"
)

// Backends.
const (
	BackendDisk     = "disk"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const (
	defaultPath     = "~/.moodlog"
	defaultModel    = "gemini-1.5-flash"
	defaultEndpoint = "https://generativelanguage.googleapis.com"
)

// Config is the resolved configuration.
type Config struct {
	Backend   string    `json:"backend"`
	Path      string    `json:"path"`
	DSN       string    `json:"-"`
	Debug     bool      `json:"debug"`
	Assistant Assistant `json:"assistant"`
	// File is the config file that was read, if any.
	File string `json:"file,omitempty"`
}

// Assistant configures the chat collaborator.
type Assistant struct {
	Model    string `json:"model"`
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"-"`
}

// BasePath is the data directory. It satisfies store.Config.
func (c *Config) BasePath() string {
	return c.Path
}

// SQLitePath is the database file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Path, "moodlog.db")
}

// FlagsPath is the directory of the durable flag store.
func (c *Config) FlagsPath() string {
	return filepath.Join(c.Path, ".flags")
}

// Options controls where Load looks. The zero value is the normal search.
type Options struct {
	// Dirs replaces the config search path.
	Dirs []string
	// EnvFile is the dotenv file to read; empty means ./.env.
	EnvFile string
}

// Load reads configuration using the default search path.
func Load() (*Config, error) {
	return LoadWith(Options{})
}

// LoadWith reads configuration. Values resolve in order: environment,
// config file, defaults. Secrets fall back to the OS keyring.
func LoadWith(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		_ = godotenv.Load(opts.EnvFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetDefault("backend", BackendDisk)
	v.SetDefault("path", defaultPath)
	v.SetDefault("dsn", "")
	v.SetDefault("debug", false)
	v.SetDefault("assistant.model", defaultModel)
	v.SetDefault("assistant.endpoint", defaultEndpoint)

	v.SetConfigName(".moodlog") // .yaml is implicit
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MOODLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dirs := opts.Dirs
	if len(dirs) == 0 {
		if override := os.Getenv("MOODLOG_CONFIG_PATH"); override != "" {
			dirs = append(dirs, override)
		}
		dirs = append(dirs, "./")
		if home, err := homedir.Dir(); err == nil {
			dirs = append(dirs, home)
		}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}

	cfg := &Config{
		Backend: strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		Path:    path,
		DSN:     v.GetString("dsn"),
		Debug:   v.GetBool("debug"),
		Assistant: Assistant{
			Model:    v.GetString("assistant.model"),
			Endpoint: strings.TrimRight(v.GetString("assistant.endpoint"), "/"),
		},
		File: v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == BackendPostgres {
		cfg.DSN = secrets.Lookup(cfg.DSN, secrets.PostgresDSN)
	}
	cfg.Assistant.APIKey = secrets.Lookup(os.Getenv("GEMINI_API_KEY"), secrets.AssistantKey)
	return cfg, nil
}

// Validate checks the backend name.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendDisk, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown backend %q (want disk, sqlite or postgres)", c.Backend)
	}
	if c.Path == "" {
		return errors.New("config: path required")
	}
	return nil
}
