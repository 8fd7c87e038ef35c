package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings shelf needs to reach its backend and catalog.
type Config struct {
	// BackendURL is the library-records service. Empty means preview mode.
	BackendURL     string
	LoginPath      string
	CatalogURL     string
	LogFile        string
	RequestTimeout time.Duration
	// SessionCookie is an optional name=value pair sent with the session check.
	SessionCookie string
}

const (
	// BackendEnv overrides backend_url from the file.
	BackendEnv = "SHELF_BACKEND_URL"

	defaultConfigPath     = "~/.config/shelf/config.toml"
	defaultLogFile        = "~/.local/state/shelf/shelf.log"
	defaultLoginPath      = "/login"
	defaultCatalogURL     = "https://www.googleapis.com/books/v1/volumes"
	defaultRequestTimeout = 10 * time.Second
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file, falling back to defaults when it is missing,
// and then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		LoginPath:      defaultLoginPath,
		CatalogURL:     defaultCatalogURL,
		LogFile:        mustExpand(defaultLogFile),
		RequestTimeout: defaultRequestTimeout,
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		cfg.BackendURL = strings.TrimSpace(raw.BackendURL)
		cfg.SessionCookie = strings.TrimSpace(raw.SessionCookie)
		if v := strings.TrimSpace(raw.LoginPath); v != "" {
			cfg.LoginPath = v
		}
		if v := strings.TrimSpace(raw.CatalogURL); v != "" {
			cfg.CatalogURL = v
		}
		if v := strings.TrimSpace(raw.LogFile); v != "" {
			cfg.LogFile = mustExpand(v)
		}
		if raw.RequestTimeout > 0 {
			cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
		}
	}

	if v, ok := os.LookupEnv(BackendEnv); ok {
		cfg.BackendURL = strings.TrimSpace(v)
	}

	return cfg, nil
}

// LoadDotEnv loads .env and .env.local from dir into the process
// environment. Variables already set are left alone and missing files are
// ignored.
func LoadDotEnv(dir string) {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(filepath.Join(dir, name))
	}
}

// PreviewMode reports whether no backend is configured.
func (c Config) PreviewMode() bool {
	return strings.TrimSpace(c.BackendURL) == ""
}

type rawConfig struct {
	BackendURL     string `toml:"backend_url"`
	LoginPath      string `toml:"login_path"`
	CatalogURL     string `toml:"catalog_url"`
	LogFile        string `toml:"log_file"`
	RequestTimeout int    `toml:"request_timeout"`
	SessionCookie  string `toml:"session_cookie"`
}

func readFile(path string) (*rawConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
