package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Unsetenv(%s): %v", key, err)
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetEnv(t, BackendEnv)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "" || !cfg.PreviewMode() {
		t.Fatalf("BackendURL = %q, want empty (preview)", cfg.BackendURL)
	}
	if cfg.LoginPath != defaultLoginPath {
		t.Fatalf("LoginPath = %q, want %q", cfg.LoginPath, defaultLoginPath)
	}
	if cfg.CatalogURL != defaultCatalogURL {
		t.Fatalf("CatalogURL = %q, want %q", cfg.CatalogURL, defaultCatalogURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}

	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetEnv(t, BackendEnv)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
backend_url = "  https://books.example.com  "
login_path = "/auth/login"
catalog_url = "http://localhost:9000/volumes"
log_file = "  ~/logs/shelf.log  "
request_timeout = 3
session_cookie = "sid=abc"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "https://books.example.com" {
		t.Fatalf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.PreviewMode() {
		t.Fatalf("PreviewMode = true with backend set")
	}
	if cfg.LoginPath != "/auth/login" {
		t.Fatalf("LoginPath = %q", cfg.LoginPath)
	}
	if cfg.CatalogURL != "http://localhost:9000/volumes" {
		t.Fatalf("CatalogURL = %q", cfg.CatalogURL)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "shelf.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.SessionCookie != "sid=abc" {
		t.Fatalf("SessionCookie = %q", cfg.SessionCookie)
	}
}

func TestLoad_EnvOverridesBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`backend_url = "https://file.example.com"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv(BackendEnv, " https://env.example.com ")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "https://env.example.com" {
		t.Fatalf("BackendURL = %q, want env value", cfg.BackendURL)
	}

	t.Setenv(BackendEnv, "")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.PreviewMode() {
		t.Fatalf("empty %s should force preview, got %q", BackendEnv, cfg.BackendURL)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	unsetEnv(t, BackendEnv)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
login_path = "   "
catalog_url = ""
request_timeout = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LoginPath != defaultLoginPath || cfg.CatalogURL != defaultCatalogURL {
		t.Fatalf("cfg = %#v, want defaults", cfg)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`backend_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SHELF_TEST_A=from-env-file\nSHELF_TEST_B=from-env-file\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env.local"), []byte("SHELF_TEST_B=from-local\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("SHELF_TEST_A", "real")
	unsetEnv(t, "SHELF_TEST_B")

	LoadDotEnv(dir)

	if got := os.Getenv("SHELF_TEST_A"); got != "real" {
		t.Fatalf("SHELF_TEST_A = %q, want real", got)
	}
	if got := os.Getenv("SHELF_TEST_B"); got != "from-local" {
		t.Fatalf("SHELF_TEST_B = %q, want from-local", got)
	}
}

func TestLoadDotEnv_MissingFilesIgnored(t *testing.T) {
	LoadDotEnv(t.TempDir())
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
