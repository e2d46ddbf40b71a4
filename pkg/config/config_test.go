package config

import (
	"os"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"tableflip.dev/moodlog/pkg/secrets"
)

func isolate(t *testing.T) string {
	t.Helper()
	gokeyring.MockInit()
	for _, k := range []string{"MOODLOG_BACKEND", "MOODLOG_PATH", "MOODLOG_DSN", "MOODLOG_DEBUG", "MOODLOG_ASSISTANT_MODEL", "GEMINI_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return t.TempDir()
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)
	cfg, err := LoadWith(Options{Dirs: []string{dir}, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendDisk {
		t.Fatalf("expected disk backend, got %q", cfg.Backend)
	}
	if cfg.Assistant.Model != defaultModel {
		t.Fatalf("expected default model, got %q", cfg.Assistant.Model)
	}
	if filepath.Base(cfg.Path) != ".moodlog" || cfg.Path == defaultPath {
		t.Fatalf("expected expanded home path, got %q", cfg.Path)
	}
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := isolate(t)
	data := "backend: sqlite\npath: " + dir + "\nassistant:\n  model: gemini-test\n"
	if err := os.WriteFile(filepath.Join(dir, ".moodlog.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MOODLOG_DEBUG", "true")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := LoadWith(Options{Dirs: []string{dir}, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.Path != dir || !cfg.Debug {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Assistant.Model != "gemini-test" || cfg.Assistant.APIKey != "env-key" {
		t.Fatalf("unexpected assistant config %+v", cfg.Assistant)
	}
	if cfg.SQLitePath() != filepath.Join(dir, "moodlog.db") {
		t.Fatalf("unexpected sqlite path %q", cfg.SQLitePath())
	}
}

func TestDotEnvAndKeyring(t *testing.T) {
	dir := isolate(t)
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("MOODLOG_BACKEND=postgres\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("MOODLOG_BACKEND") })
	if err := secrets.Set(secrets.PostgresDSN, "postgres://localhost/moodlog"); err != nil {
		t.Fatalf("set secret: %v", err)
	}

	cfg, err := LoadWith(Options{Dirs: []string{dir}, EnvFile: env})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendPostgres || cfg.DSN != "postgres://localhost/moodlog" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestUnknownBackend(t *testing.T) {
	dir := isolate(t)
	t.Setenv("MOODLOG_BACKEND", "mongo")
	if _, err := LoadWith(Options{Dirs: []string{dir}, EnvFile: filepath.Join(dir, "missing.env")}); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}
