package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultDBPathPrefersEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv(EnvDBPath, want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default db path: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDefaultDBPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDBPath, "")

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default db path: %v", err)
	}
	if got != filepath.Join(home, AppDirName, DefaultDBFile) {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv(EnvLogLevel, "  ")
	if got := EnvOrDefault(EnvLogLevel, "warn"); got != "warn" {
		t.Fatalf("expected fallback for blank env, got %q", got)
	}

	t.Setenv(EnvLogLevel, "debug")
	if got := EnvOrDefault(EnvLogLevel, "warn"); got != "debug" {
		t.Fatalf("expected env value, got %q", got)
	}
}
