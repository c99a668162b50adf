package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	AppDirName      = ".claim-ledger"
	DefaultDBFile   = "claim-ledger.db"
	DefaultDataPerm = 0o755

	EnvDBPath     = "CLAIM_LEDGER_DB_PATH"
	EnvSubjectDID = "CLAIM_LEDGER_SUBJECT_DID"
	EnvLogLevel   = "CLAIM_LEDGER_LOG_LEVEL"
)

func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	dir := filepath.Join(home, AppDirName)
	if err := os.MkdirAll(dir, DefaultDataPerm); err != nil {
		return "", fmt.Errorf("create data directory %q: %w", dir, err)
	}

	return dir, nil
}

// DefaultDBPath prefers CLAIM_LEDGER_DB_PATH over the per-user data directory.
func DefaultDBPath() (string, error) {
	if fromEnv := EnvOrDefault(EnvDBPath, ""); fromEnv != "" {
		return fromEnv, nil
	}

	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, DefaultDBFile), nil
}

func EnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
