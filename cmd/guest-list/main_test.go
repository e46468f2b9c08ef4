package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"wedding-guests/internal/config"
	"wedding-guests/internal/storage"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"GUESTS_DATA_DIR", "GUESTS_STORAGE", "GUESTS_STORAGE_KEY", "EXPORT_DIR", "EVENT_TITLE",
		"LOG_LEVEL", "LOG_FORMAT", "WHATSAPP_ENABLED", "WHATSAPP_DATA_DIR", "WHATSAPP_SHARE_TO",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("HTTP_ADDR", "")
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestRunReportsInvalidConfig(t *testing.T) {
	setEnv(t, map[string]string{"GUESTS_STORAGE": "bogus"})

	err := run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GUESTS_STORAGE")
}

func TestRunClosesBackendWhenWhatsAppFails(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0644))
	setEnv(t, map[string]string{
		"GUESTS_STORAGE":    "memory",
		"WHATSAPP_ENABLED":  "true",
		"WHATSAPP_SHARE_TO": "0501234567",
		"WHATSAPP_DATA_DIR": notADir,
	})

	closed := false
	orig := openBackend
	openBackend = func(*config.Config) (storage.Backend, func(), error) {
		return storage.NewMemory(), func() { closed = true }, nil
	}
	t.Cleanup(func() { openBackend = orig })

	err := run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "initializing WhatsApp service")
	require.True(t, closed)
}

func TestOpenBackendSQLite(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir(), Storage: config.StorageSQLite, StorageKey: "guests"}

	backend, closeBackend, err := openBackend(cfg)
	require.NoError(t, err)
	require.NoError(t, backend.Save(nil))
	closeBackend()

	require.Error(t, backend.Save(nil))
	_, err = os.Stat(filepath.Join(cfg.DataDir, "guests.db"))
	require.NoError(t, err)
}
