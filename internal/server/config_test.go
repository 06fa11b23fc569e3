package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/dre-diagnostics/pkg/constants"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvServerAddress, EnvDatabaseDSN, EnvJWTSecret} {
		t.Setenv(key, "")
	}
}

func writeServerConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	clearServerEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Errorf("Address = %q, want %q", cfg.Address, constants.DefaultServerAddress)
	}
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Errorf("UploadSizeBytes = %d", cfg.UploadSizeBytes())
	}
	if cfg.DatabaseDSN != constants.DefaultDatabaseDSN {
		t.Errorf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
	if cfg.TokenLifetime() != 12*time.Hour {
		t.Errorf("TokenLifetime = %s", cfg.TokenLifetime())
	}
	if cfg.Locale != constants.DefaultLocale || cfg.Paywall {
		t.Errorf("unexpected locale/paywall defaults: %q %v", cfg.Locale, cfg.Paywall)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearServerEnv(t)

	path := writeServerConfig(t, `address: 127.0.0.1:9000
maxUploadSize: 2M
logging:
  level: debug
  format: console
databaseDsn: /tmp/dre-test.db
jwtSecret: from-file
tokenTTL: 30m
paywall: true
locale: pt-BR
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Errorf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Errorf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.DatabaseDSN != "/tmp/dre-test.db" || cfg.JWTSecret != "from-file" {
		t.Errorf("unexpected dsn/secret %q %q", cfg.DatabaseDSN, cfg.JWTSecret)
	}
	if cfg.TokenLifetime() != 30*time.Minute {
		t.Errorf("TokenLifetime = %s", cfg.TokenLifetime())
	}
	if !cfg.Paywall || cfg.Locale != constants.LocalePortuguese {
		t.Errorf("unexpected paywall/locale %v %q", cfg.Paywall, cfg.Locale)
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeServerConfig(t, "address: :7000\njwtSecret: from-file\n")
	t.Setenv(EnvServerAddress, ":9999")
	t.Setenv(EnvDatabaseDSN, "file:env.db")
	t.Setenv(EnvJWTSecret, "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != ":9999" || cfg.DatabaseDSN != "file:env.db" || cfg.JWTSecret != "from-env" {
		t.Errorf("environment not applied: %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	clearServerEnv(t)

	tests := map[string]string{
		"bad size":    "maxUploadSize: invalid",
		"bad ttl":     "tokenTTL: forever",
		"zero ttl":    "tokenTTL: 0s",
		"bad locale":  "locale: xx-invalid-locale-tag",
		"broken yaml": "address: [",
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeServerConfig(t, contents)); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, bad := range []string{"1TB", "abc", "2G"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
