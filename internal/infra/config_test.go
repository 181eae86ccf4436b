package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"futures_go/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const minimalConfig = `
app:
  name: test
api:
  binance:
    rest_url: https://testnet.binancefuture.com
server:
  addr: ":8080"
`

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Binance.RecvWindowMS != 5000 {
		t.Errorf("expected default recv window 5000, got %d", cfg.API.Binance.RecvWindowMS)
	}
	if cfg.Journal.Path == "" {
		t.Error("journal path default missing")
	}
}

func TestLoadConfig_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "env-key")
	t.Setenv("BINANCE_API_SECRET", "env-secret")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	key, secret, err := cfg.Credentials()
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}
	if key != "env-key" || secret != "env-secret" {
		t.Errorf("env override not applied: %s / %s", key, secret)
	}
}

func TestLoadConfig_RejectsPlainHTTP(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
api:
  binance:
    rest_url: http://testnet.binancefuture.com
server:
  addr: ":8080"
`))
	if err == nil {
		t.Fatal("expected error for non-https URL")
	}
}

func TestCredentials_MissingIsCredentialError(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	_, _, err = cfg.Credentials()
	var credErr *domain.CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected *CredentialError, got %v", err)
	}
}

func TestRedactKey(t *testing.T) {
	if got := RedactKey("abcdefgh"); got != "abcd****" {
		t.Errorf("unexpected redaction: %s", got)
	}
	if got := RedactKey("ab"); got != "****" {
		t.Errorf("short keys must be fully masked: %s", got)
	}
}
