package infra

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"futures_go/internal/domain"
)

// DefaultTestnetURL is the USDT-M futures testnet REST endpoint.
const DefaultTestnetURL = "https://testnet.binancefuture.com"

// Config holds all application settings. Secrets may be left blank in the
// yaml file and supplied through the environment (or a local .env file).
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Binance struct {
			RestURL      string `yaml:"rest_url"`
			APIKey       string `yaml:"api_key"`
			APISecret    string `yaml:"api_secret"`
			RecvWindowMS int64  `yaml:"recv_window_ms"`
		} `yaml:"binance"`
	} `yaml:"api"`

	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, then overlays secrets
// from the environment. A .env file next to the binary is honored the same
// way the environment is.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity. Credential presence is checked
// separately at client construction, since demo mode runs without keys.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.Binance.RestURL, "https://") {
		return fmt.Errorf("invalid Binance REST URL: %s", c.API.Binance.RestURL)
	}
	if c.API.Binance.RecvWindowMS <= 0 {
		return fmt.Errorf("recv window must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	return nil
}

// Credentials returns the immutable API credential pair, or a
// CredentialError when either half is missing.
func (c *Config) Credentials() (key, secret string, err error) {
	key = c.API.Binance.APIKey
	secret = c.API.Binance.APISecret
	if key == "" || secret == "" {
		return "", "", &domain.CredentialError{
			Reason: "set BINANCE_API_KEY and BINANCE_API_SECRET or fill api.binance in the config",
		}
	}
	return key, secret, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.Binance.RestURL == "" {
		cfg.API.Binance.RestURL = DefaultTestnetURL
	}
	if cfg.API.Binance.RecvWindowMS == 0 {
		cfg.API.Binance.RecvWindowMS = 5000
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "logs/journal.db"
	}
}

// overrideWithEnv lets the environment win over the yaml file for secrets.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("BINANCE_API_KEY"); key != "" {
		cfg.API.Binance.APIKey = key
	}
	if secret := os.Getenv("BINANCE_API_SECRET"); secret != "" {
		cfg.API.Binance.APISecret = secret
	}
	if url := os.Getenv("BINANCE_REST_URL"); url != "" {
		cfg.API.Binance.RestURL = url
	}
}
