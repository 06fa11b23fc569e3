package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/dre-diagnostics/internal/config"
	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"github.com/iwvelando/dre-diagnostics/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file configuration.
const (
	EnvServerAddress = "DRE_SERVER_ADDRESS"
	EnvDatabaseDSN   = "DRE_DATABASE_DSN"
	EnvJWTSecret     = "DRE_JWT_SECRET"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Logging       config.LoggingConfig `yaml:"logging"`
	DatabaseDSN   string               `yaml:"databaseDsn"`
	JWTSecret     string               `yaml:"jwtSecret"`
	TokenTTL      string               `yaml:"tokenTTL"`
	// Paywall hides valuations from anonymous callers.
	Paywall bool   `yaml:"paywall"`
	Locale  string `yaml:"locale"`

	uploadSizeBytes int64
	tokenTTL        time.Duration
}

func defaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		DatabaseDSN:     constants.DefaultDatabaseDSN,
		TokenTTL:        constants.DefaultTokenTTL,
		Locale:          constants.DefaultLocale,
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML and applies
// environment overrides. If the file does not exist, defaults are used.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

// TokenLifetime returns the parsed session token lifetime.
func (c *Config) TokenLifetime() time.Duration {
	return c.tokenTTL
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvServerAddress); ok && strings.TrimSpace(v) != "" {
		c.Address = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDatabaseDSN); ok && strings.TrimSpace(v) != "" {
		c.DatabaseDSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvJWTSecret); ok && v != "" {
		c.JWTSecret = v
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.DatabaseDSN == "" {
		c.DatabaseDSN = constants.DefaultDatabaseDSN
	}

	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = constants.DefaultLocale
	}
	if err := validation.ValidateLocale(c.Locale); err != nil {
		return err
	}

	ttl := strings.TrimSpace(c.TokenTTL)
	if ttl == "" {
		ttl = constants.DefaultTokenTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid tokenTTL %q: %w", c.TokenTTL, err)
	}
	if d <= 0 {
		return fmt.Errorf("tokenTTL must be positive, got %s", ttl)
	}
	c.TokenTTL = ttl
	c.tokenTTL = d

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 || (multiplier > 1 && result/multiplier != n) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
