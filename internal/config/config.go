package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inkpress/core/internal/pkg/mail"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 8057
	defaultEnv      = "development"
	defaultDSN      = "root:password@tcp(127.0.0.1:3306)/inkpress?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL = "redis://localhost:6379/0"

	// DefaultTokenTTL is the fixed access token lifetime. Session records
	// and revocation tombstones derive their expiry from it.
	DefaultTokenTTL = 2 * time.Hour
)

// AppConfig holds runtime startup configuration.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production"
	DSN            string // MySQL DSN
	RedisURL       string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	SiteURL        string
	Mail           mail.Config
}

// fileConfig mirrors the YAML layout; token_ttl is a Go duration
// string ("2h", "30m").
type fileConfig struct {
	Port           int         `yaml:"port"`
	Env            string      `yaml:"env"`
	DSN            string      `yaml:"dsn"`
	RedisURL       string      `yaml:"redis_url"`
	JWTSecret      string      `yaml:"jwt_secret"`
	TokenTTL       string      `yaml:"token_ttl"`
	AllowedOrigins []string    `yaml:"allowed_origins"`
	SiteURL        string      `yaml:"site_url"`
	Mail           mail.Config `yaml:"mail"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return strings.EqualFold(c.Env, "development") }

// Load reads the YAML config file, applies environment overrides and
// fills defaults. A missing file is not an error; env/defaults apply.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Port = fc.Port
		cfg.Env = fc.Env
		cfg.DSN = fc.DSN
		cfg.RedisURL = fc.RedisURL
		cfg.JWTSecret = fc.JWTSecret
		cfg.AllowedOrigins = fc.AllowedOrigins
		cfg.SiteURL = fc.SiteURL
		cfg.Mail = fc.Mail
		if fc.TokenTTL != "" {
			d, err := time.ParseDuration(fc.TokenTTL)
			if err != nil {
				return nil, fmt.Errorf("parse config %s: token_ttl: %w", path, err)
			}
			cfg.TokenTTL = d
		}
	case os.IsNotExist(err):
		// fall through to env/defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("INKPRESS_PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv("INKPRESS_ENV")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("INKPRESS_DSN")); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("INKPRESS_REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("INKPRESS_JWT_SECRET")); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("INKPRESS_TOKEN_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("INKPRESS_SITE_URL")); v != "" {
		cfg.SiteURL = v
	}
	if v := strings.TrimSpace(os.Getenv("INKPRESS_ALLOWED_ORIGINS")); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		cfg.DSN = defaultDSN
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
}
