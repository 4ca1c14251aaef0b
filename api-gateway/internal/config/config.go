// config - источник загрузки конфигурации для API Gateway.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Service   ServiceConfig   `yaml:"service"`
	Upstreams UpstreamConfig  `yaml:"upstreams"`
	Cookie    CookieConfig    `yaml:"cookie"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// TimeoutConfig — таймаут сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// HTTPConfig — публичный REST-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// MetricsConfig — отдельный HTTP для Prometheus.
type MetricsConfig struct {
	Host string `yaml:"host"   env:"METRICS_HOST"   env-default:"0.0.0.0"`
	Port string `yaml:"port"   env:"METRICS_PORT"   env-default:"50085"`
}

func (m MetricsConfig) Addr() string { return net.JoinHostPort(m.Host, m.Port) }

// ServiceConfig — идентичность шлюза: issuer исходящих межсервисных токенов.
type ServiceConfig struct {
	Name string `yaml:"name" env:"GATEWAY_SERVICE_NAME" env-default:"api-gateway"`
}

// UpstreamConfig — базовые URL внутренних HTTP-сервисов.
type UpstreamConfig struct {
	AuthURL    string `yaml:"auth_url"    env:"AUTH_SERVICE_URL"    env-default:"http://localhost:50081"`
	CatalogURL string `yaml:"catalog_url" env:"CATALOG_SERVICE_URL" env-default:"http://localhost:50082"`
	StreamURL  string `yaml:"stream_url"  env:"STREAM_SERVICE_URL"  env-default:"http://localhost:50083"`
	AdminURL   string `yaml:"admin_url"   env:"ADMIN_SERVICE_URL"   env-default:"http://localhost:50084"`
	SearchURL  string `yaml:"search_url"  env:"SEARCH_SERVICE_URL"  env-default:"http://localhost:50086"`
}

// CookieConfig — параметры httpOnly refresh-cookie.
type CookieConfig struct {
	Name   string `yaml:"name"   env:"REFRESH_COOKIE_NAME"   env-default:"refresh_token"`
	Path   string `yaml:"path"   env:"REFRESH_COOKIE_PATH"   env-default:"/auth"`
	Secure bool   `yaml:"secure" env:"REFRESH_COOKIE_SECURE" env-default:"true"`
}

// RateLimitConfig — лимиты скользящего окна для публичных ручек.
type RateLimitConfig struct {
	AuthLimit    int           `yaml:"auth_limit"    env:"RATE_LIMIT_AUTH"          env-default:"10"`
	AuthWindow   time.Duration `yaml:"auth_window"   env:"RATE_LIMIT_AUTH_WINDOW"   env-default:"1m"`
	SearchLimit  int           `yaml:"search_limit"  env:"RATE_LIMIT_SEARCH"        env-default:"30"`
	SearchWindow time.Duration `yaml:"search_window" env:"RATE_LIMIT_SEARCH_WINDOW" env-default:"1m"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}
