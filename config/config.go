// Package config holds the storefront configuration parsed by ardanlabs/conf.
package config

import (
	"fmt"
	"time"

	"github.com/ardanlabs/conf/v3"
)

const (
	Testing    = "testing"
	Production = "production"
)

type Config struct {
	conf.Version
	Args        conf.Args
	Environment string `conf:"default:testing,help:testing or production; selects the API domain"`
	Domains     Domains
	Integration Integration
	Client      Client
	Storage     Storage
	Auth        Auth
	Sandbox     Sandbox
	Log         Log
}

// Domains maps each environment to the API base URL. An empty production
// domain means the client is served from the API origin and must be set
// explicitly when running outside of it.
type Domains struct {
	Testing    string `conf:"default:http://127.0.0.1:5000"`
	Production string
}

// Integration is the base of the /users and /orders helper.
type Integration struct {
	URL string `conf:"default:http://127.0.0.1:5000"`
}

type Client struct {
	Timeout time.Duration `conf:"default:10s"`
}

type Storage struct {
	Driver         string        `conf:"default:sqlite,help:sqlite or postgres or memory"`
	DSN            string        `conf:"default:storefront.db,mask"`
	PersistTimeout time.Duration `conf:"default:5s"`
}

type Auth struct {
	ThrottleBurst  int           `conf:"default:0,help:login attempts allowed per email before throttling; 0 disables"`
	ThrottleEvery  time.Duration `conf:"default:1m"`
	ThrottleExpiry time.Duration `conf:"default:30m"`
}

type Sandbox struct {
	Address         string        `conf:"default:127.0.0.1:5000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
	SigningKey      string        `conf:"mask,help:HS256 key for sandbox tokens; random when empty"`
	AccessLifetime  time.Duration `conf:"default:15m"`
	RefreshLifetime time.Duration `conf:"default:168h"`
}

type Log struct {
	Level string `conf:"default:info"`
}

// BaseURL resolves the configured environment to the API domain.
func (c Config) BaseURL() (string, error) {
	switch c.Environment {
	case Testing:
		if c.Domains.Testing == "" {
			return "", fmt.Errorf("no domain configured for environment %q", Testing)
		}
		return c.Domains.Testing, nil
	case Production:
		if c.Domains.Production == "" {
			return "", fmt.Errorf("no domain configured for environment %q", Production)
		}
		return c.Domains.Production, nil
	}
	return "", fmt.Errorf("unknown environment %q", c.Environment)
}
