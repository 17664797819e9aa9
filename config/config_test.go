package config

import (
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/conf/v3"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		exp     string
		wantErr bool
	}{
		{
			name: "testing",
			cfg:  Config{Environment: Testing, Domains: Domains{Testing: "http://127.0.0.1:5000"}},
			exp:  "http://127.0.0.1:5000",
		},
		{
			name: "production",
			cfg:  Config{Environment: Production, Domains: Domains{Testing: "http://127.0.0.1:5000", Production: "https://store.example"}},
			exp:  "https://store.example",
		},
		{
			name:    "production without domain",
			cfg:     Config{Environment: Production, Domains: Domains{Testing: "http://127.0.0.1:5000"}},
			wantErr: true,
		},
		{
			name:    "unknown environment",
			cfg:     Config{Environment: "staging"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.BaseURL()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.exp {
				t.Fatalf("expected %q, got %q", tt.exp, got)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	args := os.Args
	defer func() { os.Args = args }()
	os.Args = []string{"storefront", "cart", "show"}

	t.Setenv("STOREFRONT_STORAGE_DRIVER", "memory")

	var cfg Config
	if _, err := conf.Parse("STOREFRONT", &cfg); err != nil {
		t.Fatalf("parsing config: %v", err)
	}

	if cfg.Environment != Testing {
		t.Fatalf("expected default environment %q, got %q", Testing, cfg.Environment)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("expected env override, got %q", cfg.Storage.Driver)
	}
	if cfg.Client.Timeout != 10*time.Second {
		t.Fatalf("unexpected client timeout %v", cfg.Client.Timeout)
	}
	if cfg.Args.Num(0) != "cart" || cfg.Args.Num(1) != "show" {
		t.Fatalf("unexpected args %v", cfg.Args)
	}
}
