package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadFrom(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": "s3cret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Auth.JWTAlgorithm != "HS256" {
		t.Errorf("expected HS256, got %q", cfg.Auth.JWTAlgorithm)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("expected 30m ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Store.Driver != StoreDriverPostgres {
		t.Errorf("expected postgres driver, got %q", cfg.Store.Driver)
	}
	if !cfg.Store.AutoMigrate {
		t.Error("expected auto migrate to default to true")
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("expected 24h idempotency ttl, got %v", cfg.Redis.IdempotencyTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":    "s3cret",
		"JWT_ALGORITHM": "HS512",
		"TOKEN_TTL":     "5m",
		"STORE_DRIVER":  "sqlite",
		"DATABASE_URL":  "file:accounts.db",
		"AUTO_MIGRATE":  "false",
		"REDIS_ADDR":    "localhost:6379",
		"ENV":           "production",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Auth.JWTAlgorithm != "HS512" || cfg.Auth.TokenTTL != 5*time.Minute {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Store.Driver != StoreDriverSQLite || cfg.Store.DatabaseURL != "file:accounts.db" || cfg.Store.AutoMigrate {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr %q", cfg.Redis.Addr)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production env")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(t, map[string]string{}); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"driver", map[string]string{"STORE_DRIVER": "oracle"}, "STORE_DRIVER"},
		{"algorithm", map[string]string{"JWT_ALGORITHM": "RS256"}, "JWT_ALGORITHM"},
		{"ttl", map[string]string{"TOKEN_TTL": "-1m"}, "TOKEN_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.env["JWT_SECRET"] = "s3cret"
			_, err := load(t, tt.env)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
