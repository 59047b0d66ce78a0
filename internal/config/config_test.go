package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:             "8080",
		SQLiteDBPath:     "./data/splits.db",
		JWTSecret:        "secret",
		TokenDuration:    24 * time.Hour,
		GroupLockTimeout: 5 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "non-numeric port",
			mutate:  func(c *Config) { c.Port = "http" },
			wantErr: "invalid port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: "invalid port",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "zero token duration",
			mutate:  func(c *Config) { c.TokenDuration = 0 },
			wantErr: "TOKEN_DURATION",
		},
		{
			name:    "negative lock timeout",
			mutate:  func(c *Config) { c.GroupLockTimeout = -time.Second },
			wantErr: "GROUP_LOCK_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_DURATION", "")
	t.Setenv("GROUP_LOCK_TIMEOUT", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v, want 24h", cfg.TokenDuration)
	}
	if cfg.GroupLockTimeout != 5*time.Second {
		t.Errorf("GroupLockTimeout = %v, want 5s", cfg.GroupLockTimeout)
	}
}
