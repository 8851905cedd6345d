// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ADMIN_EMAIL", "admin@campusvote.test")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Port)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("Expected default sweep interval 1m, got %s", cfg.SweepInterval)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	os.Clearenv()
	os.Setenv("PORT", "8080")
	os.Setenv("DATABASE_URL", "postgres://env-db")
	os.Setenv("SWEEP_INTERVAL", "30s")
	os.Setenv("JWT_SECRET", "env-secret")
	os.Setenv("ADMIN_EMAIL", "admin@campusvote.test")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080 from env, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://env-db" {
		t.Errorf("Expected env database URL, got %s", cfg.DatabaseURL)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("Expected sweep interval 30s, got %s", cfg.SweepInterval)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("Expected env JWT secret, got %s", cfg.JWTSecret)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Clearenv()
	os.Setenv("PORT", "8080")
	os.Setenv("DATABASE_URL", "postgres://env-db")
	os.Setenv("JWT_SECRET", "env-secret")
	os.Setenv("ADMIN_EMAIL", "admin@campusvote.test")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "9090", "-d", "postgres://cli-db"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Expected CLI port 9090, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://cli-db" {
		t.Errorf("Expected CLI database URL, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database URL",
			env: map[string]string{
				"JWT_SECRET":  "s",
				"ADMIN_EMAIL": "a@b.c",
			},
		},
		{
			name: "missing JWT secret",
			env: map[string]string{
				"DATABASE_URL": "postgres://test",
				"ADMIN_EMAIL":  "a@b.c",
			},
		},
		{
			name: "missing admin email",
			env: map[string]string{
				"DATABASE_URL": "postgres://test",
				"JWT_SECRET":   "s",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tc.env {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			if _, err := ParseFlags([]string{}); err == nil {
				t.Error("Expected error for missing required setting, got nil")
			}
		})
	}
}

func TestParseFlags_InvalidValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("PORT", "not-a-number")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("JWT_SECRET", "s")
	os.Setenv("ADMIN_EMAIL", "a@b.c")
	defer os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("Expected error for invalid PORT, got nil")
	}

	os.Setenv("PORT", "3000")
	os.Setenv("SWEEP_INTERVAL", "soon")
	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("Expected error for invalid SWEEP_INTERVAL, got nil")
	}
}
