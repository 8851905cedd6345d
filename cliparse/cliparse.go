package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	JWTSecret     string
	AdminEmail    string
	SweepInterval time.Duration
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("campus-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", 0, "Election status sweep interval")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&cfg.AdminEmail, "admin-email", "", "Bootstrap admin email (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.SweepInterval == 0 {
		if intervalStr := os.Getenv("SWEEP_INTERVAL"); intervalStr != "" {
			interval, err := time.ParseDuration(intervalStr)
			if err != nil {
				return Config{}, errors.New("invalid SWEEP_INTERVAL env variable")
			}
			cfg.SweepInterval = interval
		} else {
			cfg.SweepInterval = time.Minute // default
		}
	}
	if cfg.SweepInterval < 0 {
		return Config{}, errors.New("sweep interval must not be negative")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.AdminEmail == "" {
		cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	}
	if cfg.AdminEmail == "" {
		return Config{}, errors.New("ADMIN_EMAIL required")
	}

	return cfg, nil
}
