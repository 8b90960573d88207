package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Sweep
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret        string        // HMAC signing secret; generated at startup if empty
		TokenExpiry      time.Duration // Bearer token lifetime (default: 24h)
		BcryptCost       int           // bcrypt cost factor
		MaxLoginAttempts int           // Max failed attempts before lockout
		RateLimitWindow  time.Duration // Window for counting attempts
		LockoutDuration  time.Duration // Lockout duration
	}
	Sweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8187)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("jwt_secret", "")           // Auto-generated if empty
	v.SetDefault("token_expiry", "24h")      // 1 day, matching token claims
	v.SetDefault("bcrypt_cost", 10)          // bcrypt cost factor
	v.SetDefault("max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("lockout_duration", "30m")  // Lockout duration

	// Overdue sweep defaults
	v.SetDefault("overdue_sweep_enabled", true)
	v.SetDefault("overdue_sweep_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:        v.GetString("JWT_SECRET"),
			TokenExpiry:      v.GetDuration("TOKEN_EXPIRY"),
			BcryptCost:       v.GetInt("BCRYPT_COST"),
			MaxLoginAttempts: v.GetInt("MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("LOCKOUT_DURATION"),
		},
		Sweep: Sweep{
			Enabled:  v.GetBool("OVERDUE_SWEEP_ENABLED"),
			Schedule: v.GetString("OVERDUE_SWEEP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
