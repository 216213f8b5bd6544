package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// App holds the settings the server and CLI read from the environment.
type App struct {
	Port            string
	LogLevel        string
	JWTSecret       string
	JWTTTL          time.Duration
	MongoDB         string
	RematchSchedule string
	MatchCacheTTL   time.Duration
}

func LoadApp() (*App, error) {
	a := &App{
		Port:            getenv("PORT", "8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		MongoDB:         getenv("MONGO_DB", "gigmatch"),
		RematchSchedule: getenv("REMATCH_SCHEDULE", "@every 6h"),
	}
	if a.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	var err error
	if a.JWTTTL, err = durationEnv("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if a.MatchCacheTTL, err = durationEnv("MATCH_CACHE_TTL", 60*time.Second); err != nil {
		return nil, err
	}

	// "off" disables the sweeper
	if a.RematchSchedule == "off" {
		a.RematchSchedule = ""
	}
	if a.RematchSchedule != "" {
		if _, err := cron.ParseStandard(a.RematchSchedule); err != nil {
			return nil, fmt.Errorf("REMATCH_SCHEDULE: %w", err)
		}
	}
	return a, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
