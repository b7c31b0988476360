// README: Config loader with env defaults for HTTP, Redis, DB, backend APIs, and agent settings.
package config

import (
	"os"
	"strconv"
	"time"
)

type AgentConfig struct {
	MaxIterations int
	Deadline      time.Duration
}

type DriversConfig struct {
	PageSize   int
	MaxPerTrip int
}

type BackendConfig struct {
	CreateTripURL   string
	CancelTripURL   string
	DriversURL      string
	AvailabilityURL string
	Timeout         time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		Addr string
	}
	DB struct {
		// DSN is optional; empty disables the trip audit log.
		DSN string
	}
	AI struct {
		GeminiKey string
	}
	Maps struct {
		// APIKey is optional; empty disables geocoding and road-distance estimates.
		APIKey string
	}
	Session struct {
		TTL time.Duration
	}
	Backend BackendConfig
	Drivers DriversConfig
	Agent   AgentConfig
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("CABBOT_HTTP_ADDR", ":8080")
	cfg.Redis.Addr = envOrDefault("CABBOT_REDIS_ADDR", "localhost:6379")
	cfg.DB.DSN = envOrDefault("CABBOT_DB_DSN", "")
	cfg.AI.GeminiKey = envOrError("GEMINI_API_KEY")
	cfg.Maps.APIKey = envOrDefault("CABBOT_MAPS_KEY", "")
	cfg.Session.TTL = time.Duration(envOrDefaultInt("CABBOT_SESSION_TTL_HOURS", 1)) * time.Hour

	cfg.Backend.CreateTripURL = envOrDefault("CABBOT_CREATE_TRIP_URL", "")
	cfg.Backend.CancelTripURL = envOrDefault("CABBOT_CANCEL_TRIP_URL", "")
	cfg.Backend.DriversURL = envOrDefault("CABBOT_DRIVERS_URL", "")
	cfg.Backend.AvailabilityURL = envOrDefault("CABBOT_AVAILABILITY_URL", "")
	cfg.Backend.Timeout = time.Duration(envOrDefaultInt("CABBOT_BACKEND_TIMEOUT_SECONDS", 20)) * time.Second

	cfg.Drivers.PageSize = envOrDefaultInt("CABBOT_DRIVERS_PER_FETCH", 10)
	cfg.Drivers.MaxPerTrip = envOrDefaultInt("CABBOT_MAX_DRIVERS_PER_TRIP", 60)

	cfg.Agent.MaxIterations = envOrDefaultInt("CABBOT_AGENT_MAX_ITERATIONS", 6)
	cfg.Agent.Deadline = time.Duration(envOrDefaultInt("CABBOT_AGENT_DEADLINE_SECONDS", 30)) * time.Second
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrError(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	panic("environment variable " + key + " is required")
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
