// Package config reads server settings from an optional .env file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultDataDir = "UKAirPollutionData"
	DefaultAddr    = ":8080"
	DefaultTopK    = 100
)

type Config struct {
	DataDir     string
	Addr        string
	Workers     int // 0 means runtime.NumCPU()
	TopK        int
	LoadTimeout time.Duration // 0 means no timeout
}

// Load reads .env (if present) and then AIRQ_* variables. Bad values keep
// their defaults; the returned warnings name each one that was ignored.
func Load() (Config, []error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, []error) {
	cfg := Config{
		DataDir: DefaultDataDir,
		Addr:    DefaultAddr,
		TopK:    DefaultTopK,
	}
	var warns []error

	if v := getenv("AIRQ_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("AIRQ_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("AIRQ_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Workers = n
		} else {
			warns = append(warns, fmt.Errorf("AIRQ_WORKERS=%q: want a non-negative integer", v))
		}
	}
	if v := getenv("AIRQ_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopK = n
		} else {
			warns = append(warns, fmt.Errorf("AIRQ_TOP_K=%q: want a positive integer", v))
		}
	}
	if v := getenv("AIRQ_LOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.LoadTimeout = d
		} else {
			warns = append(warns, fmt.Errorf("AIRQ_LOAD_TIMEOUT=%q: want a duration such as 30s", v))
		}
	}
	return cfg, warns
}
