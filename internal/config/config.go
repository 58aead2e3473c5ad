package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by Load.
const (
	EnvSecretKey    = "SECRET_KEY"
	EnvDebug        = "DEBUG"
	EnvAllowedHosts = "ALLOWED_HOSTS"
	EnvPort         = "PORT"
)

const (
	defaultEnvFile      = ".env"
	defaultSecretKey    = "insecure-dev-key-do-not-use-in-production"
	defaultDebug        = true
	defaultAllowedHosts = "localhost,127.0.0.1"
	defaultPort         = "8080"
)

// Settings aggregates runtime configuration resolved from multiple sources.
// Precedence: Environment variables > .env file > Defaults. The struct is
// built once at startup and never mutated afterwards.
type Settings struct {
	SecretKey    string
	Debug        bool
	AllowedHosts []string

	Port                string
	ShutdownGracePeriod time.Duration
	ReadHeaderTimeout   time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	EnvFile string
	Port    *string
}

// Load resolves settings. The .env file, if present, is parsed as KEY=VALUE
// lines into the process environment; variables already set in the ambient
// environment are never overwritten, so hosted providers that inject
// configuration always win over a checked-in development file. Named keys
// are then read from the environment with literal fallback defaults.
//
// A missing .env at the default path is not an error. An explicitly
// requested file that cannot be read is.
func Load(overrides *CLIOverrides) (Settings, error) {
	envFile := defaultEnvFile
	explicit := false
	if overrides != nil && overrides.EnvFile != "" {
		envFile = overrides.EnvFile
		explicit = true
	}

	if err := loadEnvFile(envFile, explicit); err != nil {
		return Settings{}, err
	}

	cfg := Settings{
		SecretKey:    envString(EnvSecretKey, defaultSecretKey),
		Debug:        envBool(EnvDebug, defaultDebug),
		AllowedHosts: envList(EnvAllowedHosts, defaultAllowedHosts),

		Port:                envString(EnvPort, defaultPort),
		ShutdownGracePeriod: 10 * time.Second,
		ReadHeaderTimeout:   5 * time.Second,
		WriteTimeout:        15 * time.Second,
		IdleTimeout:         60 * time.Second,
	}

	if overrides != nil && overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if err := validateSettings(cfg); err != nil {
		return Settings{}, err
	}

	return cfg, nil
}

// loadEnvFile parses the file into the process environment via godotenv.
// godotenv.Load skips keys the environment already defines.
func loadEnvFile(path string, explicit bool) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) && !explicit {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

// validateSettings validates the final configuration. The secret key needs
// no check here: envString substitutes the fallback for empty or unset
// values, so it is never empty.
func validateSettings(cfg Settings) error {
	if len(cfg.AllowedHosts) == 0 {
		return fmt.Errorf("%s must contain at least one host", EnvAllowedHosts)
	}
	return nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return parseBool(v)
}

func envList(key, fallback string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		v = fallback
	}
	return splitHostList(v)
}

// parseBool returns true for "true", "1", "yes" (case-insensitive).
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// splitHostList splits a comma-separated host string into trimmed tokens,
// dropping empty entries and preserving order.
func splitHostList(raw string) []string {
	parts := strings.Split(raw, ",")
	hosts := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		hosts = append(hosts, part)
	}
	return hosts
}
