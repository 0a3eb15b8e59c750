package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment.
type Config struct {
	// HTTP server
	Port     string
	BindAddr string

	// Remote financial API
	APIURL string

	// Session cookie signing
	SessionSecret string
	SecureCookie  bool
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "3000"),
		BindAddr:      getEnv("BIND_ADDR", "0.0.0.0"),
		APIURL:        getEnv("API_URL", "http://localhost:8080"),
		SessionSecret: getEnv("SESSION_SECRET", "segredo"),
		SecureCookie:  getEnvBool("SECURE_COOKIE", false),
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if u, err := url.Parse(c.APIURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid API URL '%s': %v", c.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if strings.TrimSpace(c.SessionSecret) == "" {
		errs = append(errs, "session secret cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
