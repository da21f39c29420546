package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
// Values come from an optional YAML file, then .env, then the process environment (highest priority)
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	API      APIConfig     `yaml:"api"`
	Session  SessionConfig `yaml:"session"`
	MockAPI  MockAPIConfig `yaml:"mockapi"`
	CORS     CORSConfig    `yaml:"cors"`
	LogLevel string        `yaml:"log_level"`
}

type ServerConfig struct {
	Port            string `yaml:"port"`
	Host            string `yaml:"host"`
	ReadTimeout     int    `yaml:"read_timeout"`
	WriteTimeout    int    `yaml:"write_timeout"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

// APIConfig points at the remote catalog API the admin screens are backed by
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Secret      string        `yaml:"secret"`
	CookieName  string        `yaml:"cookie_name"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Secure      bool          `yaml:"secure"`
}

type MockAPIConfig struct {
	Port     string `yaml:"port"`
	SeedFile string `yaml:"seed_file"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
		},
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			CookieName:  "shop_admin_session",
			IdleTimeout: 30 * time.Minute,
		},
		MockAPI: MockAPIConfig{
			Port: "3000",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		LogLevel: "info",
	}
}

// Load reads configuration from CONFIG_FILE (optional), .env (optional) and environment variables
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getEnvAsInt("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.API.BaseURL = getEnv("API_BASE_URL", c.API.BaseURL)
	c.API.Timeout = getEnvAsDuration("API_TIMEOUT", c.API.Timeout)

	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	c.Session.CookieName = getEnv("SESSION_COOKIE", c.Session.CookieName)
	c.Session.IdleTimeout = getEnvAsDuration("SESSION_IDLE_TIMEOUT", c.Session.IdleTimeout)
	c.Session.Secure = getEnvAsBool("SESSION_SECURE", c.Session.Secure)

	c.MockAPI.Port = getEnv("MOCKAPI_PORT", c.MockAPI.Port)
	c.MockAPI.SeedFile = getEnv("MOCKAPI_SEED_FILE", c.MockAPI.SeedFile)

	c.CORS.AllowedOrigins = getEnvAsSlice("CORS_ORIGINS", c.CORS.AllowedOrigins)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// ValidateSession checks the cookie signing settings. Only the admin server
// signs cookies, so Load leaves this to its caller.
func (c *Config) ValidateSession() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if strings.EqualFold(c.Session.Secret, placeholderSecret) {
		return fmt.Errorf("SESSION_SECRET is a placeholder value, set a random secret")
	}
	return nil
}

// placeholderSecret is the example value from the docs; it must never sign cookies
const placeholderSecret = "change-me-in-production"

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration strings ("5s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
