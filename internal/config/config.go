// Package config reads the console configuration from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type Config struct {
	// HTTP server
	ListenAddress string

	// Ledger backend
	BackendURL     string
	BackendTimeout time.Duration

	// backendTimeout is BACKEND_TIMEOUT as set, checked by Validate
	backendTimeout string

	// Display
	CurrencyLocale string
	Currency       string
	Timezone       string

	// Logging
	GinMode   string
	LogFormat string
}

func Load() *Config {
	timeout := getEnv("BACKEND_TIMEOUT", "")

	return &Config{
		ListenAddress: getEnv("LISTEN_ADDRESS", ":8080"),

		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8000"),
		BackendTimeout: parseDuration(timeout),
		backendTimeout: timeout,

		CurrencyLocale: getEnv("CURRENCY_LOCALE", "en-US"),
		Currency:       getEnv("CURRENCY", ""),
		Timezone:       getEnv("TIMEZONE", "Local"),

		// gin uses debug as the default mode, we use release
		GinMode:   getEnv("GIN_MODE", "release"),
		LogFormat: getEnv("LOG_FORMAT", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, port, err := net.SplitHostPort(c.ListenAddress); err != nil || port == "" {
		errors = append(errors, fmt.Sprintf("invalid listen address '%s': must be host:port or :port", c.ListenAddress))
	}

	if parsed, err := url.Parse(c.BackendURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid backend URL '%s': %v", c.BackendURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid backend URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	}

	if _, err := time.ParseDuration(c.backendTimeout); c.backendTimeout != "" && err != nil {
		errors = append(errors, fmt.Sprintf("invalid backend timeout '%s': must be a duration like 5s or 1m30s", c.backendTimeout))
	} else if c.BackendTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid backend timeout %v: must not be negative", c.BackendTimeout))
	}

	if _, err := c.Language(); err != nil {
		errors = append(errors, err.Error())
	}

	if _, err := c.CurrencyUnit(); err != nil {
		errors = append(errors, err.Error())
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, err.Error())
	}

	validModes := []string{"debug", "release", "test"}
	if !slices.Contains(validModes, c.GinMode) {
		errors = append(errors, fmt.Sprintf("invalid gin mode '%s': must be one of %v", c.GinMode, validModes))
	}

	if c.LogFormat != "" && c.LogFormat != "human" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'human' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SetBackendTimeout overrides the timeout read from the environment.
func (c *Config) SetBackendTimeout(d time.Duration) {
	c.BackendTimeout = d
	c.backendTimeout = ""
}

// Language returns the locale amounts and timestamps are formatted for.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.CurrencyLocale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid currency locale '%s': %v", c.CurrencyLocale, err)
	}
	return tag, nil
}

// CurrencyUnit returns the configured currency. If none is configured,
// the zero Unit is returned and the currency of the locale applies.
func (c *Config) CurrencyUnit() (currency.Unit, error) {
	if c.Currency == "" {
		return currency.Unit{}, nil
	}

	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("invalid currency '%s': must be an ISO 4217 code", c.Currency)
	}
	return unit, nil
}

// Location returns the time zone timestamps are displayed in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone '%s': %v", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration returns zero for values Validate rejects.
func parseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
