// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kresus/backend/pkg/duplicates"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

var ErrAPIURLMissing = errors.New("environment variable API_URL must be set")

// Config is the complete server configuration.
type Config struct {
	Host        string
	Port        string
	APIURL      *url.URL
	DataDir     string
	GinMode     string // Empty when GIN_MODE is not set
	LogFormat   string // Empty when LOG_FORMAT is not set
	CORSOrigins []string
	EnablePprof bool

	PythonExec   string
	WeboobScript string
	WeboobDir    string
	WeboobDebug  bool

	DefaultCurrency    string
	Locale             string
	DefaultAccountID   string
	DuplicateThreshold time.Duration
	Demo               bool
}

// Address is the address the HTTP server listens on.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// DatabasePath is the path of the SQLite database in the data directory.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "kresus.sqlite")
}

func lookup(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func lookupBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

// Load reads a .env file from the working directory if there is one, then
// builds the configuration from the environment.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env file, using the environment only")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the environment.
func FromEnv() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	c := Config{
		Host:               lookup("HOST", "127.0.0.1"),
		Port:               lookup("PORT", "9876"),
		DataDir:            lookup("KRESUS_DIR", filepath.Join(home, ".kresus")),
		GinMode:            lookup("GIN_MODE", ""),
		LogFormat:          lookup("LOG_FORMAT", ""),
		CORSOrigins:        strings.Fields(lookup("CORS_ALLOW_ORIGINS", "")),
		PythonExec:         lookup("KRESUS_PYTHON_EXEC", "python2"),
		WeboobScript:       lookup("KRESUS_WEBOOB_SCRIPT", filepath.Join(".", "weboob", "main.py")),
		WeboobDir:          lookup("KRESUS_WEBOOB_DIR", lookup("WEBOOB_DIR", "")),
		DefaultCurrency:    lookup("KRESUS_DEFAULT_CURRENCY", "EUR"),
		Locale:             lookup("KRESUS_LOCALE", "en"),
		DefaultAccountID:   lookup("KRESUS_DEFAULT_ACCOUNT_ID", ""),
		DuplicateThreshold: duplicates.DefaultThreshold,
	}

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok || apiURL == "" {
		return Config{}, ErrAPIURLMissing
	}

	c.APIURL, err = url.Parse(apiURL)
	if err != nil {
		return Config{}, fmt.Errorf("API_URL must be a valid URL: %w", err)
	}

	if c.EnablePprof, err = lookupBool("ENABLE_PPROF", false); err != nil {
		return Config{}, err
	}

	if c.WeboobDebug, err = lookupBool("KRESUS_WEBOOB_DEBUG", false); err != nil {
		return Config{}, err
	}

	if c.Demo, err = lookupBool("KRESUS_DEMO", false); err != nil {
		return Config{}, err
	}

	unit, err := currency.ParseISO(c.DefaultCurrency)
	if err != nil {
		return Config{}, fmt.Errorf("KRESUS_DEFAULT_CURRENCY must be an ISO 4217 code: %w", err)
	}
	c.DefaultCurrency = unit.String()

	tag, err := language.Parse(c.Locale)
	if err != nil {
		return Config{}, fmt.Errorf("KRESUS_LOCALE must be a BCP 47 language tag: %w", err)
	}
	c.Locale = tag.String()

	// The threshold is given in hours
	if threshold, ok := os.LookupEnv("KRESUS_DUPLICATE_THRESHOLD"); ok && threshold != "" {
		hours, err := strconv.ParseFloat(threshold, 64)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("KRESUS_DUPLICATE_THRESHOLD must be a positive number of hours, got %q", threshold)
		}
		c.DuplicateThreshold = time.Duration(hours * float64(time.Hour))
	}

	return c, nil
}
