// Package config provides configuration management for the contract suite.
//
// Values are resolved in order: built-in defaults, an optional YAML file,
// an optional .env file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the public demo service the suite targets.
const DefaultBaseURL = "https://reqres.in/"

// Config holds the suite configuration
type Config struct {
	Service ServiceConfig `yaml:"service"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LogConfig     `yaml:"logging"`
	Checks  ChecksConfig  `yaml:"checks"`
}

// ServiceConfig describes the service under test
type ServiceConfig struct {
	BaseURL     string            `yaml:"base_url"`
	ContentType string            `yaml:"content_type"`
	Headers     map[string]string `yaml:"headers"`
}

// HTTPConfig holds HTTP client settings
type HTTPConfig struct {
	// Timeout is the overall per-request limit; zero keeps the client default.
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls request/response logging
type LogConfig struct {
	Level string `yaml:"level"`
	// Bodies includes full response bodies in log lines, not only their digest.
	Bodies bool `yaml:"bodies"`
}

// ChecksConfig holds tolerances used by assertions
type ChecksConfig struct {
	// TimestampTolerance bounds the skew accepted between a server timestamp
	// and the local clock.
	TimestampTolerance time.Duration `yaml:"timestamp_tolerance"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:     DefaultBaseURL,
			ContentType: "application/json",
			Headers:     map[string]string{},
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
		Checks: ChecksConfig{
			TimestampTolerance: 2 * time.Second,
		},
	}
}

// configPaths are searched in order when REQRES_CONFIG is not set.
var configPaths = []string{"config.yaml", "config/config.yaml"}

// Load reads configuration from file and environment.
//
// .env and the config file are looked up in the working directory and then
// in each parent up to the module root (the first directory holding go.mod),
// so tests run from a package directory see the repository files. A relative
// REQRES_CONFIG is resolved against the working directory.
func Load() (*Config, error) {
	dirs, err := searchDirs()
	if err != nil {
		return nil, err
	}

	// .env is optional
	if envFile, ok := findFile(dirs, ".env"); ok {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg := Default()

	path := os.Getenv("REQRES_CONFIG")
	if path == "" {
		path, _ = findFile(dirs, configPaths...)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(expandString(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	// headers whose placeholder expanded to nothing are not sent
	maps.DeleteFunc(cfg.Service.Headers, func(_, v string) bool { return v == "" })

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// searchDirs returns the working directory followed by its parents up to
// and including the module root. Outside a module only the working
// directory is searched.
func searchDirs() ([]string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	dirs := []string{wd}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dirs, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return []string{wd}, nil
		}
		dir = parent
		dirs = append(dirs, dir)
	}
}

// findFile returns the first existing regular file among names, trying every
// name in a directory before moving to the next one.
func findFile(dirs []string, names ...string) (string, bool) {
	for _, dir := range dirs {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
				return p, true
			}
		}
	}
	return "", false
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid service.base_url %q: %w", c.Service.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service.base_url %q must be absolute", c.Service.BaseURL)
	}
	if c.Service.ContentType == "" {
		return errors.New("service.content_type must not be empty")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative, got %s", c.HTTP.Timeout)
	}
	if c.Checks.TimestampTolerance < 0 {
		return fmt.Errorf("checks.timestamp_tolerance must not be negative, got %s", c.Checks.TimestampTolerance)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("REQRES_BASE_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("REQRES_CONTENT_TYPE"); v != "" {
		cfg.Service.ContentType = v
	}
	if v := os.Getenv("REQRES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REQRES_LOG_BODIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REQRES_LOG_BODIES %q: %w", v, err)
		}
		cfg.Logging.Bodies = b
	}
	if v := os.Getenv("REQRES_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REQRES_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTP.Timeout = d
	}
	if v := os.Getenv("REQRES_TIMESTAMP_TOLERANCE"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REQRES_TIMESTAMP_TOLERANCE %q: %w", v, err)
		}
		cfg.Checks.TimestampTolerance = d
	}
	return nil
}

// parseDuration accepts either plain integers (seconds) or Go duration strings.
func parseDuration(val string) (time.Duration, error) {
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(val)
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandString replaces ${VAR} and ${VAR:-default} placeholders. Unset
// variables without a default are left untouched.
func expandString(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)
		name, hasDefault, def := parts[1], parts[2] != "", parts[3]
		if v := os.Getenv(name); v != "" {
			return v
		}
		if hasDefault {
			return def
		}
		return m
	})
}
