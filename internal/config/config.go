package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the reference matching service address.
const DefaultEndpoint = "http://127.0.0.1:8080/kmer_search"

// Config holds the dnamatch configuration.
type Config struct {
	Matcher MatcherConfig `yaml:"matcher"`
	HTTP    HTTPConfig    `yaml:"http"`
	Web     WebConfig     `yaml:"web"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

// MatcherConfig holds the matching service settings.
type MatcherConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// HTTPConfig holds web UI server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// WebConfig holds web UI behaviour.
type WebConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	DefaultK       int      `yaml:"default_k"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	SampleRate  float64 `yaml:"sample_rate"`
	ServiceName string  `yaml:"service_name"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A missing file is not an error: defaults apply. A .env file in the working
// directory, if present, seeds the environment first.
func Load(env string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configPath := findConfigPath(env)
	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case err == nil:
		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	if endpoint := os.Getenv("DNAMATCH_ENDPOINT"); endpoint != "" {
		cfg.Matcher.Endpoint = endpoint
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Matcher.Endpoint == "" {
		c.Matcher.Endpoint = DefaultEndpoint
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Web.DefaultK <= 0 {
		c.Web.DefaultK = 10
	}
	if c.Tracing.SampleRate <= 0 {
		c.Tracing.SampleRate = 1
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "dnamatch"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Matcher.Endpoint)
	if err != nil {
		return fmt.Errorf("matcher.endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("matcher.endpoint must be an http(s) URL, got %q", c.Matcher.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("matcher.endpoint has no host: %q", c.Matcher.Endpoint)
	}
	if c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be in (0, 1], got %v", c.Tracing.SampleRate)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
