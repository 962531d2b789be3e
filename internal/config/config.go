// Package config loads pagefill configuration from YAML.
//
// Load order: .env files, ${VAR} expansion, YAML decode over Default(),
// normalization, defaults for emptied fields, validation.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "pagefill.yaml"

// Config is the complete pagefill configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Settings SettingsConfig `yaml:"settings"`
	Render   RenderConfig   `yaml:"render"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Server   ServerConfig   `yaml:"server"`
	Build    BuildConfig    `yaml:"build"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig locates the site. Root is a directory or an http(s) URL.
type SiteConfig struct {
	Root  string `yaml:"root"`
	Shell string `yaml:"shell"` // shell document, relative to Root
}

// SettingsConfig carries the site script settings.
type SettingsConfig struct {
	DataDir        string   `yaml:"data_dir"`
	DataFile       string   `yaml:"data_file"`
	ContentDir     string   `yaml:"content_dir"`
	ImageDir       string   `yaml:"image_dir"`
	NoReplacements []string `yaml:"no_replacements"`
	ForceHTTPS     bool     `yaml:"force_https"`
	ForceWWW       bool     `yaml:"force_www"`
	ForceSlash     bool     `yaml:"force_slash"`
	ForceLowercase bool     `yaml:"force_lowercase"`
	Debug          bool     `yaml:"debug"`
}

// RenderConfig selects the shell elements the renderer touches.
type RenderConfig struct {
	Container    string `yaml:"container"`
	Title        string `yaml:"title"`
	Components   string `yaml:"components"`
	FallbackHTML string `yaml:"fallback_html"`
}

// FetchConfig tunes resource fetching. An empty timeout means none.
type FetchConfig struct {
	Timeout string `yaml:"timeout"`
}

// ServerConfig configures `pagefill serve`.
type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	HealthPath string        `yaml:"health_path"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// BuildConfig configures `pagefill build`.
type BuildConfig struct {
	Output   string `yaml:"output"`
	Debounce string `yaml:"debounce"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// FetchTimeout returns the parsed fetch timeout (0 when unset).
func (c *Config) FetchTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Fetch.Timeout)
	return d
}

// BuildDebounce returns the parsed watch debounce interval.
func (c *Config) BuildDebounce() time.Duration {
	d, err := time.ParseDuration(c.Build.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// Load reads, expands, normalizes, defaults and validates the config at path.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", path).
				UserAction().
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// LoadOrDefault loads path when it exists. A missing file at the default
// location yields Default(); a missing explicit path is an error.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil && !explicit && stderrors.Is(err, fs.ErrNotExist) {
		if err := loadEnvFile(); err != nil {
			return nil, err
		}
		cfg := Default()
		return cfg, finalize(cfg)
	}
	return Load(path)
}

// Parse decodes YAML data (after ${VAR} expansion) over Default().
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, errors.ConfigError("failed to parse config").WithCause(err).Build()
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finalize(cfg *Config) error {
	normalizeConfig(cfg)
	applyDefaults(cfg)
	return validateConfig(cfg)
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			UserAction().
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	out := append([]byte("# pagefill configuration\n"), data...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
