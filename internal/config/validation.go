package config

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
)

// validateConfig reports the first invalid field.
func validateConfig(c *Config) error {
	checks := []func(*Config) error{
		validateLogging,
		validateDurations,
		validateServer,
		validateSettings,
	}
	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, message string, value any) error {
	return errors.ValidationError(message).
		WithContext("field", field).
		WithContext("value", value).
		UserAction().
		Build()
}

func validateLogging(c *Config) error {
	if NormalizeLogLevel(string(c.Logging.Level)) == "" {
		return invalid("logging.level", "invalid log level", c.Logging.Level)
	}
	if NormalizeLogFormat(string(c.Logging.Format)) == "" {
		return invalid("logging.format", "invalid log format", c.Logging.Format)
	}
	return nil
}

func validateDurations(c *Config) error {
	if c.Fetch.Timeout != "" {
		d, err := time.ParseDuration(c.Fetch.Timeout)
		if err != nil || d < 0 {
			return invalid("fetch.timeout", "invalid duration", c.Fetch.Timeout)
		}
	}
	d, err := time.ParseDuration(c.Build.Debounce)
	if err != nil || d <= 0 {
		return invalid("build.debounce", "invalid duration", c.Build.Debounce)
	}
	return nil
}

func validateServer(c *Config) error {
	if !strings.HasPrefix(c.Server.HealthPath, "/") {
		return invalid("server.health_path", "path must start with /", c.Server.HealthPath)
	}
	if !strings.HasPrefix(c.Server.Metrics.Path, "/") {
		return invalid("server.metrics.path", "path must start with /", c.Server.Metrics.Path)
	}
	if c.Server.Metrics.Enabled && c.Server.Metrics.Path == c.Server.HealthPath {
		return invalid("server.metrics.path", "metrics and health paths must differ", c.Server.Metrics.Path)
	}
	return nil
}

func validateSettings(c *Config) error {
	if strings.ContainsAny(c.Settings.DataFile, "/\\") {
		return invalid("settings.data_file", "data file must be a file name", c.Settings.DataFile)
	}
	for _, p := range []struct{ field, value string }{
		{"settings.data_dir", c.Settings.DataDir},
		{"settings.content_dir", c.Settings.ContentDir},
		{"settings.image_dir", c.Settings.ImageDir},
	} {
		if strings.Contains(p.value, "..") {
			return invalid(p.field, "directory must stay inside the site root", p.value)
		}
	}
	for _, tag := range c.Settings.NoReplacements {
		if tag == "" || strings.ContainsAny(tag, " <>/") {
			return invalid("settings.no_replacements", "invalid tag name", tag)
		}
	}
	return nil
}
