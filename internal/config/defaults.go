package config

import "time"

const defaultDebounce = 300 * time.Millisecond

// DefaultNoReplacements are the tags exempt from content component substitution.
var DefaultNoReplacements = []string{"script", "style", "template", "noscript", "code", "pre", "textarea"}

const defaultFallbackHTML = `<section><h1>Content Not Found</h1><p>This content is not currently available.</p></section>`

// Default returns the configuration used when no file is present. The
// settings match the stock site layout.
func Default() *Config {
	return &Config{
		Site: SiteConfig{Root: ".", Shell: "index.html"},
		Settings: SettingsConfig{
			DataDir:        "./src/data/",
			DataFile:       "data.json",
			ContentDir:     "./src/content/",
			ImageDir:       "./src/img/",
			NoReplacements: append([]string(nil), DefaultNoReplacements...),
			ForceLowercase: true,
		},
		Render: RenderConfig{
			Container:    "#article-content",
			Title:        "title",
			Components:   ".content-component",
			FallbackHTML: defaultFallbackHTML,
		},
		Server: ServerConfig{
			Addr:       ":8080",
			HealthPath: "/healthz",
			Metrics:    MetricsConfig{Enabled: true, Path: "/metrics"},
		},
		Build: BuildConfig{
			Output:   "./public",
			Debounce: defaultDebounce.String(),
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Example is the configuration written by Init.
func Example() *Config {
	cfg := Default()
	cfg.Site.Root = "./site"
	cfg.Fetch.Timeout = "10s"
	cfg.Settings.ForceHTTPS = true
	return cfg
}

// applyDefaults fills fields a config file explicitly blanked. NoReplacements
// is left alone: an explicit empty list disables the exemption.
func applyDefaults(cfg *Config) {
	d := Default()
	setIfEmpty(&cfg.Site.Root, d.Site.Root)
	setIfEmpty(&cfg.Site.Shell, d.Site.Shell)
	setIfEmpty(&cfg.Settings.DataDir, d.Settings.DataDir)
	setIfEmpty(&cfg.Settings.DataFile, d.Settings.DataFile)
	setIfEmpty(&cfg.Settings.ContentDir, d.Settings.ContentDir)
	setIfEmpty(&cfg.Settings.ImageDir, d.Settings.ImageDir)
	setIfEmpty(&cfg.Render.Container, d.Render.Container)
	setIfEmpty(&cfg.Render.Title, d.Render.Title)
	setIfEmpty(&cfg.Render.Components, d.Render.Components)
	setIfEmpty(&cfg.Render.FallbackHTML, d.Render.FallbackHTML)
	setIfEmpty(&cfg.Server.Addr, d.Server.Addr)
	setIfEmpty(&cfg.Server.HealthPath, d.Server.HealthPath)
	setIfEmpty(&cfg.Server.Metrics.Path, d.Server.Metrics.Path)
	setIfEmpty(&cfg.Build.Output, d.Build.Output)
	setIfEmpty(&cfg.Build.Debounce, d.Build.Debounce)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.Settings.Debug {
		cfg.Logging.Level = LogLevelDebug
	}
}

func setIfEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
