package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagefill/internal/config"
)

// Global is shared state passed to every command's Run.
type Global struct {
	Logger *slog.Logger
	// Stdout and Stderr default to the process streams; tests replace them.
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default ${config_path} when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render one page of the site to stdout or a file"`
	Build  BuildCmd  `cmd:"" help:"Prerender every page of a local site"`
	Serve  ServeCmd  `cmd:"" help:"Serve the site, rendering pages per request"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; logging is set up once config is known.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(g.Stderr, level, config.LogFormatText)
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig loads the configuration named by -c, or the default file when
// present, and reconfigures logging from it.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	path, explicit := c.Config, c.Config != ""
	if !explicit {
		path = config.DefaultPath
	}
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.Slog()
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(g.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	g.Logger.Debug("Configuration loaded", slog.String("path", path), slog.String("root", cfg.Site.Root))
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
