package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/pagefill/internal/config"
	"git.home.luguber.info/inful/pagefill/internal/loader"
	"git.home.luguber.info/inful/pagefill/internal/metrics"
	"git.home.luguber.info/inful/pagefill/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Root string `name:"root" help:"Site root directory or URL (overrides config)"`
	Addr string `name:"addr" help:"Listen address (overrides config)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if s.Root != "" {
		cfg.Site.Root = s.Root
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := NewServer(cfg, g)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// NewServer wires the fetcher, loader, metrics and router for cfg.
func NewServer(cfg *config.Config, g *Global) (*server.Server, error) {
	f, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Server.Metrics.Enabled {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	l := newLoader(cfg, f, g.Logger,
		loader.WithNormalizer(newNormalizer(cfg)),
		loader.WithRecorder(recorder))

	return server.New(server.Options{
		Addr:           cfg.Server.Addr,
		Loader:         l,
		Fetcher:        f,
		ShellPath:      cfg.Site.Shell,
		StaticDirs:     staticDirs(cfg),
		HealthPath:     cfg.Server.HealthPath,
		MetricsPath:    cfg.Server.Metrics.Path,
		MetricsHandler: metricsHandler,
		Logger:         g.Logger,
	}), nil
}
