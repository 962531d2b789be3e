package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/pagefill/internal/build"
	"git.home.luguber.info/inful/pagefill/internal/config"
	"git.home.luguber.info/inful/pagefill/internal/fetch"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Root   string `name:"root" help:"Local site directory (overrides config)"`
	Output string `short:"o" name:"output" help:"Output directory (overrides config)"`
	Watch  bool   `short:"w" name:"watch" help:"Rebuild when files under the site root change"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if b.Root != "" {
		cfg.Site.Root = b.Root
	}
	if b.Output != "" {
		cfg.Build.Output = b.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := RunBuild(ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	printSummary(g, res)
	if !b.Watch {
		return nil
	}

	return build.Watch(ctx, build.WatchOptions{
		Root:     cfg.Site.Root,
		Ignore:   []string{cfg.Build.Output},
		Debounce: cfg.BuildDebounce(),
		Logger:   g.Logger,
	}, func(ctx context.Context) {
		g.Logger.Info("Change detected; rebuilding site")
		res, err := RunBuild(ctx, cfg, g.Logger)
		if err != nil {
			g.Logger.Warn("Rebuild failed", logfields.Error(err))
			return
		}
		printSummary(g, res)
	})
}

// RunBuild prerenders the local site described by cfg into cfg.Build.Output.
func RunBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*build.BuildResult, error) {
	if strings.HasPrefix(cfg.Site.Root, "http://") || strings.HasPrefix(cfg.Site.Root, "https://") {
		return nil, errors.ValidationError("build requires a local site directory").
			WithContext("root", cfg.Site.Root).
			UserAction().
			Build()
	}
	info, err := os.Stat(cfg.Site.Root)
	if err != nil || !info.IsDir() {
		return nil, errors.ConfigError("site root is not a directory").WithContext("root", cfg.Site.Root).Build()
	}

	site := os.DirFS(cfg.Site.Root)
	// Prerendered pages have no request URL, so no normalizer is attached.
	l := newLoader(cfg, fetch.NewFSFetcher(site), logger)
	svc := build.NewBuildService(l).WithLogger(logger)
	return svc.Run(ctx, build.BuildRequest{
		Site:       site,
		OutputDir:  cfg.Build.Output,
		ShellPath:  cfg.Site.Shell,
		ContentDir: cfg.Settings.ContentDir,
		StaticDirs: staticDirs(cfg),
	})
}

func printSummary(g *Global, res *build.BuildResult) {
	out := stdout(g)
	_, _ = fmt.Fprintf(out, "Build %s: %d pages, %d files copied to %s (%s)\n",
		res.Status, len(res.Pages), res.FilesCopied, res.OutputPath, res.Duration.Round(time.Millisecond))
	for _, p := range res.FailedPages() {
		rel := p.OutputPath
		if r, err := filepath.Rel(res.OutputPath, p.OutputPath); err == nil {
			rel = r
		}
		_, _ = fmt.Fprintf(out, "  failed: %s (%v)\n", rel, p.Err)
	}
}
