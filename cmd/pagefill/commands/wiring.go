package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/pagefill/internal/config"
	"git.home.luguber.info/inful/pagefill/internal/fetch"
	"git.home.luguber.info/inful/pagefill/internal/loader"
	"git.home.luguber.info/inful/pagefill/internal/normalize"
	"git.home.luguber.info/inful/pagefill/internal/snapshot"
)

func loaderSettings(cfg *config.Config) loader.Settings {
	return loader.Settings{
		DataDir:      cfg.Settings.DataDir,
		DataFile:     cfg.Settings.DataFile,
		ContentDir:   cfg.Settings.ContentDir,
		Container:    cfg.Render.Container,
		FallbackHTML: cfg.Render.FallbackHTML,
	}
}

func newRenderer(cfg *config.Config, logger *slog.Logger) *snapshot.Renderer {
	return snapshot.NewRenderer(snapshot.Options{
		TitleSelector:     cfg.Render.Title,
		ComponentSelector: cfg.Render.Components,
		NoReplacements:    cfg.Settings.NoReplacements,
		Logger:            logger,
	})
}

func newNormalizer(cfg *config.Config) *normalize.Normalizer {
	return normalize.New(normalize.Options{
		ForceHTTPS:     cfg.Settings.ForceHTTPS,
		ForceWWW:       cfg.Settings.ForceWWW,
		ForceSlash:     cfg.Settings.ForceSlash,
		ForceLowercase: cfg.Settings.ForceLowercase,
	})
}

func newFetcher(cfg *config.Config) (fetch.Fetcher, error) {
	return fetch.New(cfg.Site.Root, cfg.FetchTimeout())
}

// newLoader builds a loader for cfg. Extra options override the defaults.
func newLoader(cfg *config.Config, f fetch.Fetcher, logger *slog.Logger, opts ...loader.Option) *loader.Loader {
	base := []loader.Option{
		loader.WithLogger(logger),
		loader.WithRenderer(newRenderer(cfg, logger)),
	}
	return loader.New(loaderSettings(cfg), f, append(base, opts...)...)
}

// staticDirs are the site directories served or copied unmodified.
func staticDirs(cfg *config.Config) []string {
	return []string{cfg.Settings.DataDir, cfg.Settings.ContentDir, cfg.Settings.ImageDir}
}
