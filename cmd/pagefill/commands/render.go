package commands

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"git.home.luguber.info/inful/pagefill/internal/config"
	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/logfields"
	"git.home.luguber.info/inful/pagefill/internal/placeholder"
	"git.home.luguber.info/inful/pagefill/internal/resolve"
	"git.home.luguber.info/inful/pagefill/internal/util/sets"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Fragment string `arg:"" optional:"" help:"Page fragment or path, e.g. about or /about (default: home page)"`
	Root     string `name:"root" help:"Site root directory or URL (overrides config)"`
	Output   string `short:"o" name:"output" help:"Write the rendered document to this file instead of stdout"`
	Check    bool   `name:"check" help:"Fail when placeholders remain unresolved"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if r.Root != "" {
		cfg.Site.Root = r.Root
	}

	var buf bytes.Buffer
	unresolved, loadErr := RunRender(context.Background(), cfg, g.Logger, r.Fragment, &buf)
	if buf.Len() > 0 {
		if err := r.write(g, buf.Bytes()); err != nil {
			return err
		}
	}
	if loadErr != nil {
		return loadErr
	}
	if r.Check && len(unresolved) > 0 {
		for _, key := range unresolved {
			_, _ = fmt.Fprintf(stderr(g), "unresolved: {{%s}}\n", key)
		}
		return errors.ValidationError("unresolved placeholders").
			WithContext("keys", strings.Join(unresolved, ",")).
			Build()
	}
	return nil
}

func (r *RenderCmd) write(g *Global, data []byte) error {
	if r.Output == "" {
		_, err := stdout(g).Write(data)
		return err
	}
	if err := os.WriteFile(r.Output, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", r.Output).
			Build()
	}
	return nil
}

// RunRender renders one page into w and returns the placeholder keys left in
// the rendered document. A page that fell back is still written and its load
// error returned.
func RunRender(ctx context.Context, cfg *config.Config, logger *slog.Logger, fragment string, w io.Writer) ([]string, error) {
	f, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}
	shell, err := f.Fetch(ctx, cfg.Site.Shell)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(bytes.NewReader(shell))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryMalformedData, "failed to parse shell document").Build()
	}

	l := newLoader(cfg, f, logger)
	res, loadErr := l.Load(ctx, doc, &url.URL{Fragment: normalizeFragment(fragment)})
	if res == nil {
		return nil, loadErr
	}
	if err := dom.Render(w, res.Document); err != nil {
		return nil, stderrors.Join(loadErr, errors.WrapError(err, errors.CategoryInternal, "failed to render document").Build())
	}

	html, err := res.Document.Html()
	if err != nil {
		return nil, stderrors.Join(loadErr, err)
	}
	unresolved := sets.Unique(placeholder.Keys(html))
	logger.Info("Page rendered",
		logfields.LoadID(res.LoadID),
		logfields.Fragment(res.Fragment),
		slog.Bool("fallback", res.Fallback),
		slog.Int("unresolved", len(unresolved)))
	return unresolved, loadErr
}

// normalizeFragment accepts "about", "#about" and "/about". Protocol-relative
// paths are not site links and pass through unchanged.
func normalizeFragment(s string) string {
	s = strings.TrimPrefix(s, "#")
	if resolve.IsInternalLink(s) {
		return resolve.FragmentFromPath(s)
	}
	return s
}

func stdout(g *Global) io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func stderr(g *Global) io.Writer {
	if g.Stderr != nil {
		return g.Stderr
	}
	return os.Stderr
}
