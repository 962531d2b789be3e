package loader

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/fetch"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/frontmatter"
	"git.home.luguber.info/inful/pagefill/internal/logfields"
	"git.home.luguber.info/inful/pagefill/internal/metrics"
	"git.home.luguber.info/inful/pagefill/internal/observability"
	"git.home.luguber.info/inful/pagefill/internal/placeholder"
	"git.home.luguber.info/inful/pagefill/internal/records"
	"git.home.luguber.info/inful/pagefill/internal/resolve"
	"git.home.luguber.info/inful/pagefill/internal/snapshot"
)

// Phase names a step of the load cycle.
type Phase string

const (
	PhaseNormalize Phase = "normalize"
	PhaseSite      Phase = "site"
	PhasePage      Phase = "page"
	PhaseRender    Phase = "render"
	PhaseDone      Phase = "done"
)

// Resource kinds reported to the metrics recorder.
const (
	fetchKindData    = "data"
	fetchKindContent = "content"
)

// Normalizer computes the canonical navigation URL. ok reports that the
// cycle must stop and redirect to target.
type Normalizer interface {
	Normalize(u *url.URL) (target *url.URL, ok bool)
}

// Result is everything one cycle produced. The shell document is mutated in
// place and returned as Document.
type Result struct {
	LoadID string
	// Phase is the last phase entered; PhaseDone after a complete cycle.
	Phase    Phase
	Document *goquery.Document
	Fragment string
	Redirect *url.URL

	Site        records.Site
	Page        records.Page
	ContentPath string
	Content     *frontmatter.Document
	Table       placeholder.Table
	Snapshot    snapshot.Snapshot
	Stats       snapshot.Stats

	SiteErr  error
	PageErr  error
	Fallback bool
}

// Err joins the phase errors of the cycle.
func (r *Result) Err() error {
	return stderrors.Join(r.SiteErr, r.PageErr)
}

// Option customizes a Loader.
type Option func(*Loader)

// WithNormalizer enables the normalize phase.
func WithNormalizer(n Normalizer) Option {
	return func(l *Loader) { l.normalizer = n }
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *snapshot.Renderer) Option {
	return func(l *Loader) { l.renderer = r }
}

// WithRecorder installs a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Loader) { l.recorder = r }
}

// WithLogger sets the logger for cycle diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithClock overrides the time source used for derived record fields.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// Loader runs load cycles. It holds no per-cycle state and is safe for
// concurrent use as long as each call gets its own shell document.
type Loader struct {
	settings   Settings
	fetcher    fetch.Fetcher
	normalizer Normalizer
	renderer   *snapshot.Renderer
	recorder   metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a Loader that reads resources through fetcher.
func New(settings Settings, fetcher fetch.Fetcher, opts ...Option) *Loader {
	l := &Loader{
		settings: settings.withDefaults(),
		fetcher:  fetcher,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.renderer == nil {
		l.renderer = snapshot.NewRenderer(snapshot.Options{Logger: l.logger})
	}
	return l
}

// Settings returns the effective settings.
func (l *Loader) Settings() Settings { return l.settings }

// Load runs one cycle against shell for the navigation URL nav, whose
// fragment selects the page (an empty or nil nav selects the home page).
// The Result is returned whenever shell is usable; the error joins the site
// and page failures so callers can inspect both.
func (l *Loader) Load(ctx context.Context, shell *goquery.Document, nav *url.URL) (*Result, error) {
	if shell == nil {
		return nil, errors.ValidationError("shell document is required").Build()
	}
	start := time.Now()
	res := &Result{
		LoadID:   uuid.NewString(),
		Document: shell,
		Table:    placeholder.Table{},
	}
	if nav != nil {
		res.Fragment = strings.TrimPrefix(nav.Fragment, "#")
	}

	ctx = observability.WithLoadID(ctx, res.LoadID)
	if res.Fragment != "" {
		ctx = observability.WithFragment(ctx, res.Fragment)
	}
	observability.DebugContext(ctx, l.logger, "Load started")

	if target, redirect := l.normalize(ctx, res, nav); redirect {
		res.Redirect = target
		observability.InfoContext(ctx, l.logger, "Redirecting to canonical URL", logfields.URL(target.String()))
		l.finish(ctx, res, start, metrics.OutcomeRedirect)
		return res, nil
	}

	steps := []struct {
		phase Phase
		run   func(context.Context, *Result) error
	}{
		{PhaseSite, l.loadSite},
		{PhasePage, l.loadPage},
		{PhaseRender, l.render},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			l.finish(ctx, res, start, metrics.OutcomeCanceled)
			canceled := errors.WrapError(err, errors.CategoryRuntime, "load canceled").
				WithContext("phase", string(res.Phase)).
				Build()
			return res, stderrors.Join(res.Err(), canceled)
		}
		err := l.runPhase(ctx, res, step.phase, step.run)
		switch step.phase {
		case PhaseSite:
			res.SiteErr = err
		case PhasePage:
			res.PageErr = err
		}
	}
	res.Phase = PhaseDone

	outcome := metrics.OutcomeSuccess
	switch {
	case res.PageErr != nil:
		outcome = metrics.OutcomeFallback
	case res.SiteErr != nil:
		outcome = metrics.OutcomeDegraded
	}
	l.finish(ctx, res, start, outcome)
	return res, res.Err()
}

func (l *Loader) runPhase(ctx context.Context, res *Result, phase Phase, run func(context.Context, *Result) error) error {
	res.Phase = phase
	ctx = observability.WithPhase(ctx, string(phase))
	start := time.Now()
	err := run(ctx, res)
	elapsed := time.Since(start)

	l.recorder.ObservePhaseDuration(string(phase), elapsed)
	ms := float64(elapsed.Microseconds()) / 1000
	if err != nil {
		l.recorder.IncPhaseResult(string(phase), metrics.ResultFailed)
		observability.ErrorContext(ctx, l.logger, "Load phase failed", logfields.Error(err), logfields.DurationMS(ms))
		return err
	}
	l.recorder.IncPhaseResult(string(phase), metrics.ResultSuccess)
	observability.DebugContext(ctx, l.logger, "Load phase completed", logfields.DurationMS(ms))
	return nil
}

func (l *Loader) normalize(ctx context.Context, res *Result, nav *url.URL) (*url.URL, bool) {
	res.Phase = PhaseNormalize
	if l.normalizer == nil || nav == nil {
		l.recorder.IncPhaseResult(string(PhaseNormalize), metrics.ResultSkipped)
		return nil, false
	}
	target, redirect := l.normalizer.Normalize(nav)
	if redirect && target != nil {
		l.recorder.IncPhaseResult(string(PhaseNormalize), metrics.ResultRedirect)
		return target, true
	}
	l.recorder.IncPhaseResult(string(PhaseNormalize), metrics.ResultSuccess)
	observability.DebugContext(observability.WithPhase(ctx, string(PhaseNormalize)), l.logger, "URL already canonical")
	return nil, false
}

func (l *Loader) loadSite(ctx context.Context, res *Result) error {
	path := l.settings.DataPath()
	raw, err := l.fetcher.Fetch(ctx, path)
	l.recorder.IncFetch(fetchKindData, err == nil)
	if err != nil {
		return err
	}
	data, err := records.DecodeSiteData(raw)
	if err != nil {
		return errors.WrapError(err, errors.CategoryMalformedData, "malformed site data").
			WithContext("path", path).
			Build()
	}
	res.Site = records.NewSite(data, l.now())
	if res.Site.Loaded() {
		l.queue(ctx, res.Table, res.Site)
	}
	return nil
}

func (l *Loader) loadPage(ctx context.Context, res *Result) error {
	container := res.Document.Find(l.settings.Container).First()
	if container.Length() == 0 {
		return errors.ValidationError("display container not found").
			WithContext("selector", l.settings.Container).
			Build()
	}
	target := container.Nodes[0]

	res.ContentPath = resolve.Resolve(res.Fragment, res.Site, l.settings.ContentDir)
	if err := l.loadContent(ctx, res); err != nil {
		l.fallback(ctx, res, target)
		return err
	}
	dom.ReplaceChildren(target, res.Content.Clone())
	return nil
}

func (l *Loader) loadContent(ctx context.Context, res *Result) error {
	path := res.ContentPath
	raw, err := l.fetcher.Fetch(ctx, path)
	l.recorder.IncFetch(fetchKindContent, err == nil)
	if err != nil {
		return err
	}
	doc, err := frontmatter.Parse(bytes.NewReader(raw))
	if err != nil {
		if c, ok := errors.AsClassified(err); ok {
			return c.WithContext("path", path)
		}
		return err
	}
	res.Content = doc
	res.Page = records.NewPage(doc.Frontmatter, res.Site)
	if res.Page.Loaded() {
		l.queue(ctx, res.Table, res.Page)
	}
	return nil
}

func (l *Loader) fallback(ctx context.Context, res *Result, target *html.Node) {
	nodes, err := dom.ParseFragment(l.settings.FallbackHTML, target)
	if err != nil {
		observability.WarnContext(ctx, l.logger, "Failed to parse fallback markup", logfields.Error(err))
		return
	}
	dom.ReplaceChildren(target, nodes)
	res.Fallback = true
}

func (l *Loader) render(ctx context.Context, res *Result) error {
	res.Snapshot = snapshot.Capture(res.Document)
	res.Stats = l.renderer.Render(res.Document, res.Snapshot, res.Table)
	l.recorder.AddUnresolvedPlaceholders(res.Stats.Unresolved)
	observability.DebugContext(ctx, l.logger, "Replacements applied",
		slog.Int("attributes", res.Stats.Attributes),
		slog.Int("components", res.Stats.Components),
		slog.Int("unresolved", res.Stats.Unresolved))
	return nil
}

// queue merges the flattened record into table.
func (l *Loader) queue(ctx context.Context, table placeholder.Table, r records.Record) {
	part := records.Flatten(r)
	for k, v := range part {
		observability.DebugContext(ctx, l.logger, "Queued replacement", logfields.Key(k), logfields.Value(v))
	}
	table.Merge(part)
}

func (l *Loader) finish(ctx context.Context, res *Result, start time.Time, outcome metrics.OutcomeLabel) {
	elapsed := time.Since(start)
	l.recorder.ObserveLoadDuration(elapsed)
	l.recorder.IncLoadOutcome(outcome)
	observability.DebugContext(ctx, l.logger, "Load finished",
		slog.String("outcome", string(outcome)),
		logfields.Count(len(res.Table)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
}
