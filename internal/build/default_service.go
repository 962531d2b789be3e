package build

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/fetch"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/loader"
	"git.home.luguber.info/inful/pagefill/internal/logfields"
	"git.home.luguber.info/inful/pagefill/internal/resolve"
)

// DefaultBuildService renders pages through a loader. The loader should not
// carry a normalizer: prerendered pages have no request URL to canonicalize.
type DefaultBuildService struct {
	loader *loader.Loader
	logger *slog.Logger
}

// NewBuildService creates a build service around l.
func NewBuildService(l *loader.Loader) *DefaultBuildService {
	return &DefaultBuildService{loader: l, logger: slog.Default()}
}

// WithLogger sets the logger used for build progress.
func (s *DefaultBuildService) WithLogger(logger *slog.Logger) *DefaultBuildService {
	s.logger = logger
	return s
}

// Run renders the home page and every content page, then copies static
// directories. Page load failures are recorded per page; only I/O and
// discovery problems abort the build.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{StartTime: start, OutputPath: req.OutputDir}
	finish := func(status BuildStatus) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(start)
	}

	if req.Site == nil || req.OutputDir == "" {
		finish(BuildStatusFailed)
		return result, errors.ValidationError("build requires a local site and an output directory").Build()
	}

	shell, err := readShell(req.Site, req.ShellPath)
	if err != nil {
		finish(BuildStatusFailed)
		return result, err
	}
	fragments, err := discoverPages(req.Site, req.ContentDir)
	if err != nil {
		finish(BuildStatusFailed)
		return result, err
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		finish(BuildStatusFailed)
		return result, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", req.OutputDir).
			Build()
	}

	copied, err := copyStatic(req.Site, req.StaticDirs, req.OutputDir)
	result.FilesCopied = copied
	if err != nil {
		finish(BuildStatusFailed)
		return result, err
	}

	for _, fragment := range append([]string{""}, fragments...) {
		if err := ctx.Err(); err != nil {
			finish(BuildStatusCancelled)
			return result, errors.WrapError(err, errors.CategoryRuntime, "build canceled").Build()
		}
		page, err := s.renderPage(ctx, shell, fragment, req.OutputDir)
		if err != nil {
			finish(BuildStatusFailed)
			return result, err
		}
		result.Pages = append(result.Pages, page)
	}

	status := BuildStatusSuccess
	if len(result.FailedPages()) > 0 {
		status = BuildStatusWarning
	}
	finish(status)
	s.logger.Info("Build completed",
		slog.String("status", string(status)),
		logfields.Count(len(result.Pages)),
		slog.Int("copied", result.FilesCopied),
		logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
	return result, nil
}

func (s *DefaultBuildService) renderPage(ctx context.Context, shell []byte, fragment, outDir string) (PageResult, error) {
	out := filepath.Join(outDir, filepath.FromSlash(fragment), "index.html")
	page := PageResult{Fragment: fragment, OutputPath: out}

	doc, err := dom.Parse(bytes.NewReader(shell))
	if err != nil {
		return page, errors.WrapError(err, errors.CategoryMalformedData, "failed to parse shell document").Build()
	}
	res, loadErr := s.loader.Load(ctx, doc, &url.URL{Fragment: fragment})
	if res == nil {
		return page, loadErr
	}
	page.LoadID = res.LoadID
	page.Fallback = res.Fallback
	page.Unresolved = res.Stats.Unresolved
	page.Err = loadErr

	var buf bytes.Buffer
	if err := dom.Render(&buf, res.Document); err != nil {
		return page, errors.WrapError(err, errors.CategoryInternal, "failed to render document").Build()
	}
	if err := writeFile(out, buf.Bytes()); err != nil {
		return page, err
	}
	if loadErr != nil {
		s.logger.Warn("Page rendered with errors", logfields.Fragment(fragment), logfields.Path(out), logfields.Error(loadErr))
	} else {
		s.logger.Debug("Page rendered", logfields.Fragment(fragment), logfields.Path(out))
	}
	return page, nil
}

func readShell(site fs.FS, shellPath string) ([]byte, error) {
	name, ok := fetch.CleanPath(shellPath)
	if !ok {
		return nil, errors.ValidationError("invalid shell path").WithContext("path", shellPath).Build()
	}
	data, err := fs.ReadFile(site, name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read shell document").
			WithContext("path", shellPath).
			Build()
	}
	return data, nil
}

// discoverPages lists the fragments of every content file, in lexical order.
func discoverPages(site fs.FS, contentDir string) ([]string, error) {
	root, ok := fetch.CleanPath(contentDir)
	if !ok {
		return nil, errors.ValidationError("invalid content directory").WithContext("path", contentDir).Build()
	}
	prefix := ""
	if root != "." {
		prefix = root + "/"
	}

	var fragments []string
	err := fs.WalkDir(site, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if slug, ok := resolve.SlugFromPath(p, prefix); ok {
			fragments = append(fragments, slug)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list content directory").
			WithContext("path", contentDir).
			Build()
	}
	return fragments, nil
}

// copyStatic mirrors dirs from site into outDir. Missing dirs are skipped.
func copyStatic(site fs.FS, dirs []string, outDir string) (int, error) {
	copied := 0
	for _, dir := range dirs {
		root, ok := fetch.CleanPath(dir)
		if !ok || root == "." {
			continue
		}
		if _, err := fs.Stat(site, root); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		err := fs.WalkDir(site, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(site, p)
			if err != nil {
				return err
			}
			if err := writeFile(filepath.Join(outDir, filepath.FromSlash(p)), data); err != nil {
				return err
			}
			copied++
			return nil
		})
		if err != nil {
			return copied, errors.WrapError(err, errors.CategoryFileSystem, "failed to copy static files").
				WithContext("path", dir).
				Build()
		}
	}
	return copied, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").WithContext("path", path).Build()
	}
	return nil
}
