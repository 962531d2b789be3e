package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/logfields"
)

// DefaultDebounce is the quiet period before a rebuild is triggered.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Root is the directory to watch recursively.
	Root string

	// Ignore lists directories whose events never trigger a rebuild,
	// typically the build output directory.
	Ignore []string

	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch runs rebuild whenever files under opts.Root change, until ctx is done.
// Rebuilds never overlap; changes that arrive during a rebuild queue one more.
func Watch(ctx context.Context, opts WatchOptions, rebuild func(context.Context)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ignore := make([]string, 0, len(opts.Ignore))
	for _, dir := range opts.Ignore {
		if abs, err := filepath.Abs(dir); err == nil {
			ignore = append(ignore, abs)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()
	if err := addDirsRecursive(watcher, opts.Root, ignore, logger); err != nil {
		return err
	}

	requests, trigger := newDebouncer(opts.Debounce)
	done := startRebuildWorker(ctx, requests, rebuild)
	logger.Info("Watching for changes", logfields.Path(opts.Root))

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name, ignore) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name, ignore, logger)
				}
			}
			logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// newDebouncer returns a request channel and a trigger that fires into it
// once no further trigger arrived for delay.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	requests := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}
	return requests, trigger
}

// startRebuildWorker serializes rebuilds. The returned channel closes once
// the worker has exited.
func startRebuildWorker(ctx context.Context, requests chan struct{}, rebuild func(context.Context)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				rebuild(ctx)
			}
		}
	}()
	return done
}

func addDirsRecursive(w *fsnotify.Watcher, root string, ignore []string, logger *slog.Logger) error {
	if _, err := os.Stat(root); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "watch root not accessible").
			WithContext("path", root).
			Build()
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || isIgnoredDir(path, ignore)) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func isIgnoredDir(path string, ignore []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent reports events on hidden, editor temp and ignored paths.
func shouldIgnoreEvent(path string, ignore []string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return isIgnoredDir(path, ignore)
}
