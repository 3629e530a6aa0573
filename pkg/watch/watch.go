// Package watch runs a handler for questionnaire files dropped into a
// directory.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const (
	// DefaultSettle is how long a file must go without writes before it is
	// handled.
	DefaultSettle = 500 * time.Millisecond

	tickInterval = 100 * time.Millisecond
)

// DefaultExtensions are the file types handled when none are given.
var DefaultExtensions = []string{".xlsx", ".xlsm", ".csv", ".txt"}

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Watcher calls Handler once for every matching file created or written in
// Dir, after the file has settled.
type Watcher struct {
	Dir        string
	Extensions []string
	Settle     time.Duration
	// Existing also handles matching files already in Dir at start.
	Existing bool
	Handler  Handler
}

// New returns a watcher of dir with default settings.
func New(dir string, h Handler) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("watch directory required")
	}
	if h == nil {
		return nil, errors.New("handler required")
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading watch directory %s", dir)
	}
	if !fi.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	return &Watcher{
		Dir:        dir,
		Extensions: DefaultExtensions,
		Settle:     DefaultSettle,
		Handler:    h,
	}, nil
}

// Matches reports whether path has one of the watched extensions and is not
// a hidden or temporary file.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return slices.Contains(w.Extensions, strings.ToLower(filepath.Ext(base)))
}

// Run blocks until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "error creating file watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return errors.Wrapf(err, "error watching %s", w.Dir)
	}

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	pending := make(map[string]time.Time)

	if w.Existing {
		entries, err := os.ReadDir(w.Dir)
		if err != nil {
			return errors.Wrapf(err, "error listing %s", w.Dir)
		}
		for _, e := range entries {
			p := filepath.Join(w.Dir, e.Name())
			if !e.IsDir() && w.Matches(p) {
				pending[p] = time.Time{}
			}
		}
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	slog.Info("watching directory", "dir", w.Dir, "extensions", strings.Join(w.Extensions, ","))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !w.Matches(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		case now := <-ticker.C:
			for p, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, p)
				w.handle(ctx, p)
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return
	}
	if err := w.Handler(ctx, path); err != nil {
		slog.Error("error handling file", "path", path, "error", err)
	}
}
