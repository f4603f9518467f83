// Package watch monitors an inbox directory and ingests new policy
// documents as they appear.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/claimsight/claimsight-cli/internal/core/ports/driving"
	"github.com/claimsight/claimsight-cli/internal/logger"
)

// DefaultSettleDelay is how long a file must stay quiet after the last
// write before it is considered complete and ingested. Copies into the
// inbox arrive as a Create followed by a burst of Writes.
const DefaultSettleDelay = 500 * time.Millisecond

// supportedExtensions lists the file types the extractor understands.
var supportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// Watcher ingests policy documents dropped into an inbox directory.
type Watcher struct {
	service driving.DocumentService
	dir     string
	settle  time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettleDelay overrides the quiet period before ingestion.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// New creates a watcher over dir that ingests through service.
func New(service driving.DocumentService, dir string, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox path %s is not a directory", dir)
	}

	w := &Watcher{
		service: service,
		dir:     dir,
		settle:  DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches the inbox until ctx is cancelled. Each file that settles
// after a Create or Write event is ingested; ingestion failures are
// logged and do not stop the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching inbox %s", w.dir)

	// pending maps a path to the timer that fires once it settles.
	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	defer func() {
		for _, timer := range pending {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			path := w.eventPath(event)
			if path == "" {
				continue
			}
			if timer, exists := pending[path]; exists {
				timer.Reset(w.settle)
				continue
			}
			pending[path] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			w.ingest(ctx, path)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// eventPath returns the path to ingest for an event, or "" when the
// event should be ignored.
func (w *Watcher) eventPath(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}

	path := event.Name
	if isHidden(path) {
		return ""
	}
	if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
		logger.Debug("Ignoring unsupported file %s", filepath.Base(path))
		return ""
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}

// ingest runs a single ingestion, logging the outcome.
func (w *Watcher) ingest(ctx context.Context, path string) {
	doc, err := w.service.IngestFile(ctx, path)
	if err != nil {
		logger.Warn("Failed to ingest %s: %v", filepath.Base(path), err)
		return
	}
	logger.Info("Ingested %s (%d sections)", doc.Name, len(doc.Sections))
}

// isHidden reports whether any path component starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
