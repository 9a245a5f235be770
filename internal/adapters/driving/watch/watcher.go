// Package watch ingests guideline documents from a directory as they
// change. It watches with fsnotify and re-ingests a file when it is
// created or written, after a short debounce so editors that write in
// bursts trigger one ingestion.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driving"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is ingested.
const DefaultDebounce = 500 * time.Millisecond

// guidelineExtensions are the file types the watcher ingests.
var guidelineExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".rst":      true,
}

// Watcher ingests guideline files from one directory for one project.
type Watcher struct {
	ingestion driving.IngestionService
	dir       string
	project   string
	debounce  time.Duration

	mu       sync.Mutex
	pending  map[string]*time.Timer
	ingested chan string
}

// New creates a watcher for dir, ingesting into project's guideline space.
// A zero debounce selects DefaultDebounce.
func New(ingestion driving.IngestionService, dir, project string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		ingestion: ingestion,
		dir:       dir,
		project:   project,
		debounce:  debounce,
		pending:   map[string]*time.Timer{},
		ingested:  make(chan string, 16),
	}
}

// Ingested exposes completed ingestions for callers that want progress
// reporting. Receiving is optional; sends never block.
func (w *Watcher) Ingested() <-chan string {
	return w.ingested
}

// Run ingests all existing guideline files, then watches for changes until
// the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch dir %s is not a directory", w.dir)
	}

	if err := w.ingestExisting(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for guideline changes (project %s)", w.dir, w.project)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestExisting ingests every guideline file already present in the
// directory so the index starts in sync.
func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading watch dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isGuidelineFile(entry.Name()) {
			continue
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

// handleEvent schedules ingestion for relevant create and write events.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !isGuidelineFile(filepath.Base(event.Name)) {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingestFile(ctx, path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// ingestFile reads a file and ingests it. Failures are logged, not fatal:
// the watcher keeps running across bad files.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	filename := filepath.Base(path)
	n, err := w.ingestion.IngestGuideline(ctx, string(data), filename, w.project)
	if err != nil {
		logger.Warn("Ingesting %s: %v", filename, err)
		return
	}
	logger.Info("Ingested %s (%d chunks)", filename, n)

	select {
	case w.ingested <- filename:
	default:
	}
}

// isGuidelineFile reports whether a file name looks like a guideline
// document. Hidden files and unknown extensions are skipped.
func isGuidelineFile(base string) bool {
	if strings.HasPrefix(base, ".") {
		return false
	}
	return guidelineExtensions[strings.ToLower(filepath.Ext(base))]
}
