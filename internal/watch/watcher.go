// Package watch transpiles source files as they appear in a watched
// directory, writing results to an output directory.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDefault is the default debounce interval for file events.
const debounceDefault = 200 * time.Millisecond

// maxConcurrentFiles limits how many files are transpiled simultaneously.
const maxConcurrentFiles = 4

// maxQueueSize is the buffer size for the work queue channel. Larger than
// maxConcurrentFiles so a burst of saves doesn't block the debounce flush.
const maxQueueSize = 128

// pollDefault is the default polling interval when fsnotify is unavailable.
const pollDefault = 2 * time.Second

// DirWatcher watches a directory for new or rewritten source files using
// fsnotify.
type DirWatcher struct {
	dir      string
	handler  func(path string)
	debounce time.Duration
}

// NewDirWatcher creates a watcher for the source directory.
func NewDirWatcher(dir string, handler func(path string)) *DirWatcher {
	return &DirWatcher{
		dir:      dir,
		handler:  handler,
		debounce: debounceDefault,
	}
}

// Run watches the directory for source files. Blocks until ctx is cancelled.
func (w *DirWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	// ready collects paths that passed debounce. A single timer resets on
	// each event; when it fires, all accumulated paths flush to the work
	// queue. No per-file goroutines.
	var mu sync.Mutex
	ready := make(map[string]bool)

	queue := make(chan string, maxQueueSize)

	// Fixed worker pool, the only goroutines besides the main loop.
	var wg sync.WaitGroup
	for i := 0; i < maxConcurrentFiles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				func() {
					defer func() {
						if r := recover(); r != nil {
							_ = r
						}
					}()
					w.handler(path)
				}()
			}
		}()
	}

	flush := func() {
		mu.Lock()
		batch := make([]string, 0, len(ready))
		for p := range ready {
			batch = append(batch, p)
		}
		ready = make(map[string]bool)
		mu.Unlock()

		for _, p := range batch {
			select {
			case queue <- p:
			case <-ctx.Done():
				return
			}
		}
	}

	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()

	defer func() {
		debounceTimer.Stop()
		flush()
		close(queue)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			flush()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isSourceFile(event.Name) {
				continue
			}

			mu.Lock()
			ready[event.Name] = true
			mu.Unlock()

			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_ = err
		}
	}
}

// PollWatcher watches a directory by polling modification times. Fallback
// for filesystems where fsnotify is unavailable (e.g. NFS).
type PollWatcher struct {
	dir      string
	handler  func(path string)
	interval time.Duration
	seen     map[string]time.Time
}

// NewPollWatcher creates a polling-based watcher.
func NewPollWatcher(dir string, handler func(path string), interval time.Duration) *PollWatcher {
	if interval == 0 {
		interval = pollDefault
	}
	return &PollWatcher{
		dir:      dir,
		handler:  handler,
		interval: interval,
		seen:     make(map[string]time.Time),
	}
}

// Run polls the directory. Blocks until ctx is cancelled.
func (w *PollWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan checks for new or modified source files.
func (w *PollWatcher) scan() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if !isSourceFile(path) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if prev, ok := w.seen[path]; ok && !info.ModTime().After(prev) {
			continue
		}
		w.seen[path] = info.ModTime()
		w.handler(path)
	}
}

// ScanExisting processes source files already present in the directory.
// Called at startup to pick up files that arrived before the watcher.
func ScanExisting(dir string, handler func(path string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if isSourceFile(path) {
			handler(path)
		}
	}
	return nil
}

// isSourceFile returns true for .phi source files (not .tmp partial writes).
func isSourceFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ".phi") && !strings.HasSuffix(name, ".tmp")
}
