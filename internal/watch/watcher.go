// Package watch turns edits of the host document on disk into lifecycle signals.
package watch

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

// Option configures a HostWatcher.
type Option func(*HostWatcher)

func WithDebounce(d time.Duration) Option {
	return func(w *HostWatcher) { w.debounce = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *HostWatcher) { w.logger = l }
}

// HostWatcher calls onChange when the host document's content changes. It watches the
// containing directory so atomic saves (write temp, rename over) are seen.
type HostWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	onChange func()

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	mu       sync.Mutex
	lastHash string
	pending  time.Time
}

func New(path string, onChange func(), opts ...Option) *HostWatcher {
	w := &HostWatcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Hash is the content hash used to tell real changes from touches.
func Hash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hashFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Hash(b), nil
}

// Seen records content this process wrote itself, so the resulting event is not
// reported back as a host change.
func (w *HostWatcher) Seen(content []byte) {
	w.mu.Lock()
	w.lastHash = Hash(content)
	w.mu.Unlock()
}

func (w *HostWatcher) Start() error {
	hash, err := hashFile(w.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("host watcher: initial hash: %w", err)
	}
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("host watcher: create fsnotify: %w", err)
	}
	w.fsWatcher = fsw

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("host watcher: watch %s: %w", dir, err)
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop terminates the watcher. Safe to call more than once.
func (w *HostWatcher) Stop() error {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}

func (w *HostWatcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("host watcher error", "err", err)

		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *HostWatcher) processPending() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	hash, err := hashFile(w.path)
	if err != nil {
		w.logger.Warn("host watcher: read failed", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	if hash == w.lastHash {
		w.mu.Unlock()
		w.logger.Debug("host watcher: content unchanged, skipping", "path", w.path)
		return
	}
	w.lastHash = hash
	w.mu.Unlock()

	w.logger.Info("host document changed", "path", w.path, "hash", hash[:8])
	w.onChange()
}
