package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store holds the live configuration and reloads it when the file on
// disk changes. Consumers call Snapshot once per session; reloads never
// affect a session already armed.
type Store struct {
	path string

	mu  sync.RWMutex
	cfg *Config

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewStore creates a store around an already-loaded config.
func NewStore(cfg *Config, path string) *Store {
	return &Store{path: path, cfg: cfg, done: make(chan struct{})}
}

// Snapshot returns an immutable copy of the current configuration.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Snapshot()
}

// Update replaces the live configuration, for callers that edit
// settings in-process rather than through the file.
func (s *Store) Update(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Watch starts reloading the config file on change. Editors often
// replace the file instead of writing in place, so the watch is on the
// directory rather than the file itself.
func (s *Store) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	s.watcher = w

	go s.watch()
	return nil
}

func (s *Store) watch() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(s.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		case <-s.done:
			return
		}
	}
}

func (s *Store) reload() {
	cfg, err := LoadFrom(s.path)
	if err != nil {
		slog.Error("reload config, keeping previous", "error", err)
		return
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	slog.Info("config reloaded, applies to next session", "path", s.path)
}

// Close stops the watcher.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.watcher != nil {
			s.watcher.Close()
		}
	})
}
