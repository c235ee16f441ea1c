package content

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 250 * time.Millisecond

// Source holds the active Profile and swaps it when the content file
// changes.
type Source struct {
	path   string
	logger *zap.Logger

	mu        sync.RWMutex
	profile   *Profile
	callbacks []func(*Profile)
}

// NewSource loads the content file at path. An invalid file is an error;
// a missing one means the built-in defaults.
func NewSource(path string, logger *zap.Logger) (*Source, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Source{path: path, logger: logger, profile: p}, nil
}

// StaticSource serves a fixed profile and never reloads.
func StaticSource(p *Profile) *Source {
	return &Source{profile: p, logger: zap.NewNop()}
}

// Current returns the active profile. Callers must not modify it.
func (s *Source) Current() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// OnChange registers fn to run after every successful reload.
func (s *Source) OnChange(fn func(*Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Reload re-reads the content file. On error the previous profile stays
// active.
func (s *Source) Reload() error {
	p, err := Load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = p
	callbacks := slices.Clone(s.callbacks)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(p)
	}
	return nil
}

// Watch reloads the content file whenever it is written, created or
// renamed into place, until ctx is done. The parent directory is watched
// so editors that replace the file are picked up.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	s.logger.Info("Watching content file", zap.String("path", s.path))

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping content watcher")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
			} else {
				debounce.Reset(reloadDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				s.logger.Error("Content reload failed, keeping previous content",
					zap.String("path", s.path),
					zap.Error(err),
				)
				continue
			}
			s.logger.Info("Content reloaded", zap.String("path", s.path))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("File watcher error", zap.Error(err))
		}
	}
}
