package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/artpar/paramset/core/registry"
	"github.com/artpar/paramset/pkg/compact"
	"github.com/artpar/paramset/ports"
)

// Holder guards a registry with a read/write mutex and keeps it in sync with
// a values file. All access to the registry goes through View and Update.
type Holder struct {
	mu       sync.RWMutex
	registry *registry.Registry
	path     string
	format   string
	logger   zerolog.Logger
	observer ports.ReloadObserver
	watcher  *fsnotify.Watcher
	onChange []func(map[string]string)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder wraps r. The values file is not read until Load or Reload.
func NewHolder(r *registry.Registry, values ValuesConfig, logger zerolog.Logger) (*Holder, error) {
	if values.Path == "" {
		return nil, fmt.Errorf("values path is required")
	}

	absPath, err := filepath.Abs(values.Path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	format := values.Format
	if format == "" {
		format = FormatForPath(absPath)
	}

	return &Holder{
		registry: r,
		path:     absPath,
		format:   format,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// SetObserver reports every Reload outcome to o.
func (h *Holder) SetObserver(o ports.ReloadObserver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observer = o
}

// Path returns the absolute path of the values file.
func (h *Holder) Path() string {
	return h.path
}

// View calls fn with shared access to the registry. fn must not modify it.
func (h *Holder) View(fn func(*registry.Registry) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return fn(h.registry)
}

// Update calls fn with exclusive access to the registry.
func (h *Holder) Update(fn func(*registry.Registry) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.registry)
}

// Snapshot returns the textual value of every parameter.
func (h *Holder) Snapshot() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.registry.Snapshot()
}

// Load reads the values file and decodes it into the registry. The decode
// is all-or-nothing, so on error the registry keeps its previous values.
func (h *Holder) Load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := decode(h.registry, h.format, data); err != nil {
		return fmt.Errorf("decode values %s: %w", h.path, err)
	}
	return nil
}

func decode(r *registry.Registry, format string, data []byte) error {
	switch format {
	case ports.FormatJSON:
		return r.FromJSON(data)
	case ports.FormatCompact:
		// Editors append a final newline; it is not part of the last value.
		return r.FromCompactString(compact.TrimLineEnding(string(data)))
	default:
		return fmt.Errorf("unknown values format %q", format)
	}
}

// Reload reloads the values file, logs what changed and notifies OnChange
// callbacks. On error the previous values are kept.
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading values")

	old := h.Snapshot()
	err := h.Load()

	h.mu.RLock()
	observer := h.observer
	h.mu.RUnlock()
	if observer != nil {
		observer.ObserveReload(err)
	}

	if err != nil {
		h.logger.Error().Err(err).Msg("values reload failed, keeping old values")
		return fmt.Errorf("reload values: %w", err)
	}

	current := h.Snapshot()
	h.logChanges(old, current)

	h.mu.RLock()
	callbacks := append([]func(map[string]string){}, h.onChange...)
	h.mu.RUnlock()
	for _, fn := range callbacks {
		fn(current)
	}

	h.logger.Info().Msg("values reloaded successfully")
	return nil
}

// OnChange registers a callback to be called with a snapshot after every
// successful reload.
func (h *Holder) OnChange(fn func(map[string]string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// WatchFile starts watching the values file for changes.
// Changes trigger automatic reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching values file for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading values")
				_ = h.Reload()
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()
}

// Stop stops watching for file changes and signals. It is safe to call
// more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Only react to our values file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("values file changed")

				_ = h.Reload()
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) logChanges(old, current map[string]string) {
	for name, v := range current {
		if prev, ok := old[name]; ok && prev != v {
			h.logger.Info().
				Str("param", name).
				Str("old", prev).
				Str("new", v).
				Msg("parameter changed")
		}
	}
}
