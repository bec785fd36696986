package prefs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports reduced-motion changes made to a preference file.
// It watches the parent directory so editors that replace the file on save
// are still seen. File changes are dropped while the environment override is
// set.
type Watcher struct {
	log     *zap.Logger
	path    string
	watcher *fsnotify.Watcher
	changes chan bool
	last    bool
}

// NewWatcher starts watching path's directory. Events are delivered once Run
// is called.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, ErrNoPreference
	}
	if log == nil {
		log = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		log:     log.Named("prefs"),
		path:    filepath.Clean(path),
		watcher: fw,
		changes: make(chan bool, 1),
	}
	w.last, _ = Read(path)
	w.log.Debug("watching motion preference", zap.String("path", w.path), zap.Bool("reduced", w.last))
	return w, nil
}

// Changes delivers new preference values. Only the latest unread value is
// kept.
func (w *Watcher) Changes() <-chan bool {
	return w.changes
}

// Run processes filesystem events until ctx is done. The underlying watcher
// is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.handleEvent(fsnotify.Event{Name: w.path, Op: fsnotify.Write})
				continue
			}
			w.log.Warn("motion preference watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if v, ok := Override(nil); ok {
		w.log.Debug("motion preference pinned by environment",
			zap.String("env", EnvReducedMotion), zap.Bool("reduced", v))
		return
	}

	reduced, err := Read(w.path)
	if err != nil {
		// A half-written or removed file allows motion
		w.log.Debug("motion preference unreadable", zap.String("op", event.Op.String()), zap.Error(err))
		reduced = false
	}
	if reduced == w.last {
		return
	}
	w.last = reduced
	w.log.Info("motion preference changed", zap.Bool("reduced", reduced))
	w.publish(reduced)
}

// publish replaces any unread value with v
func (w *Watcher) publish(v bool) {
	for {
		select {
		case w.changes <- v:
			return
		default:
		}
		select {
		case <-w.changes:
		default:
		}
	}
}
