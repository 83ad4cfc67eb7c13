package static

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/yourusername/ember/pkg/ember/logger"
)

// Watcher invalidates cached files when they change on disk.
type Watcher struct {
	fsw   *fsnotify.Watcher
	cache *FileCache
	log   logger.Logger
}

// Watch starts watching the site root and every directory below it.
func (s *Site) Watch(log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Nop{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("static: watcher: %w", err)
	}

	err = filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(p)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("static: watch %s: %w", s.root, err)
	}

	return &Watcher{fsw: fsw, cache: s.cache, log: log}, nil
}

// Run processes filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if w.cache.Invalidate(filepath.Clean(event.Name)) {
			w.log.Debug("cache invalidated", "path", event.Name, "op", event.Op.String())
		}
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.log.Warn("watch new directory failed", "path", event.Name, "error", err)
			}
		}
	}
}

// Close stops the watcher; Run returns afterwards.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
