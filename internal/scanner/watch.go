package scanner

import (
	"context"
	"fmt"

	"github.com/hearthmedia/hearth/internal/watcher"
)

// Watch keeps the catalog current after a scan: files under root are
// indexed as the watcher reports them settled. It blocks until ctx is done
// or the watcher stops.
func (s *Scanner) Watch(ctx context.Context, root string, w *watcher.Watcher) error {
	if err := w.Watch(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	finished := make(chan error, 1)
	go func() {
		finished <- w.Start(ctx)
	}()

	s.logger.Info("watching library", "root", root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-finished:
			if err != nil {
				return fmt.Errorf("watcher: %w", err)
			}
			s.logger.Info("watcher stopped", "root", root)
			return nil
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			s.handleEvent(ctx, root, event)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

func (s *Scanner) handleEvent(ctx context.Context, root string, event watcher.Event) {
	switch event.Type {
	case watcher.EventAdded, watcher.EventModified:
		if KindForPath(event.Path) == "" {
			return
		}
		if err := s.IndexPath(ctx, root, event.Path); err != nil {
			s.logger.Error("failed to index changed file", "path", event.Path, "event", event.Type.String(), "error", err)
			return
		}
		s.logger.Debug("indexed changed file", "path", event.Path, "event", event.Type.String())
	case watcher.EventRemoved:
		// Catalog rows outlive their files; removal is not tracked.
		s.logger.Debug("file removed", "path", event.Path)
	}
}
