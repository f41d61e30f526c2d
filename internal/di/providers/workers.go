package providers

import (
	"github.com/samber/do/v2"

	"github.com/hearthmedia/hearth/internal/config"
	"github.com/hearthmedia/hearth/internal/logger"
	"github.com/hearthmedia/hearth/internal/watcher"
)

// FileWatcherHandle wraps the file watcher with shutdown capability.
type FileWatcherHandle struct {
	*watcher.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	return h.Watcher.Stop()
}

// ProvideFileWatcher provides the file system watcher. Events are consumed
// by the library job.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	w, err := watcher.New(log.Logger, watcher.Options{SettleDelay: cfg.Scanner.Debounce})
	if err != nil {
		return nil, err
	}

	log.Info("File watcher created", "settle_delay", cfg.Scanner.Debounce)

	return &FileWatcherHandle{Watcher: w}, nil
}
