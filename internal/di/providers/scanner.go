package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/hearthmedia/hearth/internal/config"
	"github.com/hearthmedia/hearth/internal/logger"
	"github.com/hearthmedia/hearth/internal/probe"
	"github.com/hearthmedia/hearth/internal/scanner"
	"github.com/hearthmedia/hearth/internal/service"
)

// ProvideScanner provides the library scanner.
func ProvideScanner(i do.Injector) (*scanner.Scanner, error) {
	cfg := do.MustInvoke[*config.Config](i)
	folderService := do.MustInvoke[*service.FolderService](i)
	videoService := do.MustInvoke[*service.VideoService](i)
	songService := do.MustInvoke[*service.SongService](i)
	prober := do.MustInvoke[probe.Prober](i)
	log := do.MustInvoke[*logger.Logger](i)

	return scanner.NewScanner(folderService, videoService, songService, prober, scanner.Options{
		Workers: cfg.Scanner.Workers,
		Rate:    cfg.Scanner.Rate,
	}, log.Logger), nil
}

// LibraryJob scans the configured library once and then, when enabled,
// keeps it current from file system events.
type LibraryJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *LibraryJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// Done is closed when the job has finished.
func (j *LibraryJob) Done() <-chan struct{} {
	return j.done
}

// ProvideLibraryJob starts the library job in the background. Without a
// library path the job finishes immediately.
func ProvideLibraryJob(i do.Injector) (*LibraryJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	fileScanner := do.MustInvoke[*scanner.Scanner](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &LibraryJob{cancel: cancel, done: make(chan struct{})}

	root := cfg.Library.Path
	if root == "" {
		log.Info("No library path configured, skipping scan")
		close(job.done)
		return job, nil
	}

	var fileWatcher *FileWatcherHandle
	if cfg.Scanner.Watch {
		fileWatcher = do.MustInvoke[*FileWatcherHandle](i)
	}

	go func() {
		defer close(job.done)

		log.Info("Running initial scan", "path", root)
		if _, err := fileScanner.Scan(ctx, root); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Initial scan failed", "path", root, "error", err)
		}

		if fileWatcher == nil {
			return
		}
		if err := fileScanner.Watch(ctx, root, fileWatcher.Watcher); err != nil {
			log.Error("File watcher failed", "path", root, "error", err)
		}
	}()

	return job, nil
}
