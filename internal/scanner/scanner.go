// Package scanner walks a media library and feeds its files to the indexers.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/metrics"
	"github.com/hearthmedia/hearth/internal/probe"
	"github.com/hearthmedia/hearth/internal/ratelimit"
	"github.com/hearthmedia/hearth/internal/service"
)

// Indexer indexes one kind of media file.
type Indexer interface {
	NeedsReindex(ctx context.Context, path string, folderID int64) service.ReindexStatus
	Index(ctx context.Context, path string, folderID int64, meta *probe.Metadata) bool
}

// FolderCatalog records the directories media files live in.
type FolderCatalog interface {
	EnsureFolder(ctx context.Context, path string, parentID int64) (*domain.Folder, error)
}

// Options configures a Scanner.
type Options struct {
	Workers int     // files processed concurrently, at least 1
	Rate    float64 // probes per second per media kind, 0 = unlimited
}

// ScanResult summarizes one scan run.
type ScanResult struct {
	RunID       string    `json:"run_id"`
	Root        string    `json:"root"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Files       int       `json:"files"`   // media files seen
	Folders     int       `json:"folders"` // directories first cataloged by this scanner
	Added       int       `json:"added"`
	Updated     int       `json:"updated"`
	Skipped     int       `json:"skipped"` // unchanged since the last index
	Errors      int       `json:"errors"`
}

// Duration returns how long the scan took.
func (r *ScanResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

type counters struct {
	files, folders, added, updated, skipped, errors atomic.Int64
}

func (c *counters) fill(r *ScanResult) {
	r.Files = int(c.files.Load())
	r.Folders = int(c.folders.Load())
	r.Added = int(c.added.Load())
	r.Updated = int(c.updated.Load())
	r.Skipped = int(c.skipped.Load())
	r.Errors = int(c.errors.Load())
}

// Scanner orchestrates library scans.
type Scanner struct {
	folders  FolderCatalog
	indexers map[string]Indexer
	prober   probe.Prober
	limiter  *ratelimit.KeyedRateLimiter
	workers  int
	walker   *Walker
	logger   *slog.Logger

	mu        sync.Mutex // serializes folder resolution
	folderIDs map[string]int64
}

// NewScanner creates a scanner that sends videos to videos and audio files
// to songs.
func NewScanner(folders FolderCatalog, videos, songs Indexer, prober probe.Prober, opts Options, logger *slog.Logger) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Scanner{
		folders: folders,
		indexers: map[string]Indexer{
			KindVideo: videos,
			KindSong:  songs,
		},
		prober:    prober,
		limiter:   ratelimit.New(opts.Rate, 1),
		workers:   opts.Workers,
		walker:    NewWalker(logger),
		logger:    logger,
		folderIDs: make(map[string]int64),
	}
}

// Scan walks root and indexes every new or changed media file under it.
// Per-file failures are counted, not returned; the error is non-nil only
// when the scan could not start or ctx was canceled, in which case the
// partial result is still returned.
func (s *Scanner) Scan(ctx context.Context, root string) (*ScanResult, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("library path not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library path %s is not a directory", root)
	}

	runID, err := id.NewRunID("scan")
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	logger := s.logger.With("run_id", runID)

	result := &ScanResult{
		RunID:     runID,
		Root:      root,
		StartedAt: time.Now(),
	}
	metrics.ScanRunsTotal.Inc()
	logger.Info("scan started", "root", root, "workers", s.workers, "rate_limited", !s.limiter.Unlimited())

	var c counters
	if _, err := s.resolveFolder(ctx, root, root, &c); err != nil {
		return nil, fmt.Errorf("catalog library root: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for wr := range s.walker.Walk(gctx, root) {
		c.files.Add(1)

		folderID, err := s.resolveFolder(gctx, root, filepath.Dir(wr.Path), &c)
		if err != nil {
			logger.Error("failed to catalog folder", "path", wr.Path, "error", err)
			c.errors.Add(1)
			metrics.ScanErrors.Inc()
			continue
		}

		g.Go(func() error {
			return s.process(gctx, wr.Path, wr.Kind, folderID, &c, logger)
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	result.CompletedAt = time.Now()
	c.fill(result)
	metrics.ScanLastRunDuration.Set(result.Duration().Seconds())

	logger.Info("scan complete",
		"duration", result.Duration(),
		"files", result.Files,
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", result.Errors,
	)

	if err != nil {
		return result, fmt.Errorf("scan %s interrupted: %w", runID, err)
	}
	return result, nil
}

// IndexPath indexes a single file under root, as reported by the watcher.
// Files the catalog does not handle are ignored.
func (s *Scanner) IndexPath(ctx context.Context, root, path string) error {
	kind := KindForPath(path)
	if kind == "" {
		return nil
	}

	var c counters
	folderID, err := s.resolveFolder(ctx, filepath.Clean(root), filepath.Dir(path), &c)
	if err != nil {
		return fmt.Errorf("catalog folder for %s: %w", path, err)
	}
	if err := s.process(ctx, path, kind, folderID, &c, s.logger); err != nil {
		return err
	}
	if c.errors.Load() > 0 {
		return fmt.Errorf("failed to index %s", path)
	}
	return nil
}

// process indexes one file if it is new or stale. Only context errors are
// returned so one bad file never stops a scan.
func (s *Scanner) process(ctx context.Context, path, kind string, folderID int64, c *counters, logger *slog.Logger) error {
	idx := s.indexers[kind]
	if idx == nil {
		return nil
	}

	status := idx.NeedsReindex(ctx, path, folderID)
	if !status.Stale {
		c.skipped.Add(1)
		metrics.ScanFilesSkipped.Inc()
		return nil
	}

	if err := s.limiter.Wait(ctx, kind); err != nil {
		return err
	}

	meta, err := s.prober.Probe(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Warn("metadata extraction failed", "path", path, "error", err)
		meta = nil
	}

	if !idx.Index(ctx, path, folderID, meta) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.errors.Add(1)
		metrics.ScanErrors.Inc()
		return nil
	}

	if status.IsNew {
		c.added.Add(1)
	} else {
		c.updated.Add(1)
	}
	return nil
}

// resolveFolder returns the folder id for dir, cataloging dir and any
// missing ancestors up to root.
func (s *Scanner) resolveFolder(ctx context.Context, root, dir string, c *counters) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveFolderLocked(ctx, root, dir, c)
}

func (s *Scanner) resolveFolderLocked(ctx context.Context, root, dir string, c *counters) (int64, error) {
	if folderID, ok := s.folderIDs[dir]; ok {
		return folderID, nil
	}

	var parentID int64
	if dir != root {
		if !within(root, dir) {
			return 0, fmt.Errorf("%s is outside library root %s", dir, root)
		}
		pid, err := s.resolveFolderLocked(ctx, root, filepath.Dir(dir), c)
		if err != nil {
			return 0, err
		}
		parentID = pid
	}

	f, err := s.folders.EnsureFolder(ctx, dir, parentID)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, errors.New("folder catalog returned no folder")
	}
	s.folderIDs[dir] = f.ID
	c.folders.Add(1)
	return f.ID, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
