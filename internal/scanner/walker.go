package scanner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hearthmedia/hearth/internal/domain"
)

// Media kinds recognized by the scanner.
const (
	KindVideo = "video"
	KindSong  = "song"
)

// KindForPath classifies a file by extension. It returns "" for files the
// catalog does not index.
func KindForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == "":
		return ""
	case slices.Contains(domain.ValidVideoExtensions, ext):
		return KindVideo
	case slices.Contains(domain.ValidAudioExtensions, ext):
		return KindSong
	default:
		return ""
	}
}

// Walker traverses the filesystem and discovers media files.
type Walker struct {
	logger *slog.Logger
}

// NewWalker creates a new walker.
func NewWalker(logger *slog.Logger) *Walker {
	return &Walker{
		logger: logger,
	}
}

// WalkResult represents a media file discovered during walking.
type WalkResult struct {
	Path    string
	RelPath string
	Kind    string
	Size    int64
	ModTime int64 // unix seconds
}

// Walk traverses a directory and streams discovered media files.
// Hidden files and directories are skipped, as are files whose extension
// no indexer handles. The channel closes when the walk is complete or ctx
// is canceled.
func (w *Walker) Walk(ctx context.Context, rootPath string) <-chan WalkResult {
	results := make(chan WalkResult, 100)

	go func() {
		defer close(results)

		err := filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil {
				w.logger.Error("walk error", "path", path, "error", err)
				// Continue walking despite errors.
				return nil
			}

			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				return nil
			}

			kind := KindForPath(path)
			if kind == "" {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				w.logger.Error("failed to get file info", "path", path, "error", err)
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}

			relPath, err := filepath.Rel(rootPath, path)
			if err != nil {
				relPath = path
			}

			result := WalkResult{
				Path:    path,
				RelPath: relPath,
				Kind:    kind,
				Size:    info.Size(),
				ModTime: info.ModTime().Unix(),
			}

			select {
			case results <- result:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})

		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("walk failed", "root", rootPath, "error", err)
		}
	}()

	return results
}
