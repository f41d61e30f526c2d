package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hearthmedia/hearth/internal/media/images"
	"github.com/hearthmedia/hearth/internal/store/sqlite"
)

type testEnv struct {
	store   *sqlite.Store
	images  *images.Storage
	art     *ArtService
	genres  *GenreService
	videos  *VideoService
	songs   *SongService
	folders *FolderService
	dir     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "catalog.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	imgs, err := images.NewStorage(dir)
	require.NoError(t, err)

	art := NewArtService(st, st, imgs, logger)
	genres := NewGenreService(st, st, 0, logger)
	return &testEnv{
		store:   st,
		images:  imgs,
		art:     art,
		genres:  genres,
		videos:  NewVideoService(st, st, genres, art, logger),
		songs:   NewSongService(st, st, genres, art, logger),
		folders: NewFolderService(st, st, logger),
		dir:     dir,
	}
}

// writeMediaFile creates a file under the env's media directory with the
// given modification time.
func (e *testEnv) writeMediaFile(t *testing.T, name string, data []byte, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(e.dir, "media", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

// mediaFolder catalogs the env's media directory, or a directory below it,
// and returns the folder's allocated id.
func (e *testEnv) mediaFolder(t *testing.T, sub ...string) int64 {
	t.Helper()
	path := filepath.Join(append([]string{e.dir, "media"}, sub...)...)
	f, err := e.folders.EnsureFolder(context.Background(), path, 0)
	require.NoError(t, err)
	return f.ID
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func removeFile(path string) error {
	return os.Remove(path)
}
