package scanner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTree creates files (relative paths) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("content of "+rel), 0o644))
	}
}

func collect(ch <-chan WalkResult) []WalkResult {
	var results []WalkResult
	for r := range ch {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].RelPath < results[j].RelPath })
	return results
}

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/m/a.mp4", KindVideo},
		{"/m/a.M4V", KindVideo},
		{"/m/a.mpg", KindVideo},
		{"/m/a.mkv", KindVideo},
		{"/m/a.avi", KindVideo},
		{"/m/a.mp3", KindSong},
		{"/m/a.FLAC", KindSong},
		{"/m/cover.jpg", ""},
		{"/m/notes.txt", ""},
		{"/m/README", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, KindForPath(tt.path))
		})
	}
}

func TestWalker_Walk_EmptyDirectory(t *testing.T) {
	results := collect(NewWalker(testLogger()).Walk(context.Background(), t.TempDir()))
	assert.Empty(t, results)
}

func TestWalker_Walk_MediaOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"movies/a.mp4",
		"movies/cover.jpg",
		"music/jazz/01.mp3",
		"notes.txt",
	)

	results := collect(NewWalker(testLogger()).Walk(context.Background(), root))
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join("movies", "a.mp4"), results[0].RelPath)
	assert.Equal(t, filepath.Join(root, "movies", "a.mp4"), results[0].Path)
	assert.Equal(t, KindVideo, results[0].Kind)
	assert.Equal(t, int64(len("content of movies/a.mp4")), results[0].Size)

	assert.Equal(t, filepath.Join("music", "jazz", "01.mp3"), results[1].RelPath)
	assert.Equal(t, KindSong, results[1].Kind)
}

func TestWalker_Walk_ModTimeInSeconds(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.mkv")
	mod := time.Date(2023, 7, 4, 10, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.mkv"), mod, mod))

	results := collect(NewWalker(testLogger()).Walk(context.Background(), root))
	require.Len(t, results, 1)
	assert.Equal(t, mod.Unix(), results[0].ModTime)
}

func TestWalker_Walk_SkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		".hidden.mp4",
		".trash/old.mp4",
		"visible.mp4",
	)

	results := collect(NewWalker(testLogger()).Walk(context.Background(), root))
	require.Len(t, results, 1)
	assert.Equal(t, "visible.mp4", results[0].RelPath)
}

func TestWalker_Walk_ContextCancellation(t *testing.T) {
	root := t.TempDir()
	for i := range 50 {
		writeTree(t, root, filepath.Join("d", string(rune('a'+i%26))+string(rune('a'+i/26))+".mp4"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := collect(NewWalker(testLogger()).Walk(ctx, root))
	assert.Less(t, len(results), 50)
}

func TestWalker_Walk_MissingRoot(t *testing.T) {
	results := collect(NewWalker(testLogger()).Walk(context.Background(), filepath.Join(t.TempDir(), "missing")))
	assert.Empty(t, results)
}
