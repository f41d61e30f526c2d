package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthmedia/hearth/internal/di/providers"
	"github.com/hearthmedia/hearth/internal/service"
)

// withArgs replaces the process arguments read by the config provider.
func withArgs(t *testing.T, args ...string) {
	t.Helper()
	saved := os.Args
	os.Args = append([]string{"hearth"}, args...)
	t.Cleanup(func() { os.Args = saved })
}

func TestBootstrap_ScansLibrary(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "METADATA_PATH", "LIBRARY_PATH", "ID_BACKEND", "WATCH", "METRICS_ADDR", "CONFIG_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key) //nolint:errcheck // Test setup
	}

	dir := t.TempDir()
	library := filepath.Join(dir, "library")
	require.NoError(t, os.MkdirAll(filepath.Join(library, "movies"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(library, "movies", "a.mp4"), []byte("not really a video"), 0o644))

	withArgs(t,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-metadata-path", filepath.Join(dir, "metadata"),
		"-library-path", library,
		"-id-backend", "badger",
		"-log-level", "error",
		"-ffprobe-path", filepath.Join(dir, "no-ffprobe"),
	)

	injector := NewContainer()
	require.NoError(t, Bootstrap(injector))
	t.Cleanup(func() { injector.Shutdown() }) //nolint:errcheck // Test cleanup

	job := do.MustInvoke[*providers.LibraryJob](injector)
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("initial scan did not finish")
	}

	ctx := context.Background()
	videos := do.MustInvoke[*service.VideoService](injector)
	assert.Equal(t, int64(1), videos.Count(ctx))

	folders := do.MustInvoke[*service.FolderService](injector)
	assert.Len(t, folders.Folders(ctx), 2)

	assert.FileExists(t, filepath.Join(dir, "metadata", "hearth.db"))
	assert.DirExists(t, filepath.Join(dir, "metadata", "ids"))

	metrics := do.MustInvoke[*providers.MetricsServerHandle](injector)
	assert.Nil(t, metrics.Server)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	withArgs(t,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-metadata-path", dir,
		"-scan-workers", "0",
	)

	injector := NewContainer()
	assert.Error(t, Bootstrap(injector))
}
