package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthmedia/hearth/internal/watcher"
)

func TestScanner_WatchIndexesSettledFiles(t *testing.T) {
	fx := newScanFixture(t, nil)

	w, err := watcher.New(testLogger(), watcher.Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() }) //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fx.scanner.Watch(ctx, fx.root, w) }()

	// Give the watcher a moment to register the root.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(fx.root, "notes.txt"), []byte("ignored"), 0o644))
	clip := filepath.Join(fx.root, "clip.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("frames"), 0o644))

	assert.Eventually(t, func() bool { return fx.videos.count() == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, fx.folders.get(fx.root).ID, fx.videos.folders[clip])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestScanner_WatchRejectsMissingRoot(t *testing.T) {
	fx := newScanFixture(t, nil)

	w, err := watcher.New(testLogger(), watcher.Options{})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck // Test cleanup

	err = fx.scanner.Watch(context.Background(), filepath.Join(fx.root, "missing"), w)
	assert.Error(t, err)
}

func TestScanner_WatchReturnsWhenWatcherStops(t *testing.T) {
	fx := newScanFixture(t, nil)

	w, err := watcher.New(testLogger(), watcher.Options{})
	require.NoError(t, err)
	require.NoError(t, w.Stop())

	done := make(chan error, 1)
	go func() { done <- fx.scanner.Watch(context.Background(), fx.root, w) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch kept running on a stopped watcher")
	}
}
