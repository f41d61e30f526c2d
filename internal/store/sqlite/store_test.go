package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var busy int
	if err := s.db.QueryRow("PRAGMA busy_timeout").Scan(&busy); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if busy != 5000 {
		t.Errorf("expected busy_timeout=5000, got %d", busy)
	}

	tables := []string{"items", "genres", "artists", "albums", "folders", "songs", "videos", "art", "art_items"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first, err := s.Allocate(context.Background(), domain.ItemTypeVideo)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	s.Close()

	s, err = Open(dbPath, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	second, err := s.Allocate(context.Background(), domain.ItemTypeVideo)
	if err != nil {
		t.Fatalf("Allocate after reopen: %v", err)
	}
	if second <= first {
		t.Errorf("id after reopen = %d, want > %d", second, first)
	}
}

func TestAllocate_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers, perWorker = 8, 25
	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	errs := make(chan error, workers*perWorker)

	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			typ := domain.ItemType(w%7 + 1)
			for range perWorker {
				itemID, err := s.Allocate(ctx, typ)
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				if seen[itemID] {
					errs <- errors.New("duplicate id issued")
				}
				seen[itemID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("allocate: %v", err)
	}
	if len(seen) != workers*perWorker {
		t.Errorf("issued %d ids, want %d", len(seen), workers*perWorker)
	}
}

func TestAllocate_RecordsType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	itemID, err := s.Allocate(ctx, domain.ItemTypeGenre)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if itemID <= 0 {
		t.Fatalf("id = %d, want positive", itemID)
	}

	typ, err := s.ItemType(ctx, itemID)
	if err != nil {
		t.Fatalf("ItemType: %v", err)
	}
	if typ != domain.ItemTypeGenre {
		t.Errorf("type = %v, want genre", typ)
	}

	if _, err := s.ItemType(ctx, itemID+1000); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAllocate_RejectsUnknownType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Allocate(context.Background(), domain.ItemTypeUnknown)
	if !errors.Is(err, id.ErrInvalidItemType) {
		t.Errorf("expected ErrInvalidItemType, got %v", err)
	}
}

func TestAllocate_ClosedStoreFails(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "closed.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	if _, err := s.Allocate(context.Background(), domain.ItemTypeVideo); err == nil {
		t.Error("expected error from closed store")
	}
}
