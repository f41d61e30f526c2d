package id

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/hearthmedia/hearth/internal/domain"
)

const (
	sequenceKey = "seq:item"
	itemPrefix  = "item:"

	// DefaultBandwidth is how many ids are leased from disk at a time.
	DefaultBandwidth = 128
)

// BadgerAllocator allocates item ids from a badger.Sequence and records each
// id's item type. Close returns unused leased ids to the sequence; after a
// crash the unused part of the lease is skipped.
type BadgerAllocator struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
}

// OpenBadgerAllocator opens (or creates) a badger database at path.
// An empty path opens an in-memory database, which is only useful in tests.
func OpenBadgerAllocator(path string, bandwidth uint64, logger *slog.Logger) (*BadgerAllocator, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	if bandwidth == 0 {
		bandwidth = DefaultBandwidth
	}
	seq, err := db.GetSequence([]byte(sequenceKey), bandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("get sequence: %w", err)
	}

	if logger != nil {
		logger.Info("badger id allocator opened", "path", path, "bandwidth", bandwidth)
	}

	return &BadgerAllocator{db: db, seq: seq, logger: logger}, nil
}

// Allocate implements Allocator.
func (a *BadgerAllocator) Allocate(ctx context.Context, t domain.ItemType) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidItemType, t)
	}

	// Zero is reserved for "no item"; the sequence starts there.
	var n uint64
	for n == 0 {
		var err error
		if n, err = a.seq.Next(); err != nil {
			return 0, fmt.Errorf("next sequence value: %w", err)
		}
	}

	val := make([]byte, binary.MaxVarintLen64)
	val = val[:binary.PutVarint(val, int64(t))]
	key := []byte(itemPrefix + strconv.FormatUint(n, 10))
	if err := a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	}); err != nil {
		return 0, fmt.Errorf("record item %d: %w", n, err)
	}

	return int64(n), nil
}

// ItemType returns the type recorded for an allocated id.
func (a *BadgerAllocator) ItemType(itemID int64) (domain.ItemType, error) {
	var t domain.ItemType
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(itemPrefix + strconv.FormatInt(itemID, 10)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			v, n := binary.Varint(val)
			if n <= 0 {
				return fmt.Errorf("corrupt item type for %d", itemID)
			}
			t = domain.ItemType(v)
			return nil
		})
	})
	if err != nil {
		return domain.ItemTypeUnknown, err
	}
	return t, nil
}

// Close releases unused leased ids and closes the database.
func (a *BadgerAllocator) Close() error {
	if err := a.seq.Release(); err != nil {
		a.db.Close()
		return fmt.Errorf("release sequence: %w", err)
	}
	return a.db.Close()
}
