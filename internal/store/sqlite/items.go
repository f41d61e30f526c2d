package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/metrics"
	"github.com/hearthmedia/hearth/internal/store"
)

// Allocate issues a new item id tagged with t. The id is the AUTOINCREMENT
// rowid of the items table, so SQLite never reissues it, even after deletes.
func (s *Store) Allocate(ctx context.Context, t domain.ItemType) (_ int64, err error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", id.ErrInvalidItemType, t)
	}

	defer record("allocate_item", time.Now(), &err)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (item_type, created_at) VALUES (?, ?)`,
		int(t), formatTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}

	itemID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("item id: %w", err)
	}

	metrics.ItemsAllocatedTotal.WithLabelValues(t.String()).Inc()
	return itemID, nil
}

var _ id.Allocator = (*Store)(nil)

// ItemType returns the type recorded when itemID was allocated.
// Returns store.ErrNotFound if the id was never issued.
func (s *Store) ItemType(ctx context.Context, itemID int64) (domain.ItemType, error) {
	var t int
	err := s.db.QueryRowContext(ctx, `SELECT item_type FROM items WHERE id = ?`, itemID).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ItemTypeUnknown, store.ErrNotFound
	}
	if err != nil {
		return domain.ItemTypeUnknown, err
	}
	return domain.ItemType(t), nil
}
