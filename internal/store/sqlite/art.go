package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/store"
)

const artColumns = `id, content_hash, mime_type, size, blur_hash`

func scanArt(scanner rowScanner) (*domain.Art, error) {
	var (
		a        domain.Art
		mimeType sql.NullString
		blurHash sql.NullString
	)
	if err := scanner.Scan(&a.ID, &a.ContentHash, &mimeType, &a.Size, &blurHash); err != nil {
		return nil, err
	}
	a.MIMEType = mimeType.String
	a.BlurHash = blurHash.String
	return &a, nil
}

// GetArt retrieves an art record by id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetArt(ctx context.Context, artID int64) (_ *domain.Art, err error) {
	defer record("get_art", time.Now(), &err)

	a, err := scanArt(s.db.QueryRowContext(ctx,
		`SELECT `+artColumns+` FROM art WHERE id = ?`, artID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return a, err
}

// GetArtIDByHash returns the id of the art whose content hash is hash.
// Returns store.ErrNotFound if no art has that hash.
func (s *Store) GetArtIDByHash(ctx context.Context, hash string) (_ int64, err error) {
	defer record("get_art_by_hash", time.Now(), &err)
	return s.queryID(ctx, `SELECT id FROM art WHERE content_hash = ?`, hash)
}

// GetArtIDForItem returns the art id linked to itemID.
// Returns store.ErrNotFound if the item has no art.
func (s *Store) GetArtIDForItem(ctx context.Context, itemID int64) (_ int64, err error) {
	defer record("get_art_for_item", time.Now(), &err)
	return s.queryID(ctx, `SELECT art_id FROM art_items WHERE item_id = ?`, itemID)
}

// GetItemIDForArt returns the lowest item id linked to artID.
// Returns store.ErrNotFound if nothing references the art.
func (s *Store) GetItemIDForArt(ctx context.Context, artID int64) (_ int64, err error) {
	defer record("get_item_for_art", time.Now(), &err)
	return s.queryID(ctx,
		`SELECT item_id FROM art_items WHERE art_id = ? ORDER BY item_id LIMIT 1`, artID)
}

// ListItemIDsForArt returns every item id linked to artID in ascending order.
func (s *Store) ListItemIDsForArt(ctx context.Context, artID int64) (_ []int64, err error) {
	defer record("list_items_for_art", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM art_items WHERE art_id = ? ORDER BY item_id`, artID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var itemID int64
		if err := rows.Scan(&itemID); err != nil {
			return nil, err
		}
		ids = append(ids, itemID)
	}
	return ids, rows.Err()
}

// InsertArt writes an art record. With replace=false an existing record with
// the same id or content hash is kept and false is returned.
func (s *Store) InsertArt(ctx context.Context, art *domain.Art, replace bool) (_ bool, err error) {
	defer record("insert_art", time.Now(), &err)

	verb := "INSERT OR IGNORE"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	res, err := s.db.ExecContext(ctx,
		verb+` INTO art (`+artColumns+`) VALUES (?, ?, ?, ?, ?)`,
		art.ID, art.ContentHash, nullString(art.MIMEType), art.Size, nullString(art.BlurHash))
	if err != nil {
		return false, fmt.Errorf("insert art: %w", err)
	}
	return affected(res)
}

// LinkArtItem relates itemID to artID. With replace=false an item that
// already has art keeps it and false is returned.
func (s *Store) LinkArtItem(ctx context.Context, artID, itemID int64, replace bool) (_ bool, err error) {
	defer record("link_art_item", time.Now(), &err)

	verb := "INSERT OR IGNORE"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	res, err := s.db.ExecContext(ctx,
		verb+` INTO art_items (item_id, art_id) VALUES (?, ?)`, itemID, artID)
	if err != nil {
		return false, fmt.Errorf("link art item: %w", err)
	}
	return affected(res)
}

// UnlinkArtItem removes the art relation of itemID, reporting whether one existed.
func (s *Store) UnlinkArtItem(ctx context.Context, itemID int64) (_ bool, err error) {
	defer record("unlink_art_item", time.Now(), &err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM art_items WHERE item_id = ?`, itemID)
	if err != nil {
		return false, fmt.Errorf("unlink art item: %w", err)
	}
	return affected(res)
}

// RewireArt points every item linked to oldArtID at newArtID in one statement.
func (s *Store) RewireArt(ctx context.Context, oldArtID, newArtID int64) (_ int64, err error) {
	defer record("rewire_art", time.Now(), &err)

	res, err := s.db.ExecContext(ctx,
		`UPDATE art_items SET art_id = ? WHERE art_id = ?`, newArtID, oldArtID)
	if err != nil {
		return 0, fmt.Errorf("rewire art: %w", err)
	}
	return res.RowsAffected()
}

// queryID runs a single-column id query, mapping no rows to store.ErrNotFound.
func (s *Store) queryID(ctx context.Context, query string, args ...any) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
