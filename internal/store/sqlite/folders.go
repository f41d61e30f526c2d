package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/store"
)

const folderColumns = `id, parent_id, path, name`

func scanFolder(scanner rowScanner) (*domain.Folder, error) {
	var (
		f        domain.Folder
		parentID sql.NullInt64
	)
	if err := scanner.Scan(&f.ID, &parentID, &f.Path, &f.Name); err != nil {
		return nil, err
	}
	f.ParentID = parentID.Int64
	return &f, nil
}

// CreateFolder inserts a folder. The id must already be allocated.
// Returns store.ErrAlreadyExists if the path is already cataloged.
func (s *Store) CreateFolder(ctx context.Context, f *domain.Folder) (err error) {
	defer record("create_folder", time.Now(), &err)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO folders (`+folderColumns+`) VALUES (?, ?, ?, ?)`,
		f.ID, nullInt64(f.ParentID), f.Path, f.Name)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetFolder retrieves a folder by id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetFolder(ctx context.Context, folderID int64) (_ *domain.Folder, err error) {
	defer record("get_folder", time.Now(), &err)
	return s.getFolder(ctx, `SELECT `+folderColumns+` FROM folders WHERE id = ?`, folderID)
}

// GetFolderByPath retrieves a folder by its absolute path.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetFolderByPath(ctx context.Context, path string) (_ *domain.Folder, err error) {
	defer record("get_folder_by_path", time.Now(), &err)
	return s.getFolder(ctx, `SELECT `+folderColumns+` FROM folders WHERE path = ?`, path)
}

func (s *Store) getFolder(ctx context.Context, query string, arg any) (*domain.Folder, error) {
	f, err := scanFolder(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return f, err
}

// ListFolders returns every folder ordered by path.
func (s *Store) ListFolders(ctx context.Context) (_ []*domain.Folder, err error) {
	defer record("list_folders", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `SELECT `+folderColumns+` FROM folders ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []*domain.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}
