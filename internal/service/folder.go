package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/hearthmedia/hearth/internal/domain"
	domainerrors "github.com/hearthmedia/hearth/internal/errors"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/store"
)

// FolderService catalogs library directories.
type FolderService struct {
	store  store.FolderStore
	ids    id.Allocator
	logger *slog.Logger

	mu sync.Mutex
}

// NewFolderService creates a FolderService.
func NewFolderService(st store.FolderStore, ids id.Allocator, logger *slog.Logger) *FolderService {
	return &FolderService{store: st, ids: ids, logger: logger}
}

// EnsureFolder returns the folder cataloged at path, creating it under
// parentID when it does not exist yet. parentID is zero for library roots.
// A relative path yields a CodeValidation error; storage failures are
// wrapped with CodeInternal.
func (s *FolderService) EnsureFolder(ctx context.Context, path string, parentID int64) (*domain.Folder, error) {
	path = filepath.Clean(path)
	if !filepath.IsAbs(path) {
		return nil, domainerrors.Validationf("folder path must be absolute: %q", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.store.GetFolderByPath(ctx, path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "look up folder")
	}

	folderID, err := s.ids.Allocate(ctx, domain.ItemTypeFolder)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "allocate folder id")
	}

	f = &domain.Folder{
		ID:       folderID,
		ParentID: parentID,
		Name:     filepath.Base(path),
		Path:     path,
	}
	if err := s.store.CreateFolder(ctx, f); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.store.GetFolderByPath(ctx, path)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create folder")
	}

	s.logger.Debug("cataloged folder", "path", path, "folder_id", folderID, "parent_id", parentID)
	return f, nil
}

// Folder returns the folder with the given id, or nil.
func (s *FolderService) Folder(ctx context.Context, folderID int64) *domain.Folder {
	f, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to get folder", "folder_id", folderID, "error", err)
		}
		return nil
	}
	return f
}

// Folders returns every cataloged folder ordered by path.
func (s *FolderService) Folders(ctx context.Context) []*domain.Folder {
	folders, err := s.store.ListFolders(ctx)
	if err != nil {
		s.logger.Error("failed to list folders", "error", err)
		return []*domain.Folder{}
	}
	return folders
}
