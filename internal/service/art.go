package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/media/images"
	"github.com/hearthmedia/hearth/internal/metrics"
	"github.com/hearthmedia/hearth/internal/probe"
	"github.com/hearthmedia/hearth/internal/store"
)

// ArtService manages content-addressed art and the item-to-art relation.
//
// Storage failures are logged and reported as the negative result (false,
// zero, nil or empty); callers cannot tell "absent" from "failed".
type ArtService struct {
	store   store.ArtStore
	ids     id.Allocator
	storage *images.Storage
	logger  *slog.Logger
}

// NewArtService creates an ArtService. storage may be nil, in which case art
// bytes are not written to disk.
func NewArtService(st store.ArtStore, ids id.Allocator, storage *images.Storage, logger *slog.Logger) *ArtService {
	return &ArtService{
		store:   st,
		ids:     ids,
		storage: storage,
		logger:  logger,
	}
}

// FindByHash returns the id of the art with the given content hash.
func (s *ArtService) FindByHash(ctx context.Context, hash string) (int64, bool) {
	if hash == "" {
		return 0, false
	}
	artID, err := s.store.GetArtIDByHash(ctx, hash)
	return s.collapseID(err, artID, "find art by hash", "hash", hash)
}

// ArtForItem returns the art linked to itemID.
func (s *ArtService) ArtForItem(ctx context.Context, itemID int64) (int64, bool) {
	artID, err := s.store.GetArtIDForItem(ctx, itemID)
	return s.collapseID(err, artID, "art for item", "item_id", itemID)
}

// ItemForArt returns one item linked to artID, the one with the lowest id.
// Use ItemsForArt for the full set.
func (s *ArtService) ItemForArt(ctx context.Context, artID int64) (int64, bool) {
	itemID, err := s.store.GetItemIDForArt(ctx, artID)
	return s.collapseID(err, itemID, "item for art", "art_id", artID)
}

// ItemsForArt returns every item linked to artID in ascending id order.
func (s *ArtService) ItemsForArt(ctx context.Context, artID int64) []int64 {
	ids, err := s.store.ListItemIDsForArt(ctx, artID)
	if err != nil {
		s.logger.Error("failed to list items for art", "art_id", artID, "error", err)
		return []int64{}
	}
	return ids
}

// Art returns the art record for artID, or nil.
func (s *ArtService) Art(ctx context.Context, artID int64) *domain.Art {
	art, err := s.store.GetArt(ctx, artID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to get art", "art_id", artID, "error", err)
		}
		return nil
	}
	return art
}

// InsertArt persists art. In non-replace mode an existing row with the same
// hash is kept and false is returned.
func (s *ArtService) InsertArt(ctx context.Context, art *domain.Art, replace bool) bool {
	if art == nil || art.ID == 0 || art.ContentHash == "" {
		return false
	}
	ok, err := s.store.InsertArt(ctx, art, replace)
	if err != nil {
		s.logger.Error("failed to insert art", "art_id", art.ID, "hash", art.ContentHash, "error", err)
		return false
	}
	return ok
}

// LinkItemToArt relates itemID to artID. Replace mode supersedes any
// existing relation; otherwise an item that already has art keeps it.
// Zero ids are rejected.
func (s *ArtService) LinkItemToArt(ctx context.Context, artID, itemID int64, replace bool) bool {
	if artID == 0 || itemID == 0 {
		return false
	}
	ok, err := s.store.LinkArtItem(ctx, artID, itemID, replace)
	if err != nil {
		s.logger.Error("failed to link art",
			"art_id", artID,
			"item_id", itemID,
			"replace", replace,
			"error", err,
		)
		return false
	}
	return ok
}

// RemoveArtForItem drops the art relation of itemID.
func (s *ArtService) RemoveArtForItem(ctx context.Context, itemID int64) bool {
	ok, err := s.store.UnlinkArtItem(ctx, itemID)
	if err != nil {
		s.logger.Error("failed to remove art for item", "item_id", itemID, "error", err)
		return false
	}
	return ok
}

// RewireArtID repoints every item linked to oldArtID onto newArtID.
// It reports whether the update ran, even if no rows matched.
func (s *ArtService) RewireArtID(ctx context.Context, oldArtID, newArtID int64) bool {
	if oldArtID == 0 || newArtID == 0 {
		return false
	}
	n, err := s.store.RewireArt(ctx, oldArtID, newArtID)
	if err != nil {
		s.logger.Error("failed to rewire art", "old_art_id", oldArtID, "new_art_id", newArtID, "error", err)
		return false
	}
	s.logger.Debug("rewired art", "old_art_id", oldArtID, "new_art_id", newArtID, "items", n)
	return true
}

// CreateArt returns the id of the art holding data, creating it when no art
// with the same content hash exists yet.
func (s *ArtService) CreateArt(ctx context.Context, data []byte) (int64, bool) {
	if len(data) == 0 {
		return 0, false
	}

	hash := images.ContentHash(data)
	if artID, ok := s.FindByHash(ctx, hash); ok {
		metrics.ArtDedupHits.Inc()
		return artID, true
	}

	artID, err := s.ids.Allocate(ctx, domain.ItemTypeArt)
	if err != nil {
		s.logger.Error("failed to allocate art id", "hash", hash, "error", err)
		return 0, false
	}

	art := &domain.Art{
		ID:          artID,
		ContentHash: hash,
		MIMEType:    probe.DetectMIMEBytes(data),
		Size:        int64(len(data)),
	}
	if blur, err := images.BlurHashFromBytes(data); err != nil {
		s.logger.Debug("blurhash unavailable", "hash", hash, "mime_type", art.MIMEType, "error", err)
	} else {
		art.BlurHash = blur
	}

	if s.storage != nil {
		if err := s.storage.Save(hash, data); err != nil {
			s.logger.Error("failed to save art bytes", "hash", hash, "error", err)
			return 0, false
		}
	}

	if !s.InsertArt(ctx, art, false) {
		// Lost a race with another writer of the same bytes; use theirs.
		if existing, ok := s.FindByHash(ctx, hash); ok {
			metrics.ArtDedupHits.Inc()
			return existing, true
		}
		return 0, false
	}

	metrics.ArtCreatedTotal.Inc()
	s.logger.Debug("created art", "art_id", artID, "hash", hash, "size", art.Size)
	return artID, true
}

// collapseID maps a store lookup to the (id, found) contract, logging
// failures other than not-found.
func (s *ArtService) collapseID(err error, v int64, op string, key string, arg any) (int64, bool) {
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to "+op, key, arg, "error", err)
		}
		return 0, false
	}
	return v, true
}
