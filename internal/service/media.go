package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/probe"
)

// ReindexStatus reports whether a file on disk needs (re)indexing.
type ReindexStatus struct {
	IsNew      bool  // no row exists for the file
	ExistingID int64 // id of the existing row, zero when IsNew
	Stale      bool  // true when new or the stored mod time differs
}

// IndexRequest identifies a file to index.
type IndexRequest struct {
	Path     string `json:"path" validate:"required"`
	FolderID int64  `json:"folder_id" validate:"gt=0"`
}

// staleness compares a stored modification time (unix seconds) with the file
// currently at path. A file that cannot be stat'ed is reported stale so the
// next index attempt surfaces the error.
func staleness(path string, existingID, storedModTime int64) ReindexStatus {
	status := ReindexStatus{ExistingID: existingID, Stale: true}
	info, err := os.Stat(path)
	if err != nil {
		return status
	}
	status.Stale = info.ModTime().Unix() != storedModTime
	return status
}

// newMediaFile fills the filesystem and technical attributes shared by every
// indexed file.
func newMediaFile(path string, folderID int64, meta *probe.Metadata, logger *slog.Logger) (domain.MediaFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.MediaFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.MediaFile{}, fmt.Errorf("%s is a directory", path)
	}

	mf := domain.MediaFile{
		FolderID:     folderID,
		FileName:     filepath.Base(path),
		FileSize:     info.Size(),
		LastModified: info.ModTime().Unix(),
		Duration:     int(math.Round(meta.Duration.Seconds())),
		Bitrate:      meta.Bitrate,
		FileType:     classify(meta),
	}
	if mf.FileType == domain.FileTypeUnknown {
		logger.Info("unknown file type",
			"path", path,
			"mime_type", meta.MIMEType,
			"format", meta.Format,
		)
	}
	return mf, nil
}

// classify prefers the sniffed MIME type and falls back to the container name.
func classify(meta *probe.Metadata) domain.FileType {
	if t := domain.FileTypeForMIME(meta.MIMEType); t != domain.FileTypeUnknown {
		return t
	}
	return domain.FileTypeForFormat(meta.Format)
}

// orEmpty substitutes empty metadata for a failed extraction.
func orEmpty(meta *probe.Metadata, path string, logger *slog.Logger) *probe.Metadata {
	if meta != nil {
		return meta
	}
	logger.Warn("no metadata extracted, indexing with defaults", "path", path)
	return &probe.Metadata{}
}

// linkArt resolves the art for a freshly written item: embedded bytes win,
// otherwise the item inherits its folder's art. The folder is then given the
// same art unless it already has some. Returns the linked art id or zero.
func (s *ArtService) linkArt(ctx context.Context, itemID, folderID int64, embedded []byte, isNew bool) int64 {
	var artID int64
	if len(embedded) > 0 {
		if created, ok := s.CreateArt(ctx, embedded); ok {
			artID = created
		}
	}
	if artID == 0 {
		if inherited, ok := s.ArtForItem(ctx, folderID); ok {
			artID = inherited
		}
	}

	if artID == 0 {
		// A re-indexed file that lost its art must not keep the old link.
		if !isNew {
			s.RemoveArtForItem(ctx, itemID)
		}
		return 0
	}

	s.LinkItemToArt(ctx, artID, itemID, true)
	s.LinkItemToArt(ctx, artID, folderID, false)
	return artID
}
