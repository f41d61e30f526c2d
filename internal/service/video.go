package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/metrics"
	"github.com/hearthmedia/hearth/internal/probe"
	"github.com/hearthmedia/hearth/internal/store"
	"github.com/hearthmedia/hearth/internal/validation"
)

// videoSearchFields maps accepted search field names to video columns.
// Both the JSON (snake_case) and camelCase spellings are accepted.
var videoSearchFields = map[string]string{
	"id":            "id",
	"folderId":      "folder_id",
	"folder_id":     "folder_id",
	"duration":      "duration",
	"bitrate":       "bitrate",
	"fileSize":      "file_size",
	"file_size":     "file_size",
	"lastModified":  "last_modified",
	"last_modified": "last_modified",
	"fileName":      "file_name",
	"file_name":     "file_name",
	"width":         "width",
	"height":        "height",
	"fileType":      "file_type",
	"file_type":     "file_type",
	"genreId":       "genre_id",
	"genre_id":      "genre_id",
}

// SearchRequest is a single-field video search.
type SearchRequest struct {
	Field string `json:"field" validate:"videofield"`
	Query string `json:"query" validate:"required"`
	Exact bool   `json:"exact"`
}

// VideoService indexes video files and answers video queries.
type VideoService struct {
	store     store.VideoStore
	ids       id.Allocator
	genres    *GenreService
	art       *ArtService
	validator *validation.Validator
	logger    *slog.Logger

	files pathLocks
}

// NewVideoService creates a VideoService.
func NewVideoService(
	st store.VideoStore,
	ids id.Allocator,
	genres *GenreService,
	art *ArtService,
	logger *slog.Logger,
) *VideoService {
	v := validation.New()
	allowed := make(map[string]bool, len(videoSearchFields))
	for field := range videoSearchFields {
		allowed[field] = true
	}
	if err := v.RegisterAllowList("videofield", allowed); err != nil {
		logger.Error("failed to register search field validation", "error", err)
	}

	return &VideoService{
		store:     st,
		ids:       ids,
		genres:    genres,
		art:       art,
		validator: v,
		logger:    logger,
	}
}

// NeedsReindex reports whether the video at path in folderID is new or has
// changed on disk since it was indexed. Only the modification time is compared.
func (s *VideoService) NeedsReindex(ctx context.Context, path string, folderID int64) ReindexStatus {
	if path == "" {
		return ReindexStatus{}
	}

	v, err := s.store.GetVideoByPath(ctx, folderID, filepath.Base(path))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to look up video", "path", path, "folder_id", folderID, "error", err)
		}
		return ReindexStatus{IsNew: true, Stale: true}
	}
	return staleness(path, v.ID, v.LastModified)
}

// IndexFile writes the video at path into folderID using meta, replacing any
// previous row for the same file, and links its art. It returns nil when the
// file cannot be indexed.
func (s *VideoService) IndexFile(ctx context.Context, path string, folderID int64, meta *probe.Metadata) *domain.Video {
	if err := s.validator.Validate(IndexRequest{Path: path, FolderID: folderID}); err != nil {
		s.logger.Warn("rejected index request", "path", path, "folder_id", folderID, "error", err)
		return nil
	}
	meta = orEmpty(meta, path, s.logger)

	mf, err := newMediaFile(path, folderID, meta, s.logger)
	if err != nil {
		s.logger.Error("failed to read video file", "path", path, "error", err)
		metrics.FilesIndexedTotal.WithLabelValues("video", "error").Inc()
		return nil
	}

	// The row lookup, id allocation and upsert must not interleave with
	// another index of the same file.
	unlock := s.files.lock(folderID, mf.FileName)
	defer unlock()

	videoID, isNew, ok := s.resolveID(ctx, folderID, mf.FileName)
	if !ok {
		metrics.FilesIndexedTotal.WithLabelValues("video", "error").Inc()
		return nil
	}

	if meta.Genre != "" {
		if g := s.genres.ResolveOrCreate(ctx, meta.Genre); g != nil {
			mf.GenreID = g.ID
		}
	}

	v := &domain.Video{
		ID:        videoID,
		MediaFile: mf,
		Width:     meta.Width,
		Height:    meta.Height,
	}
	if err := s.store.UpsertVideo(ctx, v); err != nil {
		s.logger.Error("failed to save video", "path", path, "video_id", videoID, "error", err)
		metrics.FilesIndexedTotal.WithLabelValues("video", "error").Inc()
		return nil
	}

	s.art.linkArt(ctx, v.ID, folderID, meta.Art, isNew)

	metrics.FilesIndexedTotal.WithLabelValues("video", "success").Inc()
	s.logger.Debug("indexed video",
		"path", path,
		"video_id", v.ID,
		"new", isNew,
		"file_type", v.FileType.String(),
	)
	return v
}

// Index implements the scanner's indexer contract.
func (s *VideoService) Index(ctx context.Context, path string, folderID int64, meta *probe.Metadata) bool {
	return s.IndexFile(ctx, path, folderID, meta) != nil
}

// resolveID reuses the id of an existing row for the file so art relations
// survive re-indexing, and allocates a fresh id otherwise.
func (s *VideoService) resolveID(ctx context.Context, folderID int64, fileName string) (int64, bool, bool) {
	existing, err := s.store.GetVideoByPath(ctx, folderID, fileName)
	if err == nil {
		return existing.ID, false, true
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("failed to look up video", "folder_id", folderID, "file_name", fileName, "error", err)
		return 0, false, false
	}

	videoID, err := s.ids.Allocate(ctx, domain.ItemTypeVideo)
	if err != nil {
		s.logger.Error("failed to allocate video id", "folder_id", folderID, "file_name", fileName, "error", err)
		return 0, false, false
	}
	return videoID, true, true
}

// SearchByField returns videos whose field matches query. field must be on
// the search allow-list ("" means file name); anything else, or an empty
// query, yields an empty result without touching storage.
func (s *VideoService) SearchByField(ctx context.Context, field, query string, exact bool) []*domain.Video {
	if field == "" {
		field = "file_name"
	}
	req := SearchRequest{Field: field, Query: query, Exact: exact}
	if err := s.validator.Validate(req); err != nil {
		s.logger.Debug("rejected video search", "field", field, "error", err)
		return []*domain.Video{}
	}

	videos, err := s.store.SearchVideos(ctx, videoSearchFields[req.Field], req.Query, req.Exact)
	if err != nil {
		s.logger.Error("failed to search videos", "field", field, "error", err)
		return []*domain.Video{}
	}
	return videos
}

// Video returns the video with the given id, or nil.
func (s *VideoService) Video(ctx context.Context, videoID int64) *domain.Video {
	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to get video", "video_id", videoID, "error", err)
		}
		return nil
	}
	return v
}

// AllVideos returns every video ordered by file name.
func (s *VideoService) AllVideos(ctx context.Context) []*domain.Video {
	videos, err := s.store.ListVideos(ctx)
	if err != nil {
		s.logger.Error("failed to list videos", "error", err)
		return []*domain.Video{}
	}
	return videos
}

// Count returns the number of videos, or 0 on failure.
func (s *VideoService) Count(ctx context.Context) int64 {
	return s.aggregate(ctx, "count", s.store.CountVideos)
}

// TotalSize returns the summed size of all videos in bytes, or 0 on failure.
func (s *VideoService) TotalSize(ctx context.Context) int64 {
	return s.aggregate(ctx, "total size", s.store.TotalVideoSize)
}

// TotalDuration returns the summed duration of all videos in seconds, or 0
// on failure.
func (s *VideoService) TotalDuration(ctx context.Context) int64 {
	return s.aggregate(ctx, "total duration", s.store.TotalVideoDuration)
}

func (s *VideoService) aggregate(ctx context.Context, what string, query func(context.Context) (int64, error)) int64 {
	n, err := query(ctx)
	if err != nil {
		s.logger.Error("failed to compute video "+what, "error", err)
		return 0
	}
	return n
}
