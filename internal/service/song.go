package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/metrics"
	"github.com/hearthmedia/hearth/internal/probe"
	"github.com/hearthmedia/hearth/internal/store"
	"github.com/hearthmedia/hearth/internal/validation"
)

// SongService indexes audio files, resolving their artist, album and genre.
type SongService struct {
	store     store.MusicStore
	ids       id.Allocator
	genres    *GenreService
	art       *ArtService
	validator *validation.Validator
	logger    *slog.Logger

	// mu serializes artist and album creation.
	mu    sync.Mutex
	files pathLocks
}

// NewSongService creates a SongService.
func NewSongService(
	st store.MusicStore,
	ids id.Allocator,
	genres *GenreService,
	art *ArtService,
	logger *slog.Logger,
) *SongService {
	return &SongService{
		store:     st,
		ids:       ids,
		genres:    genres,
		art:       art,
		validator: validation.New(),
		logger:    logger,
	}
}

// NeedsReindex reports whether the song at path in folderID is new or has
// changed on disk since it was indexed.
func (s *SongService) NeedsReindex(ctx context.Context, path string, folderID int64) ReindexStatus {
	if path == "" {
		return ReindexStatus{}
	}

	song, err := s.store.GetSongByPath(ctx, folderID, filepath.Base(path))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to look up song", "path", path, "folder_id", folderID, "error", err)
		}
		return ReindexStatus{IsNew: true, Stale: true}
	}
	return staleness(path, song.ID, song.LastModified)
}

// IndexFile writes the song at path into folderID using meta and links its
// art. It returns nil when the file cannot be indexed.
func (s *SongService) IndexFile(ctx context.Context, path string, folderID int64, meta *probe.Metadata) *domain.Song {
	if err := s.validator.Validate(IndexRequest{Path: path, FolderID: folderID}); err != nil {
		s.logger.Warn("rejected index request", "path", path, "folder_id", folderID, "error", err)
		return nil
	}
	meta = orEmpty(meta, path, s.logger)

	mf, err := newMediaFile(path, folderID, meta, s.logger)
	if err != nil {
		s.logger.Error("failed to read audio file", "path", path, "error", err)
		metrics.FilesIndexedTotal.WithLabelValues("song", "error").Inc()
		return nil
	}

	unlock := s.files.lock(folderID, mf.FileName)
	defer unlock()

	songID, isNew := int64(0), false
	existing, err := s.store.GetSongByPath(ctx, folderID, mf.FileName)
	switch {
	case err == nil:
		songID = existing.ID
	case errors.Is(err, store.ErrNotFound):
		songID, err = s.ids.Allocate(ctx, domain.ItemTypeSong)
		if err != nil {
			s.logger.Error("failed to allocate song id", "path", path, "error", err)
			metrics.FilesIndexedTotal.WithLabelValues("song", "error").Inc()
			return nil
		}
		isNew = true
	default:
		s.logger.Error("failed to look up song", "path", path, "error", err)
		metrics.FilesIndexedTotal.WithLabelValues("song", "error").Inc()
		return nil
	}

	song := &domain.Song{
		ID:          songID,
		MediaFile:   mf,
		Title:       strings.TrimSpace(meta.Title),
		TrackNumber: meta.TrackNumber,
	}
	if meta.Genre != "" {
		if g := s.genres.ResolveOrCreate(ctx, meta.Genre); g != nil {
			song.GenreID = g.ID
			song.GenreName = g.Name
		}
	}
	if artist := s.resolveArtist(ctx, meta.Artist); artist != nil {
		song.ArtistID = artist.ID
	}
	if album := s.resolveAlbum(ctx, meta.Album, song.ArtistID); album != nil {
		song.AlbumID = album.ID
	}

	if err := s.store.UpsertSong(ctx, song); err != nil {
		s.logger.Error("failed to save song", "path", path, "song_id", songID, "error", err)
		metrics.FilesIndexedTotal.WithLabelValues("song", "error").Inc()
		return nil
	}

	if artID := s.art.linkArt(ctx, song.ID, folderID, meta.Art, isNew); artID != 0 && song.AlbumID != 0 {
		s.art.LinkItemToArt(ctx, artID, song.AlbumID, false)
	}

	metrics.FilesIndexedTotal.WithLabelValues("song", "success").Inc()
	s.logger.Debug("indexed song", "path", path, "song_id", song.ID, "new", isNew)
	return song
}

// Index implements the scanner's indexer contract.
func (s *SongService) Index(ctx context.Context, path string, folderID int64, meta *probe.Metadata) bool {
	return s.IndexFile(ctx, path, folderID, meta) != nil
}

// Song returns the song with the given id, or nil.
func (s *SongService) Song(ctx context.Context, songID int64) *domain.Song {
	song, err := s.store.GetSong(ctx, songID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to get song", "song_id", songID, "error", err)
		}
		return nil
	}
	return song
}

// Count returns the number of songs, or 0 on failure.
func (s *SongService) Count(ctx context.Context) int64 {
	n, err := s.store.CountSongs(ctx)
	if err != nil {
		s.logger.Error("failed to count songs", "error", err)
		return 0
	}
	return n
}

func (s *SongService) resolveArtist(ctx context.Context, name string) *domain.Artist {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	artist, err := s.store.GetArtistByName(ctx, name)
	if err == nil {
		return artist
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("failed to look up artist", "name", name, "error", err)
		return nil
	}

	artistID, err := s.ids.Allocate(ctx, domain.ItemTypeArtist)
	if err != nil {
		s.logger.Error("failed to allocate artist id", "name", name, "error", err)
		return nil
	}
	artist = &domain.Artist{ID: artistID, Name: name}
	if err := s.store.CreateArtist(ctx, artist); err != nil {
		s.logger.Error("failed to create artist", "name", name, "error", err)
		return nil
	}
	return artist
}

func (s *SongService) resolveAlbum(ctx context.Context, name string, artistID int64) *domain.Album {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	album, err := s.store.GetAlbumByName(ctx, name, artistID)
	if err == nil {
		return album
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("failed to look up album", "name", name, "error", err)
		return nil
	}

	albumID, err := s.ids.Allocate(ctx, domain.ItemTypeAlbum)
	if err != nil {
		s.logger.Error("failed to allocate album id", "name", name, "error", err)
		return nil
	}
	album = &domain.Album{ID: albumID, Name: name, ArtistID: artistID}
	if err := s.store.CreateAlbum(ctx, album); err != nil {
		s.logger.Error("failed to create album", "name", name, "error", err)
		return nil
	}
	return album
}
