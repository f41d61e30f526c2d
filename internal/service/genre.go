package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/metrics"
	"github.com/hearthmedia/hearth/internal/store"
)

// DefaultGenreCacheSize bounds the in-memory name cache.
const DefaultGenreCacheSize = 4096

// GenreService resolves genre names to rows and answers genre traversals.
type GenreService struct {
	store  store.GenreStore
	ids    id.Allocator
	logger *slog.Logger

	// mu guards cache and spans the whole lookup-or-create sequence, so two
	// callers resolving the same new name cannot both insert it.
	mu        sync.Mutex
	cache     map[string]*domain.Genre
	cacheSize int
}

// NewGenreService creates a GenreService whose cache holds at most cacheSize
// names; cacheSize <= 0 means DefaultGenreCacheSize.
func NewGenreService(st store.GenreStore, ids id.Allocator, cacheSize int, logger *slog.Logger) *GenreService {
	if cacheSize <= 0 {
		cacheSize = DefaultGenreCacheSize
	}
	return &GenreService{
		store:     st,
		ids:       ids,
		logger:    logger,
		cache:     make(map[string]*domain.Genre),
		cacheSize: cacheSize,
	}
}

// NormalizeGenreName trims surrounding space and applies Unicode NFC so
// visually identical names share a row. Case is preserved.
func NormalizeGenreName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ResolveOrCreate returns the genre named name, creating it on first
// reference. It returns nil for an empty name or on storage failure.
func (s *GenreService) ResolveOrCreate(ctx context.Context, name string) *domain.Genre {
	name = NormalizeGenreName(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.cache[name]; ok {
		metrics.GenreCacheHits.Inc()
		return g
	}
	metrics.GenreCacheMisses.Inc()

	g, err := s.store.GetGenreByName(ctx, name)
	switch {
	case err == nil:
		s.remember(g)
		return g
	case !errors.Is(err, store.ErrNotFound):
		s.logger.Error("failed to look up genre", "name", name, "error", err)
		return nil
	}

	genreID, err := s.ids.Allocate(ctx, domain.ItemTypeGenre)
	if err != nil {
		s.logger.Error("failed to allocate genre id", "name", name, "error", err)
		return nil
	}

	g = &domain.Genre{ID: genreID, Name: name}
	if err := s.store.CreateGenre(ctx, g); err != nil {
		// Another process sharing the database got there first.
		if errors.Is(err, store.ErrAlreadyExists) {
			if existing, lookupErr := s.store.GetGenreByName(ctx, name); lookupErr == nil {
				s.remember(existing)
				return existing
			}
		}
		s.logger.Error("failed to create genre", "name", name, "genre_id", genreID, "error", err)
		return nil
	}

	s.logger.Debug("created genre", "name", name, "genre_id", genreID)
	s.remember(g)
	return g
}

// remember caches g, starting over when the cache is full. Caller holds mu.
func (s *GenreService) remember(g *domain.Genre) {
	if len(s.cache) >= s.cacheSize {
		s.logger.Debug("genre cache full, resetting", "size", len(s.cache))
		clear(s.cache)
	}
	s.cache[g.Name] = g
}

// InvalidateCache drops every cached genre.
func (s *GenreService) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
}

// Genre returns the genre with the given id, or nil.
func (s *GenreService) Genre(ctx context.Context, genreID int64) *domain.Genre {
	g, err := s.store.GetGenre(ctx, genreID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to get genre", "genre_id", genreID, "error", err)
		}
		return nil
	}
	return g
}

// ListAll returns every genre ordered by name, ignoring case.
func (s *GenreService) ListAll(ctx context.Context) []*domain.Genre {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		s.logger.Error("failed to list genres", "error", err)
		return []*domain.Genre{}
	}
	return genres
}

// ArtistsOf returns the artists with at least one song in the genre.
func (s *GenreService) ArtistsOf(ctx context.Context, genreID int64) []*domain.Artist {
	return collect(s.logger, "artists", genreID, func() ([]*domain.Artist, error) {
		return s.store.ListGenreArtists(ctx, genreID)
	})
}

// AlbumsOf returns the albums with at least one song in the genre.
func (s *GenreService) AlbumsOf(ctx context.Context, genreID int64) []*domain.Album {
	return collect(s.logger, "albums", genreID, func() ([]*domain.Album, error) {
		return s.store.ListGenreAlbums(ctx, genreID)
	})
}

// SongsOf returns the songs in the genre.
func (s *GenreService) SongsOf(ctx context.Context, genreID int64) []*domain.Song {
	return collect(s.logger, "songs", genreID, func() ([]*domain.Song, error) {
		return s.store.ListGenreSongs(ctx, genreID)
	})
}

// FoldersOf returns the folders holding at least one song in the genre.
func (s *GenreService) FoldersOf(ctx context.Context, genreID int64) []*domain.Folder {
	return collect(s.logger, "folders", genreID, func() ([]*domain.Folder, error) {
		return s.store.ListGenreFolders(ctx, genreID)
	})
}

func collect[T any](logger *slog.Logger, what string, genreID int64, list func() ([]T, error)) []T {
	items, err := list()
	if err != nil {
		logger.Error("failed to list genre "+what, "genre_id", genreID, "error", err)
		return []T{}
	}
	return items
}
