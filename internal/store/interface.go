// Package store defines the persistence interfaces for the Hearth catalog.
//
// Lookups return ErrNotFound (possibly wrapped) when no row matches; any other
// error is a storage failure. The service layer decides how to surface each.
package store

import (
	"context"

	"github.com/hearthmedia/hearth/internal/domain"
)

// ItemStore issues and resolves global item ids.
type ItemStore interface {
	Allocate(ctx context.Context, t domain.ItemType) (int64, error)
	ItemType(ctx context.Context, itemID int64) (domain.ItemType, error)
}

// ArtStore persists content-addressed art and the item-to-art relation.
type ArtStore interface {
	GetArt(ctx context.Context, artID int64) (*domain.Art, error)
	GetArtIDByHash(ctx context.Context, hash string) (int64, error)
	GetArtIDForItem(ctx context.Context, itemID int64) (int64, error)
	GetItemIDForArt(ctx context.Context, artID int64) (int64, error)
	ListItemIDsForArt(ctx context.Context, artID int64) ([]int64, error)

	// InsertArt reports whether a row was written. With replace=false an
	// existing row with the same hash is left alone and false is returned.
	InsertArt(ctx context.Context, art *domain.Art, replace bool) (bool, error)

	// LinkArtItem reports whether a row was written. With replace=false an
	// item that already has art keeps it.
	LinkArtItem(ctx context.Context, artID, itemID int64, replace bool) (bool, error)
	UnlinkArtItem(ctx context.Context, itemID int64) (bool, error)

	// RewireArt moves every item linked to oldArtID onto newArtID and returns
	// the number of relations changed.
	RewireArt(ctx context.Context, oldArtID, newArtID int64) (int64, error)
}

// GenreStore persists genres and answers genre traversals.
type GenreStore interface {
	CreateGenre(ctx context.Context, g *domain.Genre) error
	GetGenre(ctx context.Context, genreID int64) (*domain.Genre, error)
	GetGenreByName(ctx context.Context, name string) (*domain.Genre, error)
	ListGenres(ctx context.Context) ([]*domain.Genre, error)
	ListGenreArtists(ctx context.Context, genreID int64) ([]*domain.Artist, error)
	ListGenreAlbums(ctx context.Context, genreID int64) ([]*domain.Album, error)
	ListGenreSongs(ctx context.Context, genreID int64) ([]*domain.Song, error)
	ListGenreFolders(ctx context.Context, genreID int64) ([]*domain.Folder, error)
}

// FolderStore persists library folders.
type FolderStore interface {
	CreateFolder(ctx context.Context, f *domain.Folder) error
	GetFolder(ctx context.Context, folderID int64) (*domain.Folder, error)
	GetFolderByPath(ctx context.Context, path string) (*domain.Folder, error)
	ListFolders(ctx context.Context) ([]*domain.Folder, error)
}

// VideoStore persists videos.
type VideoStore interface {
	// UpsertVideo writes v, replacing any row with the same id or the same
	// (folder_id, file_name).
	UpsertVideo(ctx context.Context, v *domain.Video) error
	GetVideo(ctx context.Context, videoID int64) (*domain.Video, error)
	GetVideoByPath(ctx context.Context, folderID int64, fileName string) (*domain.Video, error)
	ListVideos(ctx context.Context) ([]*domain.Video, error)

	// SearchVideos filters on column, which must be one of VideoSearchColumns.
	SearchVideos(ctx context.Context, column, query string, exact bool) ([]*domain.Video, error)
	CountVideos(ctx context.Context) (int64, error)
	TotalVideoSize(ctx context.Context) (int64, error)
	TotalVideoDuration(ctx context.Context) (int64, error)
}

// MusicStore persists songs and the artists and albums they reference.
type MusicStore interface {
	CreateArtist(ctx context.Context, a *domain.Artist) error
	GetArtistByName(ctx context.Context, name string) (*domain.Artist, error)
	CreateAlbum(ctx context.Context, a *domain.Album) error
	GetAlbumByName(ctx context.Context, name string, artistID int64) (*domain.Album, error)
	UpsertSong(ctx context.Context, s *domain.Song) error
	GetSong(ctx context.Context, songID int64) (*domain.Song, error)
	GetSongByPath(ctx context.Context, folderID int64, fileName string) (*domain.Song, error)
	CountSongs(ctx context.Context) (int64, error)
}

// Store is the full catalog persistence surface.
type Store interface {
	ItemStore
	ArtStore
	GenreStore
	FolderStore
	VideoStore
	MusicStore
	Close() error
}

// VideoSearchColumns lists the video columns that may appear in a search
// filter. Column names are interpolated into SQL, so nothing outside this
// list may reach the query text.
var VideoSearchColumns = map[string]bool{
	"id":            true,
	"folder_id":     true,
	"duration":      true,
	"bitrate":       true,
	"file_size":     true,
	"last_modified": true,
	"file_name":     true,
	"width":         true,
	"height":        true,
	"file_type":     true,
	"genre_id":      true,
}
