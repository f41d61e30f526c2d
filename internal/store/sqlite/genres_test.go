package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/store"
)

func TestCreateAndGetGenre(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := &domain.Genre{ID: 1, Name: "Rock"}
	if err := s.CreateGenre(ctx, g); err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}

	got, err := s.GetGenre(ctx, 1)
	if err != nil {
		t.Fatalf("GetGenre: %v", err)
	}
	if got.Name != "Rock" {
		t.Errorf("Name: got %q, want %q", got.Name, "Rock")
	}

	byName, err := s.GetGenreByName(ctx, "Rock")
	if err != nil {
		t.Fatalf("GetGenreByName: %v", err)
	}
	if byName.ID != 1 {
		t.Errorf("ID: got %d, want 1", byName.ID)
	}

	// Names match case-sensitively.
	if _, err := s.GetGenreByName(ctx, "rock"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for different case, got %v", err)
	}
	if _, err := s.GetGenre(ctx, 2); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateGenre_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateGenre(ctx, &domain.Genre{ID: 1, Name: "Jazz"}); err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}
	err := s.CreateGenre(ctx, &domain.Genre{ID: 2, Name: "Jazz"})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListGenres_CaseInsensitiveOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"rock", "Ambient", "jazz", "Blues"} {
		if err := s.CreateGenre(ctx, &domain.Genre{ID: int64(i + 1), Name: name}); err != nil {
			t.Fatalf("CreateGenre %s: %v", name, err)
		}
	}

	genres, err := s.ListGenres(ctx)
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}

	want := []string{"Ambient", "Blues", "jazz", "rock"}
	if len(genres) != len(want) {
		t.Fatalf("got %d genres, want %d", len(genres), len(want))
	}
	for i, g := range genres {
		if g.Name != want[i] {
			t.Errorf("genres[%d] = %q, want %q", i, g.Name, want[i])
		}
	}
}

// seedGenreLibrary creates one genre shared by three songs across two
// artists, two albums and two folders, plus an unrelated song.
func seedGenreLibrary(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	mustCreate := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	mustCreate(s.CreateGenre(ctx, &domain.Genre{ID: 1, Name: "Rock"}))
	mustCreate(s.CreateGenre(ctx, &domain.Genre{ID: 2, Name: "Empty"}))
	mustCreate(s.CreateGenre(ctx, &domain.Genre{ID: 3, Name: "Folk"}))
	mustCreate(s.CreateArtist(ctx, &domain.Artist{ID: 10, Name: "Zed"}))
	mustCreate(s.CreateArtist(ctx, &domain.Artist{ID: 11, Name: "alpha"}))
	mustCreate(s.CreateAlbum(ctx, &domain.Album{ID: 20, Name: "First", ArtistID: 10}))
	mustCreate(s.CreateAlbum(ctx, &domain.Album{ID: 21, Name: "Second", ArtistID: 11}))
	mustCreate(s.CreateFolder(ctx, &domain.Folder{ID: 30, Path: "/music/a", Name: "a"}))
	mustCreate(s.CreateFolder(ctx, &domain.Folder{ID: 31, Path: "/music/b", Name: "b"}))

	songs := []*domain.Song{
		{ID: 40, MediaFile: domain.MediaFile{FolderID: 30, FileName: "1.mp3", GenreID: 1}, ArtistID: 10, AlbumID: 20},
		{ID: 41, MediaFile: domain.MediaFile{FolderID: 30, FileName: "2.mp3", GenreID: 1}, ArtistID: 10, AlbumID: 20},
		{ID: 42, MediaFile: domain.MediaFile{FolderID: 31, FileName: "3.mp3", GenreID: 1}, ArtistID: 11, AlbumID: 21},
		{ID: 43, MediaFile: domain.MediaFile{FolderID: 31, FileName: "4.mp3", GenreID: 3}, ArtistID: 11, AlbumID: 21},
	}
	for _, song := range songs {
		mustCreate(s.UpsertSong(ctx, song))
	}
}

func TestGenreTraversals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenreLibrary(t, s)

	artists, err := s.ListGenreArtists(ctx, 1)
	if err != nil {
		t.Fatalf("ListGenreArtists: %v", err)
	}
	if len(artists) != 2 || artists[0].Name != "alpha" || artists[1].Name != "Zed" {
		t.Errorf("artists = %+v", artists)
	}

	albums, err := s.ListGenreAlbums(ctx, 1)
	if err != nil {
		t.Fatalf("ListGenreAlbums: %v", err)
	}
	if len(albums) != 2 {
		t.Errorf("got %d albums, want 2", len(albums))
	}

	songs, err := s.ListGenreSongs(ctx, 1)
	if err != nil {
		t.Fatalf("ListGenreSongs: %v", err)
	}
	if len(songs) != 3 {
		t.Fatalf("got %d songs, want 3", len(songs))
	}
	for _, song := range songs {
		if song.GenreName != "Rock" {
			t.Errorf("song %d GenreName = %q", song.ID, song.GenreName)
		}
	}

	folders, err := s.ListGenreFolders(ctx, 1)
	if err != nil {
		t.Fatalf("ListGenreFolders: %v", err)
	}
	if len(folders) != 2 || folders[0].ID != 30 || folders[1].ID != 31 {
		t.Errorf("folders = %+v", folders)
	}

	folk, err := s.ListGenreFolders(ctx, 3)
	if err != nil {
		t.Fatalf("ListGenreFolders: %v", err)
	}
	if len(folk) != 1 || folk[0].ID != 31 {
		t.Errorf("folk folders = %+v", folk)
	}
}

func TestGenreTraversals_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGenreLibrary(t, s)

	artists, err := s.ListGenreArtists(ctx, 2)
	if err != nil || artists == nil || len(artists) != 0 {
		t.Errorf("artists = %#v, %v; want empty", artists, err)
	}
	albums, err := s.ListGenreAlbums(ctx, 2)
	if err != nil || albums == nil || len(albums) != 0 {
		t.Errorf("albums = %#v, %v; want empty", albums, err)
	}
	songs, err := s.ListGenreSongs(ctx, 99)
	if err != nil || songs == nil || len(songs) != 0 {
		t.Errorf("songs = %#v, %v; want empty", songs, err)
	}
	folders, err := s.ListGenreFolders(ctx, 2)
	if err != nil || folders == nil || len(folders) != 0 {
		t.Errorf("folders = %#v, %v; want empty", folders, err)
	}
}
