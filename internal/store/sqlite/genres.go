package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/store"
)

// CreateGenre inserts a genre. The id must already be allocated.
// Returns store.ErrAlreadyExists if the id or name is taken.
func (s *Store) CreateGenre(ctx context.Context, g *domain.Genre) (err error) {
	defer record("create_genre", time.Now(), &err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO genres (id, name) VALUES (?, ?)`, g.ID, g.Name)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetGenre retrieves a genre by id.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenre(ctx context.Context, genreID int64) (_ *domain.Genre, err error) {
	defer record("get_genre", time.Now(), &err)
	return s.getGenre(ctx, `SELECT id, name FROM genres WHERE id = ?`, genreID)
}

// GetGenreByName retrieves a genre by exact, case-sensitive name.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenreByName(ctx context.Context, name string) (_ *domain.Genre, err error) {
	defer record("get_genre_by_name", time.Now(), &err)
	return s.getGenre(ctx, `SELECT id, name FROM genres WHERE name = ?`, name)
}

func (s *Store) getGenre(ctx context.Context, query string, arg any) (*domain.Genre, error) {
	var g domain.Genre
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGenres returns every genre ordered by name, ignoring case.
func (s *Store) ListGenres(ctx context.Context) (_ []*domain.Genre, err error) {
	defer record("list_genres", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM genres ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []*domain.Genre{}
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, &g)
	}
	return genres, rows.Err()
}

// ListGenreArtists returns the artists of songs tagged with genreID.
func (s *Store) ListGenreArtists(ctx context.Context, genreID int64) (_ []*domain.Artist, err error) {
	defer record("list_genre_artists", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name
		FROM songs s
		INNER JOIN artists a ON a.id = s.artist_id
		WHERE s.genre_id = ?
		GROUP BY a.id
		ORDER BY a.name COLLATE NOCASE`, genreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artists := []*domain.Artist{}
	for rows.Next() {
		var a domain.Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		artists = append(artists, &a)
	}
	return artists, rows.Err()
}

// ListGenreAlbums returns the albums of songs tagged with genreID.
func (s *Store) ListGenreAlbums(ctx context.Context, genreID int64) (_ []*domain.Album, err error) {
	defer record("list_genre_albums", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT al.id, al.name, al.artist_id
		FROM songs s
		INNER JOIN albums al ON al.id = s.album_id
		WHERE s.genre_id = ?
		GROUP BY al.id
		ORDER BY al.name COLLATE NOCASE`, genreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := []*domain.Album{}
	for rows.Next() {
		var a domain.Album
		if err := rows.Scan(&a.ID, &a.Name, &a.ArtistID); err != nil {
			return nil, err
		}
		albums = append(albums, &a)
	}
	return albums, rows.Err()
}

// ListGenreSongs returns the songs tagged with genreID, with GenreName set.
func (s *Store) ListGenreSongs(ctx context.Context, genreID int64) (_ []*domain.Song, err error) {
	defer record("list_genre_songs", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumnsQualified+`, g.name
		FROM songs s
		INNER JOIN genres g ON g.id = s.genre_id
		WHERE s.genre_id = ?
		GROUP BY s.id
		ORDER BY s.file_name`, genreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []*domain.Song{}
	for rows.Next() {
		var genreName string
		song, err := scanSong(rows, &genreName)
		if err != nil {
			return nil, err
		}
		song.GenreName = genreName
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// ListGenreFolders returns the folders holding songs tagged with genreID.
func (s *Store) ListGenreFolders(ctx context.Context, genreID int64) (_ []*domain.Folder, err error) {
	defer record("list_genre_folders", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.parent_id, f.path, f.name
		FROM songs s
		INNER JOIN folders f ON f.id = s.folder_id
		WHERE s.genre_id = ?
		GROUP BY f.id
		ORDER BY f.name COLLATE NOCASE`, genreID)
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
