package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/store"
)

const songColumns = `id, folder_id, file_name, file_type, file_size, last_modified,
	duration, bitrate, title, track_number, genre_id, artist_id, album_id`

const songColumnsQualified = `s.id, s.folder_id, s.file_name, s.file_type, s.file_size,
	s.last_modified, s.duration, s.bitrate, s.title, s.track_number, s.genre_id,
	s.artist_id, s.album_id`

// scanSong scans the song columns followed by any extra destinations.
func scanSong(scanner rowScanner, extra ...any) (*domain.Song, error) {
	var (
		song        domain.Song
		title       sql.NullString
		trackNumber sql.NullInt64
		genreID     sql.NullInt64
		artistID    sql.NullInt64
		albumID     sql.NullInt64
	)
	dest := []any{
		&song.ID,
		&song.FolderID,
		&song.FileName,
		&song.FileType,
		&song.FileSize,
		&song.LastModified,
		&song.Duration,
		&song.Bitrate,
		&title,
		&trackNumber,
		&genreID,
		&artistID,
		&albumID,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	song.Title = title.String
	song.TrackNumber = int(trackNumber.Int64)
	song.GenreID = genreID.Int64
	song.ArtistID = artistID.Int64
	song.AlbumID = albumID.Int64
	return &song, nil
}

// CreateArtist inserts an artist. Returns store.ErrAlreadyExists if the name is taken.
func (s *Store) CreateArtist(ctx context.Context, a *domain.Artist) (err error) {
	defer record("create_artist", time.Now(), &err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO artists (id, name) VALUES (?, ?)`, a.ID, a.Name)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetArtistByName retrieves an artist by exact name.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetArtistByName(ctx context.Context, name string) (_ *domain.Artist, err error) {
	defer record("get_artist_by_name", time.Now(), &err)

	var a domain.Artist
	err = s.db.QueryRowContext(ctx, `SELECT id, name FROM artists WHERE name = ?`, name).
		Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAlbum inserts an album. Returns store.ErrAlreadyExists if the
// (name, artist) pair is taken.
func (s *Store) CreateAlbum(ctx context.Context, a *domain.Album) (err error) {
	defer record("create_album", time.Now(), &err)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO albums (id, name, artist_id) VALUES (?, ?, ?)`, a.ID, a.Name, a.ArtistID)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetAlbumByName retrieves an album by name and artist.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetAlbumByName(ctx context.Context, name string, artistID int64) (_ *domain.Album, err error) {
	defer record("get_album_by_name", time.Now(), &err)

	var a domain.Album
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, artist_id FROM albums WHERE name = ? AND artist_id = ?`, name, artistID).
		Scan(&a.ID, &a.Name, &a.ArtistID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertSong writes a song, replacing any row with the same id or the same
// (folder_id, file_name).
func (s *Store) UpsertSong(ctx context.Context, song *domain.Song) (err error) {
	defer record("upsert_song", time.Now(), &err)

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO songs (`+songColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.ID,
		song.FolderID,
		song.FileName,
		song.FileType,
		song.FileSize,
		song.LastModified,
		song.Duration,
		song.Bitrate,
		nullString(song.Title),
		nullInt(song.TrackNumber),
		nullInt64(song.GenreID),
		nullInt64(song.ArtistID),
		nullInt64(song.AlbumID),
	)
	return err
}

// GetSong retrieves a song by id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetSong(ctx context.Context, songID int64) (_ *domain.Song, err error) {
	defer record("get_song", time.Now(), &err)

	song, err := scanSong(s.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE id = ?`, songID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return song, err
}

// GetSongByPath retrieves the song stored as fileName in folderID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetSongByPath(ctx context.Context, folderID int64, fileName string) (_ *domain.Song, err error) {
	defer record("get_song_by_path", time.Now(), &err)

	song, err := scanSong(s.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE folder_id = ? AND file_name = ?`, folderID, fileName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return song, err
}

// CountSongs returns the number of songs.
func (s *Store) CountSongs(ctx context.Context) (_ int64, err error) {
	defer record("count_songs", time.Now(), &err)

	var n int64
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n)
	return n, err
}
