package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/store"
)

const videoColumns = `id, folder_id, file_name, file_type, file_size, last_modified,
	duration, bitrate, width, height, genre_id`

func scanVideo(scanner rowScanner) (*domain.Video, error) {
	var (
		v       domain.Video
		width   sql.NullInt64
		height  sql.NullInt64
		genreID sql.NullInt64
	)
	err := scanner.Scan(
		&v.ID,
		&v.FolderID,
		&v.FileName,
		&v.FileType,
		&v.FileSize,
		&v.LastModified,
		&v.Duration,
		&v.Bitrate,
		&width,
		&height,
		&genreID,
	)
	if err != nil {
		return nil, err
	}
	v.Width = int(width.Int64)
	v.Height = int(height.Int64)
	v.GenreID = genreID.Int64
	return &v, nil
}

func scanVideos(rows *sql.Rows) ([]*domain.Video, error) {
	defer rows.Close()

	videos := []*domain.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// UpsertVideo writes v, replacing any row with the same id or the same
// (folder_id, file_name). Unknown dimensions are stored as NULL.
func (s *Store) UpsertVideo(ctx context.Context, v *domain.Video) (err error) {
	defer record("upsert_video", time.Now(), &err)

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO videos (`+videoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.FolderID,
		v.FileName,
		v.FileType,
		v.FileSize,
		v.LastModified,
		v.Duration,
		v.Bitrate,
		nullInt(v.Width),
		nullInt(v.Height),
		nullInt64(v.GenreID),
	)
	return err
}

// GetVideo retrieves a video by id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetVideo(ctx context.Context, videoID int64) (_ *domain.Video, err error) {
	defer record("get_video", time.Now(), &err)

	v, err := scanVideo(s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, videoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return v, err
}

// GetVideoByPath retrieves the video stored as fileName in folderID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetVideoByPath(ctx context.Context, folderID int64, fileName string) (_ *domain.Video, err error) {
	defer record("get_video_by_path", time.Now(), &err)

	v, err := scanVideo(s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE folder_id = ? AND file_name = ?`,
		folderID, fileName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return v, err
}

// ListVideos returns every video ordered by file name.
func (s *Store) ListVideos(ctx context.Context) (_ []*domain.Video, err error) {
	defer record("list_videos", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY file_name, id`)
	if err != nil {
		return nil, err
	}
	return scanVideos(rows)
}

// likeEscaper makes LIKE wildcards in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchVideos returns videos whose column equals query (exact) or contains
// it as a substring, ordered by file name. Returns store.ErrInvalidInput if
// column is not in store.VideoSearchColumns.
func (s *Store) SearchVideos(ctx context.Context, column, query string, exact bool) (_ []*domain.Video, err error) {
	if !store.VideoSearchColumns[column] {
		return nil, store.ErrInvalidInput.WithCause(fmt.Errorf("column %q not searchable", column))
	}

	defer record("search_videos", time.Now(), &err)

	where := column + ` = ?`
	arg := query
	if !exact {
		where = column + ` LIKE ? ESCAPE '\'`
		arg = "%" + likeEscaper.Replace(query) + "%"
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE `+where+` ORDER BY file_name, id`, arg)
	if err != nil {
		return nil, err
	}
	return scanVideos(rows)
}

// CountVideos returns the number of videos.
func (s *Store) CountVideos(ctx context.Context) (_ int64, err error) {
	defer record("count_videos", time.Now(), &err)
	return s.scalar(ctx, `SELECT COUNT(*) FROM videos`)
}

// TotalVideoSize returns the summed file size of all videos in bytes.
func (s *Store) TotalVideoSize(ctx context.Context) (_ int64, err error) {
	defer record("total_video_size", time.Now(), &err)
	return s.scalar(ctx, `SELECT COALESCE(SUM(file_size), 0) FROM videos`)
}

// TotalVideoDuration returns the summed duration of all videos in seconds.
func (s *Store) TotalVideoDuration(ctx context.Context) (_ int64, err error) {
	defer record("total_video_duration", time.Now(), &err)
	return s.scalar(ctx, `SELECT COALESCE(SUM(duration), 0) FROM videos`)
}

func (s *Store) scalar(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
