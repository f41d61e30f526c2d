package domain

import (
	"encoding/json/v2"
	"time"
)

// MediaFile holds the attributes shared by every indexed file on disk.
type MediaFile struct {
	FolderID     int64    `json:"folder_id"`
	FileName     string   `json:"file_name"`
	FileType     FileType `json:"file_type"`
	FileSize     int64    `json:"file_size"`
	LastModified int64    `json:"last_modified"` // unix seconds
	Duration     int      `json:"duration"`      // seconds
	Bitrate      int      `json:"bitrate"`       // bits per second
	GenreID      int64    `json:"genre_id,omitzero"`
}

// ModTime returns LastModified as a time.Time.
func (m *MediaFile) ModTime() time.Time {
	return time.Unix(m.LastModified, 0)
}

// Video is an indexed video file.
// Width and Height are zero when the container did not report them.
type Video struct {
	ID int64 `json:"id"`
	MediaFile
	Width  int `json:"width,omitzero"`
	Height int `json:"height,omitzero"`
}

// ItemID implements Item.
func (v *Video) ItemID() int64 { return v.ID }

// ItemType implements Item.
func (v *Video) ItemType() ItemType { return ItemTypeVideo }

// AspectRatio returns width/height, or nil when either dimension is unknown
// or the height is zero.
func (v *Video) AspectRatio() *float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return nil
	}
	ratio := float64(v.Width) / float64(v.Height)
	return &ratio
}

// MarshalJSON adds the derived aspect_ratio to the serialized video.
func (v Video) MarshalJSON() ([]byte, error) {
	type plain Video
	return json.Marshal(struct {
		plain
		AspectRatio *float64 `json:"aspect_ratio"`
	}{
		plain:       plain(v),
		AspectRatio: v.AspectRatio(),
	})
}

// ValidVideoExtensions lists the file extensions the scanner treats as video.
var ValidVideoExtensions = []string{".m4v", ".mp4", ".mpg", ".mpeg", ".mkv", ".avi", ".mov", ".webm"}

// ValidAudioExtensions lists the file extensions the scanner treats as songs.
var ValidAudioExtensions = []string{".mp3", ".m4a", ".m4b", ".flac", ".ogg", ".opus", ".wav", ".aac"}
