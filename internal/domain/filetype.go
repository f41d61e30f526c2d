package domain

import "strings"

// FileType classifies a media file by container.
type FileType int

// File types. Values are persisted and must not be renumbered.
const (
	FileTypeUnknown FileType = iota
	FileTypeMP4
	FileTypeMKV
	FileTypeAVI
	FileTypeMPEG
	FileTypeMOV
	FileTypeWebM
	FileTypeMP3
	FileTypeAAC
	FileTypeFLAC
	FileTypeOGG
	FileTypeWAV
)

var fileTypeNames = map[FileType]string{
	FileTypeUnknown: "unknown",
	FileTypeMP4:     "mp4",
	FileTypeMKV:     "mkv",
	FileTypeAVI:     "avi",
	FileTypeMPEG:    "mpeg",
	FileTypeMOV:     "mov",
	FileTypeWebM:    "webm",
	FileTypeMP3:     "mp3",
	FileTypeAAC:     "aac",
	FileTypeFLAC:    "flac",
	FileTypeOGG:     "ogg",
	FileTypeWAV:     "wav",
}

// mimeFileTypes maps sniffed MIME types to file types.
var mimeFileTypes = map[string]FileType{
	"video/mp4":        FileTypeMP4,
	"video/x-m4v":      FileTypeMP4,
	"video/x-matroska": FileTypeMKV,
	"video/x-msvideo":  FileTypeAVI,
	"video/avi":        FileTypeAVI,
	"video/mpeg":       FileTypeMPEG,
	"video/quicktime":  FileTypeMOV,
	"video/webm":       FileTypeWebM,
	"audio/mpeg":       FileTypeMP3,
	"audio/mp3":        FileTypeMP3,
	"audio/x-m4a":      FileTypeAAC,
	"audio/mp4":        FileTypeAAC,
	"audio/aac":        FileTypeAAC,
	"audio/flac":       FileTypeFLAC,
	"audio/x-flac":     FileTypeFLAC,
	"audio/ogg":        FileTypeOGG,
	"audio/wav":        FileTypeWAV,
	"audio/x-wav":      FileTypeWAV,
	"audio/vnd.wave":   FileTypeWAV,
}

// formatFileTypes maps ffprobe container names to file types.
var formatFileTypes = map[string]FileType{
	"mov":      FileTypeMP4,
	"mp4":      FileTypeMP4,
	"m4a":      FileTypeAAC,
	"matroska": FileTypeMKV,
	"webm":     FileTypeWebM,
	"avi":      FileTypeAVI,
	"mpeg":     FileTypeMPEG,
	"mpegts":   FileTypeMPEG,
	"mp3":      FileTypeMP3,
	"flac":     FileTypeFLAC,
	"ogg":      FileTypeOGG,
	"wav":      FileTypeWAV,
	"aac":      FileTypeAAC,
}

// String returns the short name of the file type.
func (t FileType) String() string {
	if name, ok := fileTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsVideo reports whether the file type is a video container.
func (t FileType) IsVideo() bool {
	return t >= FileTypeMP4 && t <= FileTypeWebM
}

// FileTypeForMIME classifies a MIME type, ignoring parameters such as charset.
// Unrecognized types return FileTypeUnknown.
func FileTypeForMIME(mime string) FileType {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mimeFileTypes[mime]
}

// FileTypeForFormat classifies an ffprobe format_name such as "mov,mp4,m4a,3gp".
// The first recognized name wins.
func FileTypeForFormat(format string) FileType {
	for name := range strings.SplitSeq(strings.ToLower(format), ",") {
		if t, ok := formatFileTypes[strings.TrimSpace(name)]; ok {
			return t
		}
	}
	return FileTypeUnknown
}
