package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVideoJSON = `{
  "streams": [
    {"codec_type": "video", "codec_name": "mjpeg", "width": 600, "height": 600, "disposition": {"attached_pic": 1}},
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "disposition": {"attached_pic": 0}},
    {"codec_type": "audio", "codec_name": "aac"}
  ],
  "format": {
    "filename": "/media/movies/a.mp4",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "5400.250000",
    "size": "734003200",
    "bit_rate": "1087392",
    "tags": {"title": "A Movie", "GENRE": " Drama ", "track": "3/12"}
  }
}`

func TestParseFFprobeOutput(t *testing.T) {
	m, err := parseFFprobeOutput([]byte(sampleVideoJSON))
	require.NoError(t, err)

	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", m.Format)
	assert.Equal(t, 5400*time.Second+250*time.Millisecond, m.Duration)
	assert.Equal(t, 1087392, m.Bitrate)
	assert.Equal(t, 1920, m.Width, "attached picture stream must be skipped")
	assert.Equal(t, 1080, m.Height)
	assert.Equal(t, "A Movie", m.Title)
	assert.Equal(t, "Drama", m.Genre)
	assert.Equal(t, 3, m.TrackNumber)
}

func TestParseFFprobeOutput_Sparse(t *testing.T) {
	m, err := parseFFprobeOutput([]byte(`{"format": {"format_name": "mp3", "duration": "N/A"}, "streams": [{"codec_type": "audio"}]}`))
	require.NoError(t, err)

	assert.Equal(t, "mp3", m.Format)
	assert.Zero(t, m.Duration)
	assert.Zero(t, m.Width)
	assert.Zero(t, m.Height)
	assert.Empty(t, m.Genre)
}

func TestParseFFprobeOutput_Invalid(t *testing.T) {
	_, err := parseFFprobeOutput([]byte("not json"))
	assert.Error(t, err)
}

func TestFFprobe_MissingFile(t *testing.T) {
	_, err := NewFFprobe("").Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestNative_MissingFile(t *testing.T) {
	_, err := NewNative(nil).Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

// taggedMP3 builds an ID3v2.3 tagged stream of silent 128kbps MPEG1 Layer III
// frames carrying the given genre.
func taggedMP3(genre string) []byte {
	text := append([]byte{0}, genre...)
	frame := append([]byte("TCON"), byte(len(text)>>24), byte(len(text)>>16), byte(len(text)>>8), byte(len(text)), 0, 0)
	frame = append(frame, text...)

	size := len(frame)
	data := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size>>21) & 0x7f, byte(size>>14) & 0x7f, byte(size>>7) & 0x7f, byte(size) & 0x7f}
	data = append(data, frame...)

	for range 8 {
		mpeg := make([]byte, 417)
		copy(mpeg, []byte{0xFF, 0xFB, 0x90, 0x64})
		data = append(data, mpeg...)
	}
	return data
}

func TestNative_TaggedMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	require.NoError(t, os.WriteFile(path, taggedMP3("Jazz"), 0o644))

	m, err := NewNative(nil).Probe(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Jazz", m.Genre)
	assert.Equal(t, 128000, m.Bitrate)
	assert.Positive(t, m.Duration)
}

func TestChain_Merge(t *testing.T) {
	first := ProberFunc(func(context.Context, string) (*Metadata, error) {
		return &Metadata{Format: "matroska,webm", Duration: time.Minute, Width: 640, Height: 480}, nil
	})
	failing := ProberFunc(func(context.Context, string) (*Metadata, error) {
		return nil, errors.New("no tags")
	})
	second := ProberFunc(func(context.Context, string) (*Metadata, error) {
		return &Metadata{Format: "ignored", Title: "Clip", Art: []byte{1, 2}, Width: 10}, nil
	})

	m, err := NewChain(nil, first, failing, second).Probe(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, "matroska,webm", m.Format)
	assert.Equal(t, time.Minute, m.Duration)
	assert.Equal(t, 640, m.Width)
	assert.Equal(t, 480, m.Height)
	assert.Equal(t, "Clip", m.Title)
	assert.Equal(t, []byte{1, 2}, m.Art)
}

func TestChain_AllFail(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	chain := NewChain(nil,
		ProberFunc(func(context.Context, string) (*Metadata, error) { return nil, errA }),
		ProberFunc(func(context.Context, string) (*Metadata, error) { return nil, errB }),
	)

	_, err := chain.Probe(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestChain_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewChain(nil, Sniffer{}).Probe(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSniffer(t *testing.T) {
	dir := t.TempDir()

	// Minimal ISO BMFF header.
	mp4 := filepath.Join(dir, "clip.bin")
	header := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypmp42\x00\x00\x00\x00mp42isom")...)
	require.NoError(t, os.WriteFile(mp4, header, 0o644))

	m, err := Sniffer{}.Probe(context.Background(), mp4)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", m.MIMEType)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	mime, err := DetectMIME(txt)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime, "charset parameter is stripped")

	_, err = DetectMIME(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestDetectMIMEBytes(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", DetectMIMEBytes(png))
	assert.Equal(t, "image/jpeg", DetectMIMEBytes([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
}
