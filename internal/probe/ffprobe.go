package probe

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFprobe reads container and stream metadata by running ffprobe.
type FFprobe struct {
	binary string
}

// NewFFprobe creates an FFprobe using the given binary; "" means "ffprobe"
// from PATH.
func NewFFprobe(binary string) *FFprobe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFprobe{binary: binary}
}

// Probe implements Prober.
func (p *FFprobe) Probe(ctx context.Context, path string) (*Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: ffprobe exited with %d", ErrUnreadable, exitErr.ExitCode())
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseFFprobeOutput(output)
}

// parseFFprobeOutput converts ffprobe JSON into Metadata.
func parseFFprobeOutput(output []byte) (*Metadata, error) {
	var data ffprobeOutput
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	m := &Metadata{Format: data.Format.FormatName}

	if data.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil {
			m.Duration = time.Duration(dur * float64(time.Second))
		}
	}
	if data.Format.BitRate != "" {
		if br, err := strconv.Atoi(data.Format.BitRate); err == nil {
			m.Bitrate = br
		}
	}

	for _, stream := range data.Streams {
		// Cover images show up as single-frame video streams.
		if stream.CodecType != "video" || stream.Disposition.AttachedPic == 1 {
			continue
		}
		m.Width = stream.Width
		m.Height = stream.Height
		break
	}

	parseTags(lowerKeys(data.Format.Tags), m)
	return m, nil
}

func parseTags(tags map[string]string, m *Metadata) {
	if tags == nil {
		return
	}
	m.Title = tags["title"]
	m.Artist = tags["artist"]
	if m.Artist == "" {
		m.Artist = tags["album_artist"]
	}
	m.Album = tags["album"]
	m.Genre = strings.TrimSpace(tags["genre"])

	// "3/12" is track 3 of 12.
	if track, _, _ := strings.Cut(tags["track"], "/"); track != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(track)); err == nil {
			m.TrackNumber = n
		}
	}
}

// lowerKeys normalizes tag keys; containers disagree on case ("GENRE" vs "genre").
func lowerKeys(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[strings.ToLower(k)] = v
	}
	return out
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Tags       map[string]string `json:"tags"`
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecType   string             `json:"codec_type"`
	CodecName   string             `json:"codec_name"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Disposition ffprobeDisposition `json:"disposition"`
}

type ffprobeDisposition struct {
	AttachedPic int `json:"attached_pic"`
}
