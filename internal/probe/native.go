package probe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simonhull/audiometa"
)

// Native reads tags and embedded artwork without external tools.
type Native struct {
	logger *slog.Logger
}

// NewNative creates a Native prober.
func NewNative(logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.Default()
	}
	return &Native{logger: logger}
}

// Probe implements Prober.
func (n *Native) Probe(ctx context.Context, path string) (*Metadata, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	m := &Metadata{
		Format:      file.Format.String(),
		Duration:    file.Audio.Duration,
		Bitrate:     file.Audio.Bitrate,
		Title:       file.Tags.Title,
		Artist:      file.Tags.Artist,
		Album:       file.Tags.Album,
		TrackNumber: file.Tags.TrackNumber,
	}
	if len(file.Tags.Genres) > 0 {
		m.Genre = file.Tags.Genres[0]
	}

	artworks, err := file.ExtractArtwork()
	if err != nil {
		n.logger.Warn("failed to extract artwork", "path", path, "error", err)
		return m, nil
	}
	if len(artworks) > 0 {
		// The first artwork is the front cover by convention.
		m.Art = artworks[0].Data
		n.logger.Debug("extracted embedded art",
			"path", path,
			"count", len(artworks),
			"size", len(m.Art),
		)
	}
	return m, nil
}
