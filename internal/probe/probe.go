// Package probe extracts technical metadata, tags and embedded art from media files.
package probe

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrUnreadable is returned when a prober cannot read the file at all.
var ErrUnreadable = errors.New("probe: file unreadable")

// Metadata is what a prober could learn about a file. Zero values mean the
// prober did not report that attribute.
type Metadata struct {
	MIMEType string
	Format   string // container format, e.g. "mov,mp4,m4a,3gp,3g2,mj2"
	Duration time.Duration
	Bitrate  int // bits per second
	Width    int
	Height   int

	Title       string
	Artist      string
	Album       string
	Genre       string
	TrackNumber int

	// Art holds the first embedded image, if any.
	Art []byte
}

// Prober extracts metadata from the file at path.
type Prober interface {
	Probe(ctx context.Context, path string) (*Metadata, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (*Metadata, error)

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, path string) (*Metadata, error) {
	return f(ctx, path)
}

// Chain runs every prober in order and merges their results; the first
// prober to report a field wins. It fails only when all probers fail.
type Chain struct {
	probers []Prober
	logger  *slog.Logger
}

// NewChain creates a Chain over probers.
func NewChain(logger *slog.Logger, probers ...Prober) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{probers: probers, logger: logger}
}

// Probe implements Prober.
func (c *Chain) Probe(ctx context.Context, path string) (*Metadata, error) {
	var (
		merged *Metadata
		errs   []error
	)
	for _, p := range c.probers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := p.Probe(ctx, path)
		if err != nil {
			c.logger.Debug("prober failed", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		if merged == nil {
			merged = &Metadata{}
		}
		merged.fill(m)
	}
	if merged == nil {
		if len(errs) == 0 {
			return &Metadata{}, nil
		}
		return nil, errors.Join(errs...)
	}
	return merged, nil
}

// fill copies every field of o that m has not set.
func (m *Metadata) fill(o *Metadata) {
	if o == nil {
		return
	}
	setString(&m.MIMEType, o.MIMEType)
	setString(&m.Format, o.Format)
	setString(&m.Title, o.Title)
	setString(&m.Artist, o.Artist)
	setString(&m.Album, o.Album)
	setString(&m.Genre, o.Genre)
	if m.Duration == 0 {
		m.Duration = o.Duration
	}
	if m.Bitrate == 0 {
		m.Bitrate = o.Bitrate
	}
	if m.Width == 0 && m.Height == 0 {
		m.Width, m.Height = o.Width, o.Height
	}
	if m.TrackNumber == 0 {
		m.TrackNumber = o.TrackNumber
	}
	if len(m.Art) == 0 {
		m.Art = o.Art
	}
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
