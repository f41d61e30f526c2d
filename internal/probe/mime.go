package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Sniffer reports only the MIME type, detected from the file header.
type Sniffer struct{}

// Probe implements Prober.
func (Sniffer) Probe(_ context.Context, path string) (*Metadata, error) {
	mime, err := DetectMIME(path)
	if err != nil {
		return nil, err
	}
	return &Metadata{MIMEType: mime}, nil
}

// DetectMIME returns the MIME type of the file at path without parameters.
func DetectMIME(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return baseMIME(mt.String()), nil
}

// DetectMIMEBytes returns the MIME type of data, used for embedded art.
func DetectMIMEBytes(data []byte) string {
	return baseMIME(mimetype.Detect(data).String())
}

func baseMIME(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return base
}
