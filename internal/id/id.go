// Package id issues identifiers: integer item ids from the catalog-wide
// sequence, and short random ids used to correlate scan runs in logs.
package id

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/hearthmedia/hearth/internal/domain"
)

// ErrInvalidItemType is returned when an allocation is requested for a type
// that does not participate in the item sequence.
var ErrInvalidItemType = errors.New("invalid item type")

// Allocator hands out item ids. Every id is unique across all item types
// and is never issued twice, including after a restart.
// Implementations must be safe for concurrent use.
type Allocator interface {
	Allocate(ctx context.Context, t domain.ItemType) (int64, error)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(ctx context.Context, t domain.ItemType) (int64, error)

// Allocate calls f.
func (f AllocatorFunc) Allocate(ctx context.Context, t domain.ItemType) (int64, error) {
	return f(ctx, t)
}

const (
	runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	runIDSize     = 12
)

// NewRunID returns a prefixed random id such as "scan-4k1x0c9d2bqz".
func NewRunID(prefix string) (string, error) {
	s, err := gonanoid.Generate(runIDAlphabet, runIDSize)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return prefix + "-" + s, nil
}
