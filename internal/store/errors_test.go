package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("disk I/O error")
	wrapped := fmt.Errorf("get video: %w", ErrNotFound.WithCause(cause))

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrAlreadyExists)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "resource not found: disk I/O error", ErrNotFound.WithCause(cause).Error())
}

func TestError_PlainMessage(t *testing.T) {
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.Nil(t, errors.Unwrap(ErrInvalidInput))
}
