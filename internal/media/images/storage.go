// Package images stores art bytes on disk keyed by content hash and derives
// BlurHash placeholders from them.
package images

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages art files under {basePath}/art/{hash}.img.
// Safe for concurrent use.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates a Storage rooted at the metadata directory basePath.
func NewStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, "art")
}

// NewStorageWithSubdir creates a Storage under {basePath}/{subdir}.
func NewStorageWithSubdir(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, errors.New("base path cannot be empty")
	}
	if subdir == "" {
		return nil, errors.New("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{basePath: storagePath}, nil
}

// ContentHash returns the hex SHA-256 of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save writes data under hash. Existing files are left alone, since equal
// hashes mean equal bytes.
func (s *Storage) Save(hash string, data []byte) error {
	if hash == "" {
		return errors.New("hash cannot be empty")
	}
	if len(data) == 0 {
		return errors.New("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(hash)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Write to a temp file and rename so readers never see a partial image.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize image file: %w", err)
	}
	return nil
}

// Get reads the bytes stored under hash.
func (s *Storage) Get(hash string) ([]byte, error) {
	if hash == "" {
		return nil, errors.New("hash cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", hash, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

// Exists reports whether bytes are stored under hash.
func (s *Storage) Exists(hash string) bool {
	if hash == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(hash))
	return err == nil
}

// Delete removes the file stored under hash. Missing files are not an error.
func (s *Storage) Delete(hash string) error {
	if hash == "" {
		return errors.New("hash cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(hash)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// Path returns the filesystem path for hash.
func (s *Storage) Path(hash string) string {
	return filepath.Join(s.basePath, hash+".img")
}
