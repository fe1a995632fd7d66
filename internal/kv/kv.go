// Package kv is a small file-backed key/value store for UI preferences.
package kv

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/peterbourgon/diskv/v3"
)

// ErrEmptyKey is returned for operations on the empty key
var ErrEmptyKey = errors.New("key cannot be empty")

// Well-known keys
const (
	KeyOverlayPinned  = "overlay.pinned"
	KeyOverlayVisible = "overlay.visible"
)

// Store keeps one file per key under a base directory
type Store struct {
	d *diskv.Diskv
}

// Open creates a store rooted at dir. The directory is created on first write.
func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      256 * 1024,
	})}
}

// Get returns the value stored at key, or def when there is none
func (s *Store) Get(key, def string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	val, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return string(val), nil
}

// Set stores value at key
func (s *Store) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing a missing key is not an error.
func (s *Store) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in sorted order
func (s *Store) Keys(ctx context.Context) []string {
	var keys []string
	for k := range s.d.Keys(ctx.Done()) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// keys may hold any characters, so file names are their base64 form
func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: base64.RawURLEncoding.EncodeToString([]byte(key)),
	}
}

func pathToKey(pk *diskv.PathKey) string {
	raw, err := base64.RawURLEncoding.DecodeString(pk.FileName)
	if err != nil {
		return pk.FileName
	}
	return string(raw)
}
