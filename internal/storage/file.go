package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"wedding-guests/internal/models"
)

// File keeps the snapshot as an indented JSON document at <dir>/<key>.json
type File struct {
	key  string
	path string
}

// NewFile creates a file backend; the directory is created on first save
func NewFile(dir, key string) *File {
	if key == "" {
		key = DefaultKey
	}
	return &File{
		key:  key,
		path: filepath.Join(dir, key+".json"),
	}
}

// Path returns the snapshot file location
func (f *File) Path() string {
	return f.path
}

// Save writes the guests to file, replacing the previous snapshot
func (f *File) Save(guests []models.Guest) error {
	data, err := encode(guests)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write next to the target and rename so a crash never leaves half a snapshot
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// Load loads guests from file
func (f *File) Load() ([]models.Guest, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, &ReadError{Key: f.key, Err: fmt.Errorf("failed to read file: %w", err)}
	}
	return decode(f.key, data)
}
