package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a requested artifact file does not exist
var ErrNotFound = errors.New("artifact file not found")

// ArtifactStorage defines the interface for reading serialized artifacts
type ArtifactStorage interface {
	Read(name string) ([]byte, error)
	Exists(name string) bool
	Close() error
}

// FileStorage implements ArtifactStorage using the local file system
type FileStorage struct {
	baseDir string
}

// NewFileStorage creates a new file-based storage rooted at baseDir
func NewFileStorage(baseDir string) (*FileStorage, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifact path %q is not a directory", baseDir)
	}
	return &FileStorage{
		baseDir: baseDir,
	}, nil
}

// Read returns the raw bytes of the named artifact
func (s *FileStorage) Read(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Exists reports whether the named artifact is a regular file
func (s *FileStorage) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Path resolves name inside the storage directory. Names that escape the
// directory are rejected.
func (s *FileStorage) Path(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid artifact name %q: %w", name, fs.ErrInvalid)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// Close is a no-op for file storage
func (s *FileStorage) Close() error {
	return nil
}
