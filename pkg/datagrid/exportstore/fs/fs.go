// Package fs provides a filesystem exportstore.Store.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridable/datagrid/pkg/datagrid"
)

// Config options for the filesystem store.
type Config struct {
	BaseDir   string // base directory for archived exports
	URLPrefix string // optional public URL prefix for download links
}

// Store archives exports as files under a base directory.
type Store struct {
	baseDir   string
	urlPrefix string
}

// New creates a filesystem export store, creating the base directory if
// needed.
func New(config Config) (*Store, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: config.BaseDir, urlPrefix: strings.TrimSuffix(config.URLPrefix, "/")}, nil
}

// path rejects keys that would escape the base directory.
func (s *Store) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	return filepath.Join(s.baseDir, clean), nil
}

func (s *Store) Save(_ context.Context, key, _ string, data io.Reader) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, datagrid.ErrExportNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	return file, nil
}

func (s *Store) URL(_ context.Context, key string) (string, error) {
	if s.urlPrefix == "" {
		return "", errors.New("filesystem store has no URL prefix configured")
	}
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", datagrid.ErrExportNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to stat export: %w", err)
	}
	return s.urlPrefix + "/" + key, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); os.IsNotExist(err) {
		return datagrid.ErrExportNotFound
	} else if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	return nil
}
