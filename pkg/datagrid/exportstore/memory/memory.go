// Package memory provides an in-memory exportstore.Store for tests and
// development.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gridable/datagrid/pkg/datagrid"
	"github.com/gridable/datagrid/pkg/datagrid/exportstore"
)

type entry struct {
	data        []byte
	contentType string
	savedAt     time.Time
}

// Store keeps archived exports in a map.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a new in-memory export store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) Save(_ context.Context, key, contentType string, data io.Reader) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read export data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{data: buf, contentType: contentType, savedAt: time.Now()}
	return nil
}

func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, datagrid.ErrExportNotFound
	}
	return io.NopCloser(bytes.NewReader(e.data)), nil
}

func (s *Store) URL(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.entries[key]; !ok {
		return "", datagrid.ErrExportNotFound
	}
	return "memory://" + key, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return datagrid.ErrExportNotFound
	}
	delete(s.entries, key)
	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]exportstore.Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var metas []exportstore.Meta
	for key, e := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		metas = append(metas, exportstore.Meta{
			Key:         key,
			Size:        int64(len(e.data)),
			ContentType: e.contentType,
			SavedAt:     e.savedAt,
		})
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Key < metas[j].Key })
	return metas, nil
}
