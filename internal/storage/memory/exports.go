package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// exportsStorage — in-memory реализация ExportsStorage
type exportsStorage struct {
	mu      sync.RWMutex
	exports map[uuid.UUID]storage.ExportMeta
}

func newExportsStorage() *exportsStorage {
	return &exportsStorage{
		exports: make(map[uuid.UUID]storage.ExportMeta),
	}
}

func (s *exportsStorage) CreateExport(ctx context.Context, export *storage.ExportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}

	now := time.Now()
	export.CreatedAt = now
	export.UpdatedAt = now

	s.exports[export.ID] = *export

	return nil
}

func (s *exportsStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.ExportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exports[id]
	if !ok {
		return nil, ErrExportNotFound
	}

	return &e, nil
}

func (s *exportsStorage) ListExports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ExportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []storage.ExportMeta
	for _, e := range s.exports {
		if e.OwnerUserID == ownerUserID {
			filtered = append(filtered, e)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if limit <= 0 {
		limit = 50
	}
	if offset > len(filtered) {
		return []storage.ExportMeta{}, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[offset:end], nil
}

func (s *exportsStorage) DeleteExport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exports[id]; !ok {
		return ErrExportNotFound
	}

	delete(s.exports, id)

	return nil
}
