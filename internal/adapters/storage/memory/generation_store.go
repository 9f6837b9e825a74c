package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

// GenerationStore is a simple in-memory implementation of domain.GenerationStore.
// It is NOT persistent and is only suitable for development / local mode.
type GenerationStore struct {
	mu       sync.RWMutex
	records  map[domain.GenerationID]*domain.GenerationRecord
	byUserID map[domain.UserID][]domain.GenerationID
}

// NewGenerationStore creates a new in-memory GenerationStore.
func NewGenerationStore() *GenerationStore {
	return &GenerationStore{
		records:  make(map[domain.GenerationID]*domain.GenerationRecord),
		byUserID: make(map[domain.UserID][]domain.GenerationID),
	}
}

// InsertGeneration stores a copy of rec under a fresh id.
func (s *GenerationStore) InsertGeneration(_ context.Context, rec *domain.GenerationRecord) (domain.GenerationID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.GenerationID(uuid.NewString())

	stored := clone(rec)
	stored.ID = id
	s.records[id] = stored
	s.byUserID[rec.UserID] = append(s.byUserID[rec.UserID], id)

	return id, nil
}

func (s *GenerationStore) GetGeneration(_ context.Context, userID domain.UserID, id domain.GenerationID) (*domain.GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok || rec.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return clone(rec), nil
}

// ListGenerationsByUser returns the last `limit` records for a user, newest first.
// If limit <= 0, returns all.
func (s *GenerationStore) ListGenerationsByUser(
	_ context.Context,
	userID domain.UserID,
	limit int,
) ([]*domain.GenerationRecord, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserID[userID]
	if len(ids) == 0 {
		return []*domain.GenerationRecord{}, nil
	}

	// If limit is not valid, use all
	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}

	out := make([]*domain.GenerationRecord, 0, limit)
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		if rec, ok := s.records[ids[i]]; ok {
			out = append(out, clone(rec))
		}
	}

	return out, nil
}

func (s *GenerationStore) DeleteGeneration(_ context.Context, userID domain.UserID, id domain.GenerationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.records, id)

	ids := s.byUserID[userID]
	for i, v := range ids {
		if v == id {
			s.byUserID[userID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// clone keeps callers from mutating stored records.
func clone(rec *domain.GenerationRecord) *domain.GenerationRecord {
	c := *rec
	c.Response.VisualMoodLighteners = append([]domain.VisualMoodLightener(nil), rec.Response.VisualMoodLighteners...)
	return &c
}
