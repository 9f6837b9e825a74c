package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

var (
	recordsBucket = []byte("generations")
	// user_index keys are user_id \x00 big-endian sequence, values the record id
	userIndexBucket = []byte("user_index")
)

// Store keeps generation records in a BoltDB file. Records are JSON values
// keyed by id; a per-user index keeps insertion order for listing.
type Store struct {
	db *bolt.DB
}

type storedRecord struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"user_id"`
	SituationInput string                  `json:"situation_input"`
	Response       domain.BoundaryResponse `json:"response"`
	CreatedAt      time.Time               `json:"created_at"`
	IndexKey       []byte                  `json:"index_key"`
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, e := tx.CreateBucketIfNotExists(recordsBucket); e != nil {
			return e
		}
		_, e := tx.CreateBucketIfNotExists(userIndexBucket)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt buckets: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func userPrefix(userID domain.UserID) []byte {
	return append([]byte(userID), 0)
}

func (s *Store) InsertGeneration(_ context.Context, rec *domain.GenerationRecord) (domain.GenerationID, error) {
	id := uuid.NewString()
	err := s.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(userIndexBucket)
		seq, err := idx.NextSequence()
		if err != nil {
			return err
		}
		key := binary.BigEndian.AppendUint64(userPrefix(rec.UserID), seq)

		enc, err := json.Marshal(storedRecord{
			ID:             id,
			UserID:         string(rec.UserID),
			SituationInput: rec.SituationInput,
			Response:       rec.Response,
			CreatedAt:      rec.CreatedAt,
			IndexKey:       key,
		})
		if err != nil {
			return err
		}
		if err := tx.Bucket(recordsBucket).Put([]byte(id), enc); err != nil {
			return err
		}
		return idx.Put(key, []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("bolt InsertGeneration: %w", err)
	}
	return domain.GenerationID(id), nil
}

func (s *Store) GetGeneration(_ context.Context, userID domain.UserID, id domain.GenerationID) (*domain.GenerationRecord, error) {
	var rec *domain.GenerationRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		sr, err := load(tx, []byte(id))
		if err != nil {
			return err
		}
		if sr == nil || sr.UserID != string(userID) {
			return domain.ErrNotFound
		}
		rec = sr.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) ListGenerationsByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.GenerationRecord, error) {
	out := []*domain.GenerationRecord{}
	prefix := userPrefix(userID)

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(userIndexBucket).Cursor()

		// walk the user's keys backwards, newest first
		seek := append(append([]byte(nil), prefix...), bytes.Repeat([]byte{0xff}, 8)...)
		k, v := c.Seek(seek)
		switch {
		case k == nil:
			k, v = c.Last()
		case !bytes.HasPrefix(k, prefix):
			k, v = c.Prev()
		}
		for ; k != nil && bytes.HasPrefix(k, prefix); k, v = c.Prev() {
			sr, err := load(tx, v)
			if err != nil {
				return err
			}
			if sr == nil {
				continue
			}
			out = append(out, sr.toDomain())
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt ListGenerationsByUser: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteGeneration(_ context.Context, userID domain.UserID, id domain.GenerationID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		sr, err := load(tx, []byte(id))
		if err != nil {
			return err
		}
		if sr == nil || sr.UserID != string(userID) {
			return domain.ErrNotFound
		}
		if err := tx.Bucket(userIndexBucket).Delete(sr.IndexKey); err != nil {
			return err
		}
		return tx.Bucket(recordsBucket).Delete([]byte(id))
	})
}

func load(tx *bolt.Tx, id []byte) (*storedRecord, error) {
	v := tx.Bucket(recordsBucket).Get(id)
	if v == nil {
		return nil, nil
	}
	var sr storedRecord
	if err := json.Unmarshal(v, &sr); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return &sr, nil
}

func (sr *storedRecord) toDomain() *domain.GenerationRecord {
	return &domain.GenerationRecord{
		ID:             domain.GenerationID(sr.ID),
		UserID:         domain.UserID(sr.UserID),
		SituationInput: sr.SituationInput,
		Response:       sr.Response,
		CreatedAt:      sr.CreatedAt,
	}
}
