package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

// Store persists generation records in a single SQLite table. The
// structured response is kept as a JSON column.
type Store struct {
	db *sql.DB
}

// NewStore opens (and creates if needed) the database at path.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		situation_input TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_generations_user_created
		ON generations(user_id, created_at DESC);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create generations table: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InsertGeneration(ctx context.Context, rec *domain.GenerationRecord) (domain.GenerationID, error) {
	resp, err := json.Marshal(rec.Response)
	if err != nil {
		return "", fmt.Errorf("sqlite InsertGeneration encode: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO generations (id, user_id, situation_input, response, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(rec.UserID), rec.SituationInput, string(resp), rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("sqlite InsertGeneration: %w", err)
	}
	return domain.GenerationID(id), nil
}

func (s *Store) GetGeneration(ctx context.Context, userID domain.UserID, id domain.GenerationID) (*domain.GenerationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, situation_input, response, created_at FROM generations WHERE id = ? AND user_id = ?`,
		string(id), string(userID),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite GetGeneration: %w", err)
	}
	return rec, nil
}

func (s *Store) ListGenerationsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.GenerationRecord, error) {
	query := `SELECT id, user_id, situation_input, response, created_at FROM generations
		WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{string(userID)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListGenerationsByUser: %w", err)
	}
	defer rows.Close()

	out := []*domain.GenerationRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite ListGenerationsByUser scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite ListGenerationsByUser: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteGeneration(ctx context.Context, userID domain.UserID, id domain.GenerationID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM generations WHERE id = ? AND user_id = ?`, string(id), string(userID))
	if err != nil {
		return fmt.Errorf("sqlite DeleteGeneration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite DeleteGeneration: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*domain.GenerationRecord, error) {
	var (
		id, userID, situation, resp string
		createdAt                   int64
	)
	if err := sc.Scan(&id, &userID, &situation, &resp, &createdAt); err != nil {
		return nil, err
	}

	rec := &domain.GenerationRecord{
		ID:             domain.GenerationID(id),
		UserID:         domain.UserID(userID),
		SituationInput: situation,
		CreatedAt:      time.Unix(0, createdAt).UTC(),
	}
	if err := json.Unmarshal([]byte(resp), &rec.Response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return rec, nil
}
