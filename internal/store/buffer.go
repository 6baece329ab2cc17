package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rigtools/rigpreview/internal/pathres"
)

// PendingChange is the durable change buffer: the encoded ChangeSet plus
// the scene-path of the original root it applies to. It carries no live
// references, so it remains valid after the host rebuilds every in-memory
// object.
type PendingChange struct {
	Origin  pathres.ScenePath
	Payload []byte
	SavedAt time.Time
}

// SaveBuffer writes the pending change buffer, replacing any previous one.
func (s *Store) SaveBuffer(ctx context.Context, origin pathres.ScenePath, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO change_buffer (id, scene, path, payload, saved_at)
		 VALUES (1, ?, ?, ?, ?)`,
		origin.Scene, origin.Path, payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving change buffer: %w", err)
	}
	return nil
}

// LoadBuffer returns the pending change buffer, or nil when none is saved.
func (s *Store) LoadBuffer(ctx context.Context) (*PendingChange, error) {
	var (
		scene, path, savedAt string
		payload              []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT scene, path, payload, saved_at FROM change_buffer WHERE id = 1`).
		Scan(&scene, &path, &payload, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading change buffer: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		ts = time.Time{}
	}
	return &PendingChange{
		Origin:  pathres.ScenePath{Scene: scene, Path: path},
		Payload: payload,
		SavedAt: ts,
	}, nil
}

// ClearBuffer discards the pending change buffer if present.
func (s *Store) ClearBuffer(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM change_buffer WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing change buffer: %w", err)
	}
	return nil
}
