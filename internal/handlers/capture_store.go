package handlers

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/friendo-app/friendo-server/internal/capture"
)

// PostgresCaptureStore persists confirmed capture payloads in the win_photos
// table.
type PostgresCaptureStore struct {
	postgres *pgxpool.Pool
}

// NewPostgresCaptureStore creates the Postgres-backed capture store
func NewPostgresCaptureStore(postgres *pgxpool.Pool) *PostgresCaptureStore {
	return &PostgresCaptureStore{postgres: postgres}
}

func (s *PostgresCaptureStore) UserExists(ctx context.Context, uid string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE uid = $1)`
	if err := s.postgres.QueryRow(ctx, query, uid).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (s *PostgresCaptureStore) TaskBelongsToUser(ctx context.Context, taskID, userUID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1 AND user_uid = $2)`
	if err := s.postgres.QueryRow(ctx, query, taskID, userUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check task: %w", err)
	}
	return exists, nil
}

// SavePhoto decodes the payload and stores the raw bytes. The base64 text is
// validated here: a payload that does not decode is rejected rather than
// stored blind.
func (s *PostgresCaptureStore) SavePhoto(ctx context.Context, userUID, taskID string, payload capture.Payload) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return "", fmt.Errorf("decode photo payload: %w", err)
	}

	photoID := uuid.New().String()
	query := `
		INSERT INTO win_photos (id, user_uid, task_id, mime_type, data, file_size)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)
	`
	if _, err := s.postgres.Exec(ctx, query, photoID, userUID, taskID, payload.MimeType, raw, len(raw)); err != nil {
		return "", fmt.Errorf("insert photo: %w", err)
	}
	return photoID, nil
}
