// Package sqlite persists the prediction audit log in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"shipment-prediction-service/internal/core/domain"
	ports "shipment-prediction-service/internal/core/ports/output"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
    id         TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL,
    input      TEXT NOT NULL,
    label      TEXT NOT NULL,
    confidence REAL
);
CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions (created_at);
`

type PredictionLogRepository struct {
	db *sql.DB
}

func NewPredictionLogRepository(path string) (*PredictionLogRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open prediction log db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init prediction log schema: %w", err)
	}
	return &PredictionLogRepository{db: db}, nil
}

func (r *PredictionLogRepository) Append(ctx context.Context, entry ports.PredictionEntry) error {
	input, err := json.Marshal(entry.Input)
	if err != nil {
		return fmt.Errorf("encode prediction input: %w", err)
	}

	var confidence any
	if entry.Confidence != nil {
		confidence = *entry.Confidence
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO predictions (id, created_at, input, label, confidence) VALUES (?, ?, ?, ?, ?)`,
		entry.ID.String(), entry.CreatedAt.UTC(), string(input), string(entry.Label), confidence,
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (r *PredictionLogRepository) Recent(ctx context.Context, limit int) ([]ports.PredictionEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, input, label, confidence FROM predictions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var entries []ports.PredictionEntry
	for rows.Next() {
		var (
			id         string
			createdAt  time.Time
			input      string
			label      string
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&id, &createdAt, &input, &label, &confidence); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}

		entry := ports.PredictionEntry{
			CreatedAt: createdAt,
			Label:     domain.Label(label),
		}
		entry.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse prediction id: %w", err)
		}
		if err := json.Unmarshal([]byte(input), &entry.Input); err != nil {
			return nil, fmt.Errorf("decode prediction input: %w", err)
		}
		if confidence.Valid {
			v := confidence.Float64
			entry.Confidence = &v
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *PredictionLogRepository) Close() error {
	return r.db.Close()
}
