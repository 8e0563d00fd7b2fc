// Package archive persists completed assessments to Postgres for audit.
//
// The archive stores verdict metadata only. Message text is reduced to a
// SHA-256 digest before it reaches the database, so an operator can answer
// "was this exact message assessed, and what was the verdict" without the
// archive ever holding user content.
//
// All methods are nil-safe: a nil *Archive is the disabled state and every
// call becomes a no-op, which keeps the serving path free of enabled checks.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindfort-ai/bulwark/pkg/detect"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS assessments (
	id           UUID             PRIMARY KEY,
	text_sha256  CHAR(64)         NOT NULL,
	level        TEXT             NOT NULL,
	score        DOUBLE PRECISION NOT NULL,
	confidence   DOUBLE PRECISION NOT NULL,
	signal_count INTEGER          NOT NULL,
	reasoning    JSONB            NOT NULL DEFAULT '[]',
	latency_ms   BIGINT           NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS assessments_created_at_idx ON assessments (created_at DESC);
CREATE INDEX IF NOT EXISTS assessments_level_idx ON assessments (level);
`

// Record is one archived assessment row.
type Record struct {
	ID          string     `json:"id"`
	TextSHA256  string     `json:"text_sha256"`
	Level       risk.Level `json:"level"`
	Score       float64    `json:"score"`
	Confidence  float64    `json:"confidence"`
	SignalCount int        `json:"signal_count"`
	Reasoning   []string   `json:"reasoning"`
	LatencyMs   int64      `json:"latency_ms"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Archive writes assessment audit rows through a shared connection pool.
type Archive struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("archive: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("archive: ping: %w", err)
	}
	return &Archive{pool: pool}, nil
}

// EnsureSchema creates the assessments table and indexes if absent.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if _, err := a.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("archive: ensure schema: %w", err)
	}
	return nil
}

// Save inserts one audit row for an assessed input. The input text is
// digested, never stored. An assessment without an ID gets one here so the
// row is always addressable.
func (a *Archive) Save(ctx context.Context, in detect.Input, res *risk.Assessment) error {
	if a == nil {
		return nil
	}

	id := res.ID
	if id == "" {
		id = uuid.NewString()
	}
	reasoning, err := json.Marshal(res.Reasoning)
	if err != nil {
		return fmt.Errorf("archive: encode reasoning: %w", err)
	}

	query := `
		INSERT INTO assessments (
			id, text_sha256, level, score, confidence,
			signal_count, reasoning, latency_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = a.pool.Exec(ctx, query,
		id,
		TextDigest(in.Text),
		string(res.Level),
		res.Score,
		res.Confidence,
		len(res.Signals),
		reasoning,
		res.LatencyMs,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("archive: save %s: %w", id, err)
	}
	return nil
}

// Recent returns the newest archived assessments, most recent first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]Record, error) {
	if a == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, text_sha256, level, score, confidence,
		       signal_count, reasoning, latency_ms, created_at
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := a.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: recent: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		var level string
		var reasoning []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.TextSHA256,
			&level,
			&rec.Score,
			&rec.Confidence,
			&rec.SignalCount,
			&reasoning,
			&rec.LatencyMs,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("archive: scan row: %w", err)
		}
		rec.Level = risk.ParseLevel(level)
		if json.Unmarshal(reasoning, &rec.Reasoning) != nil {
			rec.Reasoning = nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: recent: %w", err)
	}
	return records, nil
}

// CountByLevel reports how many archived assessments landed in each verdict.
func (a *Archive) CountByLevel(ctx context.Context) (map[risk.Level]int64, error) {
	if a == nil {
		return nil, nil
	}

	query := `SELECT level, COUNT(*) FROM assessments GROUP BY level`
	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("archive: count by level: %w", err)
	}
	defer rows.Close()

	counts := make(map[risk.Level]int64, len(risk.Levels))
	for rows.Next() {
		var level string
		var n int64
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("archive: scan count: %w", err)
		}
		counts[risk.ParseLevel(level)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: count by level: %w", err)
	}
	return counts, nil
}

// Close releases the pool. Safe on the disabled archive.
func (a *Archive) Close() {
	if a == nil {
		return
	}
	a.pool.Close()
}

// TextDigest returns the lowercase hex SHA-256 of the message text. This is
// the only form in which analyzed text ever reaches the archive.
func TextDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
