package population

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool abstracts the subset of pgxpool.Pool used by the store for easier
// testing.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps worksheet rows in a single table, one JSON cell array
// per row, ordered by insertion.
type PostgresStore struct {
	pool pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore builds a store backed by the provided connection pool.
func NewPostgresStore(pool pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("postgres store requires pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the worksheet table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS population_rows (
    row_id      UUID PRIMARY KEY,
    flow        TEXT NOT NULL,
    cells       JSONB NOT NULL,
    seq         BIGSERIAL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_population_rows_flow_seq ON population_rows (flow, seq);
`)
	if err != nil {
		return fmt.Errorf("ensure population schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, flow Flow, row []string) error {
	if err := ValidateRow(flow, row); err != nil {
		return err
	}
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal %s row: %w", flow, err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO population_rows (row_id, flow, cells) VALUES ($1, $2, $3)
`, uuid.NewString(), string(flow), cells)
	if err != nil {
		return fmt.Errorf("append %s row: %w", flow, err)
	}
	return nil
}

func (s *PostgresStore) Rows(ctx context.Context, flow Flow) ([][]string, error) {
	rows, err := s.pool.Query(ctx, `
SELECT cells FROM population_rows WHERE flow = $1 ORDER BY seq
`, string(flow))
	if err != nil {
		return nil, fmt.Errorf("list %s rows: %w", flow, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []byte
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", flow, err)
		}
		var row []string
		if err := json.Unmarshal(cells, &row); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", flow, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", flow, err)
	}
	return out, nil
}
