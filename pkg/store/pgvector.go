// Package store archives scored fragments to Postgres/pgvector after a run.
// The ranking engine itself keeps no state between invocations; the archive
// is an optional side output for inspecting past runs and probing the
// corpus by vector similarity.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/doclens/doclens/internal/models"
)

type ArchiveConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	BatchSize  int
}

type Archive struct {
	config ArchiveConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(config ArchiveConfig) (*Archive, error) {
	if config.TableName == "" {
		config.TableName = "fragment_runs"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	a := &Archive{
		config: config,
		pool:   pool,
	}

	if err := a.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return a, nil
}

func (a *Archive) initialize() error {
	ctx := context.Background()

	// Enable pgvector extension
	_, err := a.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			source TEXT NOT NULL,
			page INTEGER NOT NULL,
			fragment_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			similarity DOUBLE PRECISION NOT NULL,
			embedding vector(%d)
		)`, a.config.TableName, a.config.VectorDim)

	_, err = a.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		a.config.TableName, a.config.TableName)

	_, err = a.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// SaveRun stores every scored fragment of one run under runID. Fragments
// must already carry their embeddings; the archive never calls the model.
func (a *Archive) SaveRun(ctx context.Context, runID string, fragments []models.ScoredFragment) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, run_id, source, page, fragment_index, content, similarity, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			similarity = EXCLUDED.similarity,
			embedding = EXCLUDED.embedding`,
		a.config.TableName)

	for i, frag := range fragments {
		id := fmt.Sprintf("%s_%d", runID, i)

		var embedding any
		if frag.Embedding != nil {
			embedding = pgvector.NewVector(frag.Embedding)
		}

		_, err = tx.Exec(ctx, stmt,
			id,
			runID,
			frag.SourceID,
			frag.Page,
			i,
			frag.Text,
			frag.Similarity,
			embedding,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fragment: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

// SimilarFragments returns the archived fragments closest to the query
// embedding across all runs, best match first.
func (a *Archive) SimilarFragments(ctx context.Context, queryEmbedding []float32, limit int) ([]models.ScoredFragment, error) {
	if limit <= 0 {
		limit = 5
	}

	query := fmt.Sprintf(`
		SELECT source, page, content, 1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`,
		a.config.TableName)

	embedding := pgvector.NewVector(queryEmbedding)
	rows, err := a.pool.Query(ctx, query, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fragments: %v", err)
	}
	defer rows.Close()

	var fragments []models.ScoredFragment
	for rows.Next() {
		var frag models.ScoredFragment
		err := rows.Scan(
			&frag.SourceID,
			&frag.Page,
			&frag.Text,
			&frag.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		fragments = append(fragments, frag)
	}

	return fragments, rows.Err()
}

func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
