package retrieval

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/embedding"
	"github.com/rs/zerolog"
)

const semanticSearchQuery = `
	SELECT
	  id,
	  document_id,
	  content,
	  embedding <=> $1 AS distance
	FROM document_chunks
	ORDER BY distance ASC
	LIMIT $2`

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c *DBConfig) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

func Connect(ctx context.Context, config DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to database, Error: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("Failed to ping database, Error: %w", err)
	}

	return pool, nil
}

// PostgresRetriever runs a cosine search over document_chunks with pgvector.
type PostgresRetriever struct {
	pool     *pgxpool.Pool
	embedder embedding.Embedder
	logger   *zerolog.Logger
}

func NewPostgresRetriever(pool *pgxpool.Pool, embedder embedding.Embedder, logger *zerolog.Logger) *PostgresRetriever {
	return &PostgresRetriever{
		pool:     pool,
		embedder: embedder,
		logger:   logger,
	}
}

func (r *PostgresRetriever) Retrieve(ctx context.Context, query string, limit int) ([]Passage, error) {
	if limit < 1 {
		return nil, nil
	}

	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := r.pool.Query(ctx, semanticSearchQuery, pgvector.NewVector(queryEmbedding), limit)
	if err != nil {
		return nil, fmt.Errorf("Unable to query the database: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Content, &p.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		passages = append(passages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	r.logger.Debug().
		Int("passages", len(passages)).
		Msg("retrieval complete")

	return passages, nil
}
