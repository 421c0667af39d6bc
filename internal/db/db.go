// Package db provides PostgreSQL persistence for users, skills, jobs,
// clusters and analyses.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema is applied on startup. Statements are idempotent so repeated
// application is safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		branch TEXT NOT NULL DEFAULT '',
		year INT NOT NULL DEFAULT 0,
		target_role TEXT NOT NULL DEFAULT '',
		skills JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS student_skills (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		raw_text TEXT NOT NULL DEFAULT '',
		extracted_skills JSONB NOT NULL DEFAULT '[]',
		normalized_skills JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		role TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		raw_text TEXT NOT NULL DEFAULT '',
		skills JSONB NOT NULL DEFAULT '[]',
		weights JSONB,
		cluster_id INT,
		role_label TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_role_idx ON jobs (role)`,
	`CREATE TABLE IF NOT EXISTS job_clusters (
		cluster_id INT PRIMARY KEY,
		role_label TEXT NOT NULL,
		top_skills JSONB NOT NULL DEFAULT '[]',
		num_jobs INT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS analyses (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		results JSONB NOT NULL,
		per_skill_confidence JSONB NOT NULL DEFAULT '{}',
		role_cluster_used INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS analyses_user_idx ON analyses (user_id, created_at DESC)`,
}

// EnsureSchema creates the tables the service needs if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
