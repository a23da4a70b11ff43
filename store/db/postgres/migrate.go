package postgres

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Migrate creates missing tables and indexes. Statements are idempotent so
// the migration can run on every startup.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS document (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			creator_id INTEGER NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT ''
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunk (
			id TEXT PRIMARY KEY,
			record_kind TEXT NOT NULL,
			record_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			char_count INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			created_ts BIGINT NOT NULL
		)`, d.profile.AIEmbeddingDim),
		`CREATE INDEX IF NOT EXISTS idx_chunk_record ON chunk (record_kind, record_id)`,
		`CREATE TABLE IF NOT EXISTS candidate_profile (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			creator_id INTEGER NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			full_name TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			experience_years INTEGER NOT NULL DEFAULT 0,
			skills JSONB NOT NULL DEFAULT '[]',
			summary TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS salary_observation (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			created_ts BIGINT NOT NULL,
			job_title TEXT NOT NULL,
			raw_location TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			market TEXT NOT NULL DEFAULT '',
			experience_years INTEGER NOT NULL DEFAULT 0,
			experience_level TEXT NOT NULL DEFAULT '',
			amount DOUBLE PRECISION NOT NULL,
			estimated_min DOUBLE PRECISION NOT NULL DEFAULT 0,
			estimated_max DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'valid'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_salary_location ON salary_observation (country, city)`,
		`CREATE TABLE IF NOT EXISTS user_account (
			id SERIAL PRIMARY KEY,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			nickname TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to run migration statement")
		}
	}
	return nil
}
