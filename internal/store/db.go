// Package store handles all Postgres access for the directory
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewDB opens a Postgres connection pool and verifies it with a ping
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema if it does not exist. The UNIQUE constraint
// on (page_key, block_key) is what makes concurrent seeding safe: the
// loser's inserts hit the constraint instead of duplicating rows.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			type TEXT NOT NULL,
			parent_id BIGINT REFERENCES locations(id),
			description TEXT,
			seo_title TEXT,
			seo_description TEXT,
			population BIGINT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			agency_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (parent_id, slug)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_locations_parent ON locations (parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_locations_slug ON locations (slug)`,
		`CREATE TABLE IF NOT EXISTS page_content_blocks (
			id BIGSERIAL PRIMARY KEY,
			page_key TEXT NOT NULL,
			block_key TEXT NOT NULL,
			block_type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT,
			metadata JSONB,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (page_key, block_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_content_page_key ON page_content_blocks (page_key)`,
		`CREATE TABLE IF NOT EXISTS faqs (
			id BIGSERIAL PRIMARY KEY,
			page_key TEXT,
			location_id BIGINT REFERENCES locations(id) ON DELETE CASCADE,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (page_key IS NOT NULL OR location_id IS NOT NULL)
		)`,
		`CREATE TABLE IF NOT EXISTS agencies (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			urn TEXT UNIQUE,
			description TEXT,
			website TEXT,
			phone TEXT,
			email TEXT,
			rating TEXT,
			checksum TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS agency_locations (
			agency_id BIGINT NOT NULL REFERENCES agencies(id) ON DELETE CASCADE,
			location_id BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
			PRIMARY KEY (agency_id, location_id)
		)`,
		`CREATE TABLE IF NOT EXISTS metrics_snapshots (
			id BIGSERIAL PRIMARY KEY,
			total_locations INTEGER NOT NULL,
			total_agencies INTEGER NOT NULL,
			seeded_pages INTEGER NOT NULL,
			populated_blocks INTEGER NOT NULL,
			snapshot_date DATE NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
