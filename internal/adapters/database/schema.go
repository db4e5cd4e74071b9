package database

import (
	"context"
	"fmt"
	"strings"
)

// schemaStatements is written in the subset of SQL shared by PostgreSQL and SQLite.
// {{ts}} is replaced with the dialect's timestamp type.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS source_documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		excerpt TEXT NOT NULL DEFAULT '',
		author_id TEXT NOT NULL DEFAULT '',
		featured_media_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'publish',
		migrated_recipe_id TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		source_post_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL DEFAULT '[]',
		instructions TEXT NOT NULL DEFAULT '[]',
		substitutes TEXT NOT NULL DEFAULT '[]',
		prep_time TEXT NOT NULL DEFAULT '',
		nutrition TEXT NOT NULL DEFAULT '{}',
		expert TEXT NOT NULL DEFAULT '{}',
		special_notes TEXT NOT NULL DEFAULT '',
		video_url TEXT NOT NULL DEFAULT '',
		featured_media_id TEXT NOT NULL DEFAULT '',
		seo TEXT NOT NULL DEFAULT '{}',
		age_group TEXT NOT NULL DEFAULT '',
		age_group_term_id TEXT NOT NULL DEFAULT '',
		allergen_term_ids TEXT NOT NULL DEFAULT '[]',
		diet_type_term_ids TEXT NOT NULL DEFAULT '[]',
		meal_type_term_ids TEXT NOT NULL DEFAULT '[]',
		primary_ingredient TEXT NOT NULL DEFAULT '',
		cross_promotion TEXT NOT NULL DEFAULT '',
		author_id TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS taxonomy_terms (
		id TEXT PRIMARY KEY,
		taxonomy TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		UNIQUE (taxonomy, slug)
	)`,
	`CREATE TABLE IF NOT EXISTS migration_records (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL UNIQUE,
		target_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		started_at {{ts}},
		completed_at {{ts}},
		error_message TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_migration_records_status ON migration_records (status)`,
	`CREATE INDEX IF NOT EXISTS idx_source_documents_status ON source_documents (status)`,
}

// EnsureSchema creates the tables the adapters use if they do not exist.
func EnsureSchema(ctx context.Context, client Client) error {
	ts := "TIMESTAMP"
	if client.Dialect() == "postgres" {
		ts = "TIMESTAMPTZ"
	}

	for _, stmt := range schemaStatements {
		if _, err := client.DB().ExecContext(ctx, strings.ReplaceAll(stmt, "{{ts}}", ts)); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
