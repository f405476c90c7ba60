package export

import (
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 1

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(db *sql.DB) error {
	if err := createCoreTables(db); err != nil {
		return fmt.Errorf("create core tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	return nil
}

// createCoreTables creates the trees and nodes tables.
func createCoreTables(db *sql.DB) error {
	// One row per tree; key is "" for the main tree, the project directory
	// otherwise.
	treesSQL := `
		CREATE TABLE IF NOT EXISTS trees (
			id INTEGER PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			version INTEGER NOT NULL,
			type TEXT NOT NULL
		)
	`
	if _, err := db.Exec(treesSQL); err != nil {
		return fmt.Errorf("create trees table: %w", err)
	}

	// Nodes in pre-order. parent_id is NULL for roots; position is the index
	// among siblings.
	nodesSQL := `
		CREATE TABLE IF NOT EXISTS nodes (
			id INTEGER PRIMARY KEY,
			tree_id INTEGER NOT NULL REFERENCES trees(id) ON DELETE CASCADE,
			parent_id INTEGER REFERENCES nodes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			name TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT '',
			expanded INTEGER NOT NULL DEFAULT 0,
			data_kind TEXT,
			data TEXT,
			path TEXT NOT NULL
		)
	`
	if _, err := db.Exec(nodesSQL); err != nil {
		return fmt.Errorf("create nodes table: %w", err)
	}

	return nil
}

// createIndexes creates the lookup indexes.
func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_nodes_tree ON nodes(tree_id)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_path ON nodes(tree_id, path)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_data_kind ON nodes(data_kind)`,
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// createMetaTable creates the meta table for export metadata.
func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	return nil
}

// CreateFTSIndex creates a full-text index over node names and paths.
func CreateFTSIndex(db *sql.DB) error {
	ftsSQL := `
		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			name,
			path,
			content='nodes',
			content_rowid='id',
			tokenize='porter unicode61'
		)
	`
	if _, err := db.Exec(ftsSQL); err != nil {
		return fmt.Errorf("create FTS5 table: %w", err)
	}

	if _, err := db.Exec(`INSERT INTO nodes_fts(rowid, name, path) SELECT id, name, path FROM nodes`); err != nil {
		return fmt.Errorf("populate FTS5: %w", err)
	}

	return nil
}

// InsertMetaValue inserts or updates a key in meta.
func InsertMetaValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// OptimizeDatabase compacts the database. Call this as the final step
// before closing it.
func OptimizeDatabase(db *sql.DB) error {
	optimizations := []string{
		// Single file mode (no WAL journal)
		`PRAGMA journal_mode=DELETE`,
		`ANALYZE`,
		`PRAGMA optimize`,
	}

	for _, stmt := range optimizations {
		if _, err := db.Exec(stmt); err != nil {
			// Some pragmas may fail depending on state, continue
			continue
		}
	}

	_, _ = db.Exec(`INSERT INTO nodes_fts(nodes_fts) VALUES('optimize')`)

	// VACUUM must be last and outside transaction
	if _, err := db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	return nil
}
