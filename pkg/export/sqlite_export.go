// Package export writes a forest out in formats other tools can read: a
// queryable SQLite database and a rendered outline snapshot (SVG or PNG).
package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vanderheijden86/mind/pkg/debug"
	"github.com/vanderheijden86/mind/pkg/forest"
	"github.com/vanderheijden86/mind/pkg/tree"
	"github.com/vanderheijden86/mind/pkg/version"

	_ "modernc.org/sqlite"
)

// SQLiteExporter exports a forest to a SQLite database.
type SQLiteExporter struct {
	Forest *forest.Forest
	Title  string

	now func() time.Time
}

// NewSQLiteExporter creates an exporter for f.
func NewSQLiteExporter(f *forest.Forest) *SQLiteExporter {
	return &SQLiteExporter{Forest: f, now: time.Now}
}

// ExportSQLite writes f to a fresh database at path.
func ExportSQLite(f *forest.Forest, path string) error {
	return NewSQLiteExporter(f).Export(path)
}

// Export writes the database to dbPath, replacing any existing file.
func (e *SQLiteExporter) Export(dbPath string) error {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	// Remove existing database if present
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	counts, err := e.insertTrees(db)
	if err != nil {
		return fmt.Errorf("insert trees: %w", err)
	}

	// modernc.org/sqlite has FTS5 built in
	if err := CreateFTSIndex(db); err != nil {
		debug.Warn("FTS5 not available", "error", err)
	}

	if err := e.insertMeta(db, counts); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := OptimizeDatabase(db); err != nil {
		return fmt.Errorf("optimize database: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return nil
}

type exportCounts struct {
	trees int
	nodes int
}

// insertTrees inserts the main tree (key "") and every project tree in one
// transaction.
func (e *SQLiteExporter) insertTrees(db *sql.DB) (exportCounts, error) {
	var counts exportCounts

	tx, err := db.Begin()
	if err != nil {
		return counts, err
	}
	defer tx.Rollback()

	treeStmt, err := tx.Prepare(`INSERT INTO trees (id, key, version, type) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return counts, err
	}
	defer treeStmt.Close()

	nodeStmt, err := tx.Prepare(`
		INSERT INTO nodes (id, tree_id, parent_id, position, depth, name, icon, expanded, data_kind, data, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return counts, err
	}
	defer nodeStmt.Close()

	entries := []forest.Project{{Dir: "", Tree: e.Forest.MainTree()}}
	entries = append(entries, e.Forest.CWDTrees()...)

	nextNodeID := int64(1)
	for i, p := range entries {
		treeID := int64(i + 1)
		if _, err := treeStmt.Exec(treeID, p.Dir, int(p.Tree.Version()), p.Tree.Type().String()); err != nil {
			return counts, fmt.Errorf("tree %q: %w", p.Dir, err)
		}
		n, err := insertNodes(nodeStmt, treeID, nextNodeID, p.Tree)
		if err != nil {
			return counts, fmt.Errorf("tree %q: %w", p.Dir, err)
		}
		nextNodeID += int64(n)
		counts.nodes += n
		counts.trees++
	}

	return counts, tx.Commit()
}

// insertNodes inserts t in pre-order with ids starting at firstID and returns
// how many rows were written.
func insertNodes(stmt *sql.Stmt, treeID, firstID int64, t *tree.Tree) (int, error) {
	var (
		ids       []int64 // ids[d] is the id of the last node seen at depth d
		positions []int   // positions[d] is the next sibling index at depth d
		n         int
		execErr   error
	)
	t.Walk(func(info tree.NodeInfo) bool {
		if execErr != nil {
			return false
		}
		d := info.Depth
		id := firstID + int64(n)

		ids = append(ids[:d], id)
		if len(positions) <= d {
			positions = append(positions, 0)
		}
		positions = positions[:d+1]
		pos := positions[d]
		positions[d]++

		var parent any
		if d > 0 {
			parent = ids[d-1]
		}
		var kind, value any
		if info.Data != nil {
			kind, value = info.Data.Kind.String(), info.Data.Value
		}
		path := info.Path
		if path == "" {
			path = "/"
		}

		if _, err := stmt.Exec(id, treeID, parent, pos, d, info.Name, info.Icon,
			boolToInt(info.Expanded), kind, value, path); err != nil {
			execErr = fmt.Errorf("node %s: %w", path, err)
			return false
		}
		n++
		// A new child list starts below this node.
		positions = append(positions, 0)
		return true
	})
	return n, execErr
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// insertMeta records provenance of the export.
func (e *SQLiteExporter) insertMeta(db *sql.DB, counts exportCounts) error {
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	meta := map[string]string{
		"generator":      "mind " + version.Version,
		"generated_at":   now().UTC().Format(time.RFC3339),
		"tree_count":     strconv.Itoa(counts.trees),
		"node_count":     strconv.Itoa(counts.nodes),
		"schema_version": strconv.Itoa(SchemaVersion),
	}
	if e.Title != "" {
		meta["title"] = e.Title
	}

	for key, value := range meta {
		if err := InsertMetaValue(db, key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}
	return nil
}
