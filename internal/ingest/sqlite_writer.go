package ingest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/agentic-research/packtree/internal/graph"
	_ "modernc.org/sqlite"
)

const nodesSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	id TEXT PRIMARY KEY,
	parent_id TEXT,
	type TEXT NOT NULL,
	kind INTEGER NOT NULL,
	pack_type TEXT,
	description TEXT,
	properties JSON,
	source TEXT,
	ordinal INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteWriter persists flattened nodes into a SQLite database.
// Writes are batched into transactions of batchSize nodes.
type SQLiteWriter struct {
	db        *sql.DB
	tx        *sql.Tx
	stmtNode  *sql.Stmt
	batchSize int
	count     int
	mu        sync.Mutex
}

// NewSQLiteWriter creates a new writer and initializes the schema.
func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Performance tuning for bulk insert
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(nodesSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &SQLiteWriter{
		db:        db,
		batchSize: 10000,
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmtNode, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO nodes (id, parent_id, type, kind, pack_type, description, properties, source, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	return err
}

func (w *SQLiteWriter) commitTx() error {
	if w.stmtNode != nil {
		_ = w.stmtNode.Close()
	}
	return w.tx.Commit()
}

// AddNode writes a node under its path parent.
func (w *SQLiteWriter) AddNode(n *graph.Node) {
	parent := n.ParentID()
	w.insert(n, &parent)
}

// AddRoot writes a node with no parent.
func (w *SQLiteWriter) AddRoot(n *graph.Node) {
	w.insert(n, nil)
}

func (w *SQLiteWriter) insert(n *graph.Node, parentID *string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var props []byte
	if len(n.Properties) > 0 {
		props, _ = json.Marshal(n.Properties)
	}
	var description *string
	if n.HasDescription {
		description = &n.Description
	}

	_, err := w.stmtNode.Exec(
		n.ID,
		parentID,
		n.Type,
		int(n.Kind),
		n.PackType,
		description,
		props,
		n.Source,
		n.Ordinal,
	)
	if err != nil {
		log.Printf("SQLiteWriter: insert failed for %s: %v", n.ID, err)
	}

	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			log.Printf("SQLiteWriter: commit failed: %v", err)
		}
		if err := w.beginTx(); err != nil {
			log.Printf("SQLiteWriter: begin failed: %v", err)
		}
		w.count = 0
	}
}

// Close commits pending writes, builds indexes and closes the database.
func (w *SQLiteWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}

	// Create indices after bulk load for speed
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_parent_ordinal ON nodes(parent_id, ordinal)`); err != nil {
		log.Printf("SQLiteWriter: index creation failed: %v", err)
	}
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_type ON nodes(type)`); err != nil {
		log.Printf("SQLiteWriter: index creation failed: %v", err)
	}

	return w.db.Close()
}

// --- Graph Interface Implementation (for IngestionTarget) ---
// Reads go through the open transaction so uncommitted writes are visible.

func (w *SQLiteWriter) GetNode(id string) (*graph.Node, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	row := w.tx.QueryRow(`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, _, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, graph.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if n.Children, err = w.childIDs(id); err != nil {
		return nil, err
	}
	return n, nil
}

func (w *SQLiteWriter) ListChildren(id string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == "" || id == "/" {
		return w.queryIDs(`SELECT id FROM nodes WHERE parent_id IS NULL ORDER BY id`)
	}
	return w.childIDs(id)
}

func (w *SQLiteWriter) FindByType(typ string) ([]*graph.Node, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.tx.Query(`SELECT `+nodeColumns+` FROM nodes WHERE type = ? ORDER BY id`, typ)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var out []*graph.Node
	for rows.Next() {
		n, _, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (w *SQLiteWriter) childIDs(id string) ([]string, error) {
	return w.queryIDs(`SELECT id FROM nodes WHERE parent_id = ? ORDER BY ordinal`, id)
}

func (w *SQLiteWriter) queryIDs(query string, args ...any) ([]string, error) {
	rows, err := w.tx.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Interface compliance
var _ IngestionTarget = (*SQLiteWriter)(nil)
