package ingest

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/agentic-research/packtree/internal/graph"
	_ "modernc.org/sqlite"
)

const nodeColumns = `id, parent_id, type, kind, pack_type, description, properties, source, ordinal`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanNode reads one nodes row. The returned bool is true for root rows.
func scanNode(row rowScanner) (*graph.Node, bool, error) {
	var (
		n                             graph.Node
		parentID                      sql.NullString
		packType, description, source sql.NullString
		props                         []byte
		kind                          int
	)
	if err := row.Scan(&n.ID, &parentID, &n.Type, &kind, &packType, &description, &props, &source, &n.Ordinal); err != nil {
		return nil, false, err
	}
	n.Kind = graph.Kind(kind)
	n.PackType = packType.String
	n.Description, n.HasDescription = description.String, description.Valid
	n.Source = source.String
	if len(props) > 0 {
		if err := json.Unmarshal(props, &n.Properties); err != nil {
			return nil, false, fmt.Errorf("parse properties of %s: %w", n.ID, err)
		}
	}
	return &n, !parentID.Valid, nil
}

// LoadSQLite reads every node written by SQLiteWriter into target, rebuilding
// child lists in document order. It returns the number of nodes loaded.
func LoadSQLite(dbPath string, target IngestionTarget) (int, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.Query(`SELECT ` + nodeColumns + ` FROM nodes ORDER BY parent_id, ordinal`)
	if err != nil {
		return 0, fmt.Errorf("query nodes: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	type loaded struct {
		node *graph.Node
		root bool
	}
	var all []loaded
	byID := make(map[string]*graph.Node)
	for rows.Next() {
		n, root, err := scanNode(rows)
		if err != nil {
			return 0, fmt.Errorf("scan row: %w", err)
		}
		all = append(all, loaded{node: n, root: root})
		byID[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate rows: %w", err)
	}

	// Rows arrive grouped by parent and sorted by ordinal.
	for _, l := range all {
		if l.root {
			continue
		}
		if p, ok := byID[l.node.ParentID()]; ok {
			p.Children = append(p.Children, l.node.ID)
		}
	}
	for _, l := range all {
		if l.root {
			target.AddRoot(l.node)
		} else {
			target.AddNode(l.node)
		}
	}
	return len(all), nil
}
