package cache

import (
	"context"
)

// initSchema creates all required tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS graph_nodes (
		id INTEGER PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS graph_edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_node INTEGER NOT NULL,
		to_node INTEGER NOT NULL,
		length_meters REAL NOT NULL,
		FOREIGN KEY (from_node) REFERENCES graph_nodes(id) ON DELETE CASCADE,
		FOREIGN KEY (to_node) REFERENCES graph_nodes(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_graph_edges_from_node ON graph_edges(from_node);
	CREATE INDEX IF NOT EXISTS idx_graph_edges_to_node ON graph_edges(to_node);

	CREATE TABLE IF NOT EXISTS routing_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		routed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
