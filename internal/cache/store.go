// Package cache persists the geometric graph and routing run statistics
// across invocations, so a long import job doesn't have to rebuild the
// graph from scratch after a restart.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aristath/geoflow/internal/graph"
	"github.com/aristath/geoflow/internal/routing"
	_ "modernc.org/sqlite"
)

// RunRecord is one completed routing run's statistics, as persisted.
type RunRecord struct {
	ID        int64
	Stat      routing.Statistic
	CreatedAt time.Time
}

// Store defines the persistence interface for the geometric graph and
// routing run statistics.
type Store interface {
	SaveGraph(ctx context.Context, g *graph.Graph) error
	LoadGraph(ctx context.Context) (*graph.Graph, error)

	SaveRunStatistic(ctx context.Context, stat routing.Statistic) error
	ListRunStatistics(ctx context.Context) ([]RunRecord, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store at the given path.
// Creates parent directories if needed. Enables WAL mode, foreign keys, and busy timeout.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(2)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewMemoryStore creates an in-memory SQLite store for testing.
// Uses a shared cache so multiple connections see the same database.
func NewMemoryStore(ctx context.Context) (*SQLiteStore, error) {
	connStr := "file::memory:?mode=memory&cache=shared"
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(2)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// SaveGraph replaces the persisted graph with g. Runs inside a transaction
// so a crash mid-write can't leave a graph with edges pointing at nodes
// that were never written.
func (s *SQLiteStore) SaveGraph(ctx context.Context, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM graph_edges"); err != nil {
		return fmt.Errorf("failed to clear graph_edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM graph_nodes"); err != nil {
		return fmt.Errorf("failed to clear graph_nodes: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx, "INSERT INTO graph_nodes (id, lat, lon) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i := 0; i < g.NodeCount(); i++ {
		n := g.Nodes[i]
		if _, err := nodeStmt.ExecContext(ctx, i, n.Point.Lat, n.Point.Lon); err != nil {
			return fmt.Errorf("failed to insert node %d: %w", i, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, "INSERT INTO graph_edges (from_node, to_node, length_meters) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range g.Edges {
		if _, err := edgeStmt.ExecContext(ctx, e.From, e.To, e.LengthMeters); err != nil {
			return fmt.Errorf("failed to insert edge %d->%d: %w", e.From, e.To, err)
		}
	}

	return tx.Commit()
}

// LoadGraph reconstructs the graph from storage. Nodes are read in id
// order so the rebuilt Graph's node indices match the ones edges refer to.
func (s *SQLiteStore) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	g := graph.New()

	nodeRows, err := s.db.QueryContext(ctx, "SELECT id, lat, lon FROM graph_nodes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query graph_nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var id int
		var lat, lon float64
		if err := nodeRows.Scan(&id, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		if idx := g.AddNode(graph.Point{Lat: lat, Lon: lon}); idx != id {
			return nil, fmt.Errorf("graph_nodes id %d out of sequence (got index %d)", id, idx)
		}
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading graph_nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx, "SELECT from_node, to_node, length_meters FROM graph_edges ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query graph_edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var from, to int
		var length float64
		if err := edgeRows.Scan(&from, &to, &length); err != nil {
			return nil, fmt.Errorf("failed to scan edge row: %w", err)
		}
		g.AddEdge(from, to, length)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading graph_edges: %w", err)
	}

	return g, nil
}

// SaveRunStatistic appends a completed routing run's statistics.
func (s *SQLiteStore) SaveRunStatistic(ctx context.Context, stat routing.Statistic) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO routing_runs (routed, skipped, failed) VALUES (?, ?, ?)",
		stat.Routed, stat.Skipped, stat.Failed)
	if err != nil {
		return fmt.Errorf("failed to insert routing run: %w", err)
	}
	return nil
}

// ListRunStatistics returns every persisted routing run, most recent first.
func (s *SQLiteStore) ListRunStatistics(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, routed, skipped, failed, created_at FROM routing_runs ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query routing_runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Stat.Routed, &r.Stat.Skipped, &r.Stat.Failed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan routing run row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading routing_runs: %w", err)
	}

	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
