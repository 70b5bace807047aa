// Package postgres wraps a pgxpool connection pool with the sharing
// strategies the road-network import pipeline needs: a single connection
// guarded by a mutex, a single connection handed out unsynchronized, or a
// private connection per caller.
package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aristath/geoflow/internal/config"
)

// Querier is the subset of pgxpool.Pool and pgxpool.Conn this package
// relies on. Both types satisfy it, which lets Handle.Querier hide which
// one a given Strategy actually produced.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Strategy selects how Connection.Acquire shares its underlying pool.
type Strategy string

const (
	// StrategyGlobalLocked serializes every caller through one mutex; safe
	// for callers that aren't otherwise coordinated, at the cost of
	// throughput.
	StrategyGlobalLocked Strategy = "global-locked"
	// StrategyGlobalUnlocked hands out the same pool to every caller with
	// no additional synchronization; callers must coordinate themselves
	// (pgxpool itself is already safe for concurrent use).
	StrategyGlobalUnlocked Strategy = "global-unlocked"
	// StrategyLocal gives each caller a connection acquired fresh from the
	// pool and released back to it when the caller is done.
	StrategyLocal Strategy = "local"
)

// Connection lazily establishes a pgxpool.Pool and hands out access to it
// according to its Strategy.
type Connection struct {
	cfg      config.PostgresConfig
	strategy Strategy

	mu   sync.Mutex // guards pool and, under StrategyGlobalLocked, every Acquire
	pool *pgxpool.Pool
}

// New constructs a Connection for cfg. The underlying pool is not created
// until the first Acquire call.
func New(cfg config.PostgresConfig) (*Connection, error) {
	strategy := Strategy(cfg.Strategy)
	switch strategy {
	case StrategyGlobalLocked, StrategyGlobalUnlocked, StrategyLocal:
	default:
		return nil, fmt.Errorf("postgres: unknown strategy %q", cfg.Strategy)
	}
	return &Connection{cfg: cfg, strategy: strategy}, nil
}

func (c *Connection) dsn() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s",
		c.cfg.Host, c.cfg.Port, c.cfg.Database, c.cfg.User, c.cfg.Password)
}

// ensurePool lazily creates the pool. Must be called with c.mu held.
func (c *Connection) ensurePool(ctx context.Context) error {
	if c.pool != nil {
		return nil
	}
	pool, err := pgxpool.New(ctx, c.dsn())
	if err != nil {
		return fmt.Errorf("postgres: connecting to %s:%d/%s: %w", c.cfg.Host, c.cfg.Port, c.cfg.Database, err)
	}
	c.pool = pool
	return nil
}

// Handle is what Acquire returns: a pgxpool.Conn under StrategyLocal, or
// the shared pool itself otherwise. Release must be called exactly once
// when the caller is done with it.
type Handle struct {
	conn    *pgxpool.Conn // non-nil only for StrategyLocal
	pool    *pgxpool.Pool
	release func()
}

// Querier returns the handle's usable connection: the acquired
// pgxpool.Conn under StrategyLocal, or the shared pool otherwise.
func (h *Handle) Querier() Querier {
	if h.conn != nil {
		return h.conn
	}
	return h.pool
}

// Release returns the handle's connection to the pool, if it checked one
// out (StrategyLocal). A no-op for the shared strategies.
func (h *Handle) Release() {
	if h.release != nil {
		h.release()
	}
}

// Acquire hands out a Handle per c's Strategy:
//   - StrategyGlobalLocked holds c.mu for the lifetime of the caller's use;
//     Release drops it.
//   - StrategyGlobalUnlocked and StrategyLocal never touch c.mu beyond
//     pool creation.
func (c *Connection) Acquire(ctx context.Context) (*Handle, error) {
	switch c.strategy {
	case StrategyGlobalLocked:
		c.mu.Lock()
		if err := c.ensurePool(ctx); err != nil {
			c.mu.Unlock()
			return nil, err
		}
		return &Handle{pool: c.pool, release: c.mu.Unlock}, nil

	case StrategyGlobalUnlocked:
		c.mu.Lock()
		err := c.ensurePool(ctx)
		pool := c.pool
		c.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return &Handle{pool: pool}, nil

	case StrategyLocal:
		c.mu.Lock()
		err := c.ensurePool(ctx)
		pool := c.pool
		c.mu.Unlock()
		if err != nil {
			return nil, err
		}
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("postgres: acquiring connection: %w", err)
		}
		return &Handle{conn: conn, release: conn.Release}, nil

	default:
		return nil, fmt.Errorf("postgres: unknown strategy %q", c.strategy)
	}
}

// Close shuts down the underlying pool, if one was ever created.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}
