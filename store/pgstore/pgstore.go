// Package pgstore implements the graph access port on Postgres through
// database/sql and the pgx stdlib driver. Nodes live in graph_units and
// graph_fields; the consumes, produces, contains and runs_in tables
// carry one edge kind each. Name resolution is cached because the data
// is read-only for the lifetime of a store.
package pgstore

import (
	"context"
	"database/sql"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fieldlens/fieldlens/graph"
)

// resolveCacheSize bounds the per-store name resolution caches.
const resolveCacheSize = 4096

// Store is a read-only graph access port over a Postgres pool.
type Store struct {
	db     *sql.DB
	units  *lru.Cache[string, *graph.Unit]
	fields *lru.Cache[string, *graph.Field]
}

// New opens a pool for the given DSN and verifies connectivity.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, graph.BackendError(err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, graph.BackendError(err)
	}
	return newStore(db, resolveCacheSize)
}

// newStore wraps an open pool, owning it on failure too.
func newStore(db *sql.DB, cacheSize int) (*Store, error) {
	units, err := lru.New[string, *graph.Unit](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, graph.BackendError(err)
	}
	fields, err := lru.New[string, *graph.Field](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, graph.BackendError(err)
	}
	return &Store{db: db, units: units, fields: fields}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ResolveUnit returns the unit with the given display name, or nil.
func (s *Store) ResolveUnit(ctx context.Context, name string) (*graph.Unit, error) {
	if unit, ok := s.units.Get(name); ok {
		return unit, nil
	}
	var unit graph.Unit
	err := s.db.QueryRowContext(ctx, resolveUnitSQL, name).Scan(
		&unit.ID, &unit.Name, &unit.OutputGroup, &unit.OutputName,
		&unit.Passthrough, &unit.Module,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, graph.BackendError(err)
	}
	s.units.Add(name, &unit)
	return &unit, nil
}

// ResolveField returns the field with the given display name, or nil.
func (s *Store) ResolveField(ctx context.Context, name string) (*graph.Field, error) {
	if field, ok := s.fields.Get(name); ok {
		return field, nil
	}
	var field graph.Field
	err := s.db.QueryRowContext(ctx, resolveFieldSQL, name).Scan(
		&field.ID, &field.Name, &field.DataType, &field.Kind, &field.Parent,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, graph.BackendError(err)
	}
	s.fields.Add(name, &field)
	return &field, nil
}

// ImpactPaths answers a traversal pattern with one bounded SELECT.
func (s *Store) ImpactPaths(ctx context.Context, pattern graph.Pattern) ([]graph.Chain, error) {
	if pattern.Depth < 1 {
		return nil, graph.InvalidParameterf("pattern depth %v", pattern.Depth)
	}
	query, args := impactSQL(pattern)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, graph.BackendError(err)
	}
	defer rows.Close()

	var chains []graph.Chain
	for rows.Next() {
		var chain graph.Chain
		var joined string
		if err := rows.Scan(&chain.SourceUnit, &chain.SourceField, &chain.EndUnit, &chain.EndField, &joined); err != nil {
			return nil, graph.BackendError(err)
		}
		chain.Fields = strings.Split(joined, fieldSep)
		chains = append(chains, chain)
	}
	if err := rows.Err(); err != nil {
		return nil, graph.BackendError(err)
	}
	return chains, nil
}

// UnitNeighbors returns the undirected one-hop unit adjacency.
func (s *Store) UnitNeighbors(ctx context.Context, unit string) ([]graph.Neighbor, error) {
	rows, err := s.db.QueryContext(ctx, unitNeighborsSQL, unit)
	if err != nil {
		return nil, graph.BackendError(err)
	}
	defer rows.Close()

	var neighbors []graph.Neighbor
	for rows.Next() {
		var neighbor graph.Neighbor
		if err := rows.Scan(&neighbor.Unit, &neighbor.Field); err != nil {
			return nil, graph.BackendError(err)
		}
		neighbors = append(neighbors, neighbor)
	}
	if err := rows.Err(); err != nil {
		return nil, graph.BackendError(err)
	}
	return neighbors, nil
}

// FieldDegrees returns per-field fan counts in database order.
func (s *Store) FieldDegrees(ctx context.Context, minConsumers int) ([]graph.FieldDegree, error) {
	rows, err := s.db.QueryContext(ctx, fieldDegreesSQL, minConsumers)
	if err != nil {
		return nil, graph.BackendError(err)
	}
	defer rows.Close()

	var degrees []graph.FieldDegree
	for rows.Next() {
		var degree graph.FieldDegree
		if err := rows.Scan(&degree.Name, &degree.Producers, &degree.Consumers); err != nil {
			return nil, graph.BackendError(err)
		}
		degrees = append(degrees, degree)
	}
	if err := rows.Err(); err != nil {
		return nil, graph.BackendError(err)
	}
	return degrees, nil
}

// Stats returns the global graph counts.
func (s *Store) Stats(ctx context.Context) (*graph.Stats, error) {
	var stats graph.Stats
	err := s.db.QueryRowContext(ctx, statsSQL).Scan(
		&stats.Units, &stats.Fields, &stats.Edges,
		&stats.AvgInputs, &stats.MaxInputs,
		&stats.AvgOutputs, &stats.MaxOutputs,
	)
	if err != nil {
		return nil, graph.BackendError(err)
	}
	return &stats, nil
}

// TopConnectedUnits returns the n units touching the most unique
// fields.
func (s *Store) TopConnectedUnits(ctx context.Context, n int) ([]graph.UnitDegree, error) {
	rows, err := s.db.QueryContext(ctx, topConnectedSQL, n)
	if err != nil {
		return nil, graph.BackendError(err)
	}
	defer rows.Close()

	var top []graph.UnitDegree
	for rows.Next() {
		var degree graph.UnitDegree
		if err := rows.Scan(&degree.Unit, &degree.Fields); err != nil {
			return nil, graph.BackendError(err)
		}
		top = append(top, degree)
	}
	if err := rows.Err(); err != nil {
		return nil, graph.BackendError(err)
	}
	return top, nil
}
