// Package neostore implements the graph access port on Neo4j. Units and
// fields are nodes labelled Unit and Field; CONSUMES, PRODUCES, CONTAINS
// and RUNS_IN relationships mirror the edge kinds. All sessions open in
// read mode and every driver failure is surfaced as a backend error.
package neostore

import (
	"context"
	"fmt"

	"github.com/fieldlens/fieldlens/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store is a read-only graph access port over a bolt connection.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// New connects to Neo4j and verifies connectivity before returning.
func New(ctx context.Context, uri, username, password, database string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, graph.BackendError(err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, graph.BackendError(err)
	}
	return &Store{driver: driver, database: database}, nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// read runs one query in a read transaction and feeds every record to
// scan.
func (s *Store) read(ctx context.Context, query string, params map[string]any, scan func(record *neo4j.Record) error) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		for result.Next(ctx) {
			if err := scan(result.Record()); err != nil {
				return nil, err
			}
		}
		return nil, result.Err()
	})
	if err != nil {
		return graph.BackendError(err)
	}
	return nil
}

// ResolveUnit returns the unit with the given display name, or nil.
func (s *Store) ResolveUnit(ctx context.Context, name string) (*graph.Unit, error) {
	var unit *graph.Unit
	err := s.read(ctx, resolveUnitQuery, map[string]any{"name": name}, func(record *neo4j.Record) error {
		unit = &graph.Unit{
			ID:          recordString(record, "id"),
			Name:        recordString(record, "name"),
			OutputGroup: recordString(record, "outputGroup"),
			OutputName:  recordString(record, "outputName"),
			Passthrough: recordBool(record, "passthrough"),
			Module:      recordString(record, "module"),
		}
		return nil
	})
	return unit, err
}

// ResolveField returns the field with the given display name, or nil.
func (s *Store) ResolveField(ctx context.Context, name string) (*graph.Field, error) {
	var field *graph.Field
	err := s.read(ctx, resolveFieldQuery, map[string]any{"name": name}, func(record *neo4j.Record) error {
		field = &graph.Field{
			ID:       recordString(record, "id"),
			Name:     recordString(record, "name"),
			DataType: recordString(record, "dataType"),
			Kind:     graph.FieldKind(recordString(record, "kind")),
			Parent:   recordString(record, "parent"),
		}
		return nil
	})
	return field, err
}

// ImpactPaths answers a traversal pattern with one bounded Cypher
// query.
func (s *Store) ImpactPaths(ctx context.Context, pattern graph.Pattern) ([]graph.Chain, error) {
	if pattern.Depth < 1 {
		return nil, graph.InvalidParameterf("pattern depth %v", pattern.Depth)
	}
	query, params := impactQuery(pattern)
	var chains []graph.Chain
	err := s.read(ctx, query, params, func(record *neo4j.Record) error {
		fields, err := recordStrings(record, "fields")
		if err != nil {
			return err
		}
		chains = append(chains, graph.Chain{
			SourceUnit:  recordString(record, "sourceUnit"),
			SourceField: recordString(record, "sourceField"),
			EndUnit:     recordString(record, "endUnit"),
			EndField:    recordString(record, "endField"),
			Fields:      fields,
		})
		return nil
	})
	return chains, err
}

// UnitNeighbors returns the undirected one-hop unit adjacency.
func (s *Store) UnitNeighbors(ctx context.Context, unit string) ([]graph.Neighbor, error) {
	var neighbors []graph.Neighbor
	err := s.read(ctx, unitNeighborsQuery, map[string]any{"name": unit}, func(record *neo4j.Record) error {
		neighbors = append(neighbors, graph.Neighbor{
			Unit:  recordString(record, "unit"),
			Field: recordString(record, "field"),
		})
		return nil
	})
	return neighbors, err
}

// FieldDegrees returns per-field fan counts in database order.
func (s *Store) FieldDegrees(ctx context.Context, minConsumers int) ([]graph.FieldDegree, error) {
	var degrees []graph.FieldDegree
	err := s.read(ctx, fieldDegreesQuery, map[string]any{"min": minConsumers}, func(record *neo4j.Record) error {
		degrees = append(degrees, graph.FieldDegree{
			Name:      recordString(record, "name"),
			Producers: recordInt(record, "producers"),
			Consumers: recordInt(record, "consumers"),
		})
		return nil
	})
	return degrees, err
}

// Stats returns the global graph counts.
func (s *Store) Stats(ctx context.Context) (*graph.Stats, error) {
	var stats *graph.Stats
	err := s.read(ctx, statsQuery, nil, func(record *neo4j.Record) error {
		stats = &graph.Stats{
			Units:      recordInt(record, "units"),
			Fields:     recordInt(record, "fields"),
			Edges:      recordInt(record, "edges"),
			AvgInputs:  recordFloat(record, "avgInputs"),
			MaxInputs:  recordInt(record, "maxInputs"),
			AvgOutputs: recordFloat(record, "avgOutputs"),
			MaxOutputs: recordInt(record, "maxOutputs"),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &graph.Stats{}
	}
	return stats, nil
}

// TopConnectedUnits returns the n units touching the most unique
// fields.
func (s *Store) TopConnectedUnits(ctx context.Context, n int) ([]graph.UnitDegree, error) {
	var top []graph.UnitDegree
	err := s.read(ctx, topConnectedQuery, map[string]any{"n": n}, func(record *neo4j.Record) error {
		top = append(top, graph.UnitDegree{
			Unit:   recordString(record, "unit"),
			Fields: recordInt(record, "fields"),
		})
		return nil
	})
	return top, err
}

func recordString(record *neo4j.Record, key string) string {
	if raw, ok := record.Get(key); ok {
		if value, ok := raw.(string); ok {
			return value
		}
	}
	return ""
}

func recordBool(record *neo4j.Record, key string) bool {
	if raw, ok := record.Get(key); ok {
		if value, ok := raw.(bool); ok {
			return value
		}
	}
	return false
}

func recordInt(record *neo4j.Record, key string) int {
	if raw, ok := record.Get(key); ok {
		if value, ok := raw.(int64); ok {
			return int(value)
		}
	}
	return 0
}

func recordFloat(record *neo4j.Record, key string) float64 {
	if raw, ok := record.Get(key); ok {
		switch value := raw.(type) {
		case float64:
			return value
		case int64:
			return float64(value)
		}
	}
	return 0
}

func recordStrings(record *neo4j.Record, key string) ([]string, error) {
	raw, ok := record.Get(key)
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("column %q: unexpected type %T", key, raw)
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("column %q: unexpected element %T", key, item)
		}
		values = append(values, value)
	}
	return values, nil
}
