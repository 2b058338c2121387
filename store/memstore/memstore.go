// Package memstore implements the graph access port in process memory.
// It serves local analyses re-hydrated from an export artifact and is
// the fake behind every analyzer test. Populate the store through the
// graph.Mutator surface first; query it afterwards. Queries follow
// insertion order, which is what the port documents as backend order.
package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/fieldlens/fieldlens/graph"
)

// Store keeps the whole graph in lookup maps with insertion-ordered key
// slices so query results stay deterministic.
type Store struct {
	fields     map[string]*graph.Field // by display name
	units      map[string]*graph.Unit  // by display name
	fieldNames []string
	unitNames  []string
	nameByID   map[string]string
	edges      []graph.Edge

	producedBy map[string][]string // field name -> producing unit names
	consumedBy map[string][]string // field name -> consuming unit names
	produces   map[string][]string // unit name -> produced field names
	consumes   map[string][]string // unit name -> consumed field names
}

// New returns an empty store ready for population.
func New() *Store {
	return &Store{
		fields:     make(map[string]*graph.Field),
		units:      make(map[string]*graph.Unit),
		nameByID:   make(map[string]string),
		producedBy: make(map[string][]string),
		consumedBy: make(map[string][]string),
		produces:   make(map[string][]string),
		consumes:   make(map[string][]string),
	}
}

// AddField registers a field node. An empty ID is derived from the name.
func (s *Store) AddField(field *graph.Field) error {
	if field == nil || field.Name == "" {
		return fmt.Errorf("field name is required")
	}
	if _, ok := s.fields[field.Name]; ok {
		return fmt.Errorf("duplicate field %q", field.Name)
	}
	if field.ID == "" {
		field.ID = graph.Ref(graph.FieldNode, field.Name)
	}
	s.fields[field.Name] = field
	s.fieldNames = append(s.fieldNames, field.Name)
	s.nameByID[field.ID] = field.Name
	return nil
}

// AddUnit registers a unit node. An empty ID is derived from the name.
func (s *Store) AddUnit(unit *graph.Unit) error {
	if unit == nil || unit.Name == "" {
		return fmt.Errorf("unit name is required")
	}
	if _, ok := s.units[unit.Name]; ok {
		return fmt.Errorf("duplicate unit %q", unit.Name)
	}
	if unit.ID == "" {
		unit.ID = graph.Ref(graph.UnitNode, unit.Name)
	}
	s.units[unit.Name] = unit
	s.unitNames = append(s.unitNames, unit.Name)
	s.nameByID[unit.ID] = unit.Name
	return nil
}

// AddEdge registers an edge between two previously added nodes. Edge
// endpoints address nodes by ID; RUNS_IN targets a module name, not a
// node, so only its source is resolved.
func (s *Store) AddEdge(edge graph.Edge) error {
	from, ok := s.nameByID[edge.From]
	if !ok {
		return fmt.Errorf("edge %v: unknown source %q", edge.Kind, edge.From)
	}
	if edge.Kind == graph.RunsIn {
		s.edges = append(s.edges, edge)
		return nil
	}
	to, ok := s.nameByID[edge.To]
	if !ok {
		return fmt.Errorf("edge %v: unknown target %q", edge.Kind, edge.To)
	}
	switch edge.Kind {
	case graph.Consumes:
		s.consumes[from] = append(s.consumes[from], to)
		s.consumedBy[to] = append(s.consumedBy[to], from)
	case graph.Produces:
		if len(s.produces[from]) > 0 {
			return fmt.Errorf("unit %q already produces %q", from, s.produces[from][0])
		}
		s.produces[from] = append(s.produces[from], to)
		s.producedBy[to] = append(s.producedBy[to], from)
	case graph.Contains:
	default:
		return fmt.Errorf("unknown edge kind %q", edge.Kind)
	}
	s.edges = append(s.edges, edge)
	return nil
}

// ResolveUnit returns the unit with the given display name, or nil.
func (s *Store) ResolveUnit(ctx context.Context, name string) (*graph.Unit, error) {
	return s.units[name], nil
}

// ResolveField returns the field with the given display name, or nil.
func (s *Store) ResolveField(ctx context.Context, name string) (*graph.Field, error) {
	return s.fields[name], nil
}

// ImpactPaths walks every alternating unit/field chain of exactly the
// pattern depth. Walks are bounded by depth alone, so cyclic graphs
// terminate; the pattern limit caps the emitted chains.
func (s *Store) ImpactPaths(ctx context.Context, pattern graph.Pattern) ([]graph.Chain, error) {
	if pattern.Depth < 1 {
		return nil, graph.InvalidParameterf("pattern depth %v", pattern.Depth)
	}
	unitOut, fieldIn := s.produces, s.consumedBy
	if pattern.Direction == graph.Backward {
		unitOut, fieldIn = s.consumes, s.producedBy
	}

	var chains []graph.Chain
	sourceUnit := ""
	var walk func(field string, level int, crossed []string)
	walk = func(field string, level int, crossed []string) {
		crossed = append(crossed, field)
		for _, unit := range fieldIn[field] {
			if len(chains) >= pattern.Limit {
				return
			}
			if level == pattern.Depth {
				chains = append(chains, graph.Chain{
					SourceUnit:  sourceUnit,
					SourceField: crossed[0],
					EndUnit:     unit,
					EndField:    s.outputOf(unit),
					Fields:      append([]string(nil), crossed...),
				})
				continue
			}
			for _, next := range unitOut[unit] {
				walk(next, level+1, crossed)
			}
		}
	}

	if pattern.OriginKind == graph.FieldNode {
		if _, ok := s.fields[pattern.Origin]; !ok {
			return nil, nil
		}
		walk(pattern.Origin, 1, nil)
		return chains, nil
	}
	if _, ok := s.units[pattern.Origin]; !ok {
		return nil, nil
	}
	sourceUnit = pattern.Origin
	for _, field := range unitOut[pattern.Origin] {
		walk(field, 1, nil)
	}
	return chains, nil
}

// outputOf returns the field a unit produces, or empty when the unit
// produces nothing the store knows about.
func (s *Store) outputOf(unit string) string {
	if out := s.produces[unit]; len(out) > 0 {
		return out[0]
	}
	return ""
}

// UnitNeighbors returns the units one undirected hop away: any unit
// consuming a field the named unit produces, or producing a field it
// consumes, together with the connecting field.
func (s *Store) UnitNeighbors(ctx context.Context, unit string) ([]graph.Neighbor, error) {
	if _, ok := s.units[unit]; !ok {
		return nil, nil
	}
	var neighbors []graph.Neighbor
	seen := make(map[graph.Neighbor]bool)
	add := func(other, field string) {
		if other == unit {
			return
		}
		n := graph.Neighbor{Unit: other, Field: field}
		if !seen[n] {
			seen[n] = true
			neighbors = append(neighbors, n)
		}
	}
	for _, field := range s.produces[unit] {
		for _, other := range s.consumedBy[field] {
			add(other, field)
		}
	}
	for _, field := range s.consumes[unit] {
		for _, other := range s.producedBy[field] {
			add(other, field)
		}
	}
	return neighbors, nil
}

// FieldDegrees returns fan counts for every field with at least one
// producer and at least minConsumers consumers, in insertion order.
func (s *Store) FieldDegrees(ctx context.Context, minConsumers int) ([]graph.FieldDegree, error) {
	var degrees []graph.FieldDegree
	for _, name := range s.fieldNames {
		producers := len(s.producedBy[name])
		consumers := len(s.consumedBy[name])
		if producers < 1 || consumers < minConsumers {
			continue
		}
		degrees = append(degrees, graph.FieldDegree{
			Name:      name,
			Producers: producers,
			Consumers: consumers,
		})
	}
	return degrees, nil
}

// Stats returns the global graph counts.
func (s *Store) Stats(ctx context.Context) (*graph.Stats, error) {
	stats := &graph.Stats{
		Units:  len(s.unitNames),
		Fields: len(s.fieldNames),
		Edges:  len(s.edges),
	}
	var totalIn, totalOut int
	for _, unit := range s.unitNames {
		in, out := len(s.consumes[unit]), len(s.produces[unit])
		totalIn += in
		totalOut += out
		if in > stats.MaxInputs {
			stats.MaxInputs = in
		}
		if out > stats.MaxOutputs {
			stats.MaxOutputs = out
		}
	}
	if stats.Units > 0 {
		stats.AvgInputs = float64(totalIn) / float64(stats.Units)
		stats.AvgOutputs = float64(totalOut) / float64(stats.Units)
	}
	return stats, nil
}

// TopConnectedUnits returns the n units touching the most unique
// fields, descending; ties keep insertion order.
func (s *Store) TopConnectedUnits(ctx context.Context, n int) ([]graph.UnitDegree, error) {
	degrees := make([]graph.UnitDegree, 0, len(s.unitNames))
	for _, unit := range s.unitNames {
		touched := make(map[string]bool)
		for _, field := range s.consumes[unit] {
			touched[field] = true
		}
		for _, field := range s.produces[unit] {
			touched[field] = true
		}
		degrees = append(degrees, graph.UnitDegree{Unit: unit, Fields: len(touched)})
	}
	sort.SliceStable(degrees, func(i, j int) bool {
		return degrees[i].Fields > degrees[j].Fields
	})
	if n >= 0 && n < len(degrees) {
		degrees = degrees[:n]
	}
	return degrees, nil
}
