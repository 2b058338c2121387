package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldlens/fieldlens/graph"
)

// Strategy selects how FindPaths orders its bounded enumeration.
type Strategy string

const (
	// Shortest returns the paths of the first length at which the two
	// units connect.
	Shortest Strategy = "shortest"
	// All returns every simple path within maxDepth, ascending by
	// length.
	All Strategy = "all"
	// Longest orders the same bounded enumeration descending. It is a
	// heuristic over the explored set, not a graph-theoretic longest
	// path.
	Longest Strategy = "longest"
)

// ParseStrategy maps a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case Shortest:
		return Shortest, nil
	case All:
		return All, nil
	case Longest:
		return Longest, nil
	}
	return "", graph.InvalidParameterf("unknown strategy %q", name)
}

// Path is one dependency path between two units. Length counts unit
// hops; Units always holds Length+1 names and Fields the Length
// connecting fields between them.
type Path struct {
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Length      int      `json:"length"`
	Units       []string `json:"units"`
	Fields      []string `json:"fields"`
	Description string   `json:"description"`
}

// FindPaths enumerates simple dependency paths between two units,
// treating the unit adjacency as undirected so a dependency can be
// traced either way. Enumeration runs per exact length from 1 to
// maxDepth and every length is capped at limit, so densely connected
// graphs stay tractable at the cost of completeness. Unknown units or
// no connection within the bounds yield an empty result.
func (a *Analyzer) FindPaths(ctx context.Context, source, target string, maxDepth int, strategy Strategy, limit int) ([]Path, error) {
	if source == target {
		return nil, graph.InvalidParameterf("source and target are both %q", source)
	}
	if maxDepth < 1 {
		return nil, graph.InvalidParameterf("maxDepth %v, want >= 1", maxDepth)
	}
	if limit < 1 {
		return nil, graph.InvalidParameterf("limit %v, want >= 1", limit)
	}
	switch strategy {
	case Shortest, All, Longest:
	default:
		return nil, graph.InvalidParameterf("unknown strategy %q", strategy)
	}
	for _, name := range []string{source, target} {
		unit, err := a.store.ResolveUnit(ctx, name)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			a.log(ctx).Debug("unit not found", "unit", name)
			return nil, nil
		}
	}

	walker := &pathWalker{
		store:     a.store,
		neighbors: make(map[string][]graph.Neighbor),
		byLength:  make([][]Path, maxDepth+1),
		source:    source,
		target:    target,
		maxDepth:  maxDepth,
		limit:     limit,
	}
	if err := walker.walk(ctx, source, []string{source}, nil, map[string]bool{source: true}); err != nil {
		return nil, err
	}

	var paths []Path
	switch strategy {
	case Shortest:
		for length := 1; length <= maxDepth; length++ {
			if found := walker.byLength[length]; len(found) > 0 {
				paths = found
				break
			}
		}
	case All:
		for length := 1; length <= maxDepth; length++ {
			paths = append(paths, walker.byLength[length]...)
		}
	case Longest:
		for length := maxDepth; length >= 1; length-- {
			paths = append(paths, walker.byLength[length]...)
		}
	}
	if len(paths) > limit {
		paths = paths[:limit]
	}
	return paths, nil
}

// pathWalker enumerates simple paths with a per-invocation neighbor
// cache so each unit is expanded against the store at most once.
type pathWalker struct {
	store     graph.Store
	neighbors map[string][]graph.Neighbor
	byLength  [][]Path
	source    string
	target    string
	maxDepth  int
	limit     int
}

func (w *pathWalker) walk(ctx context.Context, current string, units, fields []string, visited map[string]bool) error {
	length := len(units) - 1
	if length >= w.maxDepth {
		return nil
	}
	adjacent, err := w.expand(ctx, current)
	if err != nil {
		return err
	}
	for _, next := range adjacent {
		if next.Unit == w.target {
			if len(w.byLength[length+1]) < w.limit {
				w.byLength[length+1] = append(w.byLength[length+1], w.build(
					append(append([]string(nil), units...), next.Unit),
					append(append([]string(nil), fields...), next.Field),
				))
			}
			continue
		}
		if visited[next.Unit] {
			continue
		}
		visited[next.Unit] = true
		err := w.walk(ctx,
			next.Unit,
			append(units, next.Unit),
			append(fields, next.Field),
			visited,
		)
		delete(visited, next.Unit)
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *pathWalker) expand(ctx context.Context, unit string) ([]graph.Neighbor, error) {
	if cached, ok := w.neighbors[unit]; ok {
		return cached, nil
	}
	adjacent, err := w.store.UnitNeighbors(ctx, unit)
	if err != nil {
		return nil, fmt.Errorf("expand %v: %w", unit, err)
	}
	w.neighbors[unit] = adjacent
	return adjacent, nil
}

// build renders the derived description alongside the path data.
func (w *pathWalker) build(units, fields []string) Path {
	var description strings.Builder
	for i, unit := range units {
		if i > 0 {
			description.WriteString(fmt.Sprintf(" -(%s)-> ", fields[i-1]))
		}
		description.WriteString(unit)
	}
	return Path{
		Source:      w.source,
		Target:      w.target,
		Length:      len(units) - 1,
		Units:       units,
		Fields:      fields,
		Description: description.String(),
	}
}
