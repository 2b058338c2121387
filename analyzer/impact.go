package analyzer

import (
	"context"
	"fmt"

	"github.com/fieldlens/fieldlens/graph"
	"golang.org/x/sync/errgroup"
)

// ImpactEdge is one causal chain found by an impact or dependency
// traversal. Depth counts the unit hops between the origin and the
// touched unit; the same unit may appear at several depths because each
// depth is a distinct chain.
type ImpactEdge struct {
	SourceUnit    string   `json:"sourceUnit,omitempty"`
	SourceField   string   `json:"sourceOutputField"`
	AffectedUnit  string   `json:"affectedUnit"`
	AffectedField string   `json:"affectedOutputField,omitempty"`
	Depth         int      `json:"depth"`
	PathFields    []string `json:"pathFields"`
}

// Impact returns every unit transitively affected by a change to the
// identified unit or field, level by level up to maxDepth. Levels query
// the store independently and concurrently; results keep level order.
// An identifier that resolves to nothing yields an empty result.
func (a *Analyzer) Impact(ctx context.Context, identifier string, isField bool, maxDepth int) ([]ImpactEdge, error) {
	return a.traverse(ctx, identifier, isField, maxDepth, graph.Forward)
}

// Dependencies is the mirror traversal: every unit the identified unit
// or field transitively depends on. It shares the Impact contract.
func (a *Analyzer) Dependencies(ctx context.Context, identifier string, isField bool, maxDepth int) ([]ImpactEdge, error) {
	return a.traverse(ctx, identifier, isField, maxDepth, graph.Backward)
}

func (a *Analyzer) traverse(ctx context.Context, identifier string, isField bool, maxDepth int, direction graph.Direction) ([]ImpactEdge, error) {
	if maxDepth < 1 {
		return nil, graph.InvalidParameterf("maxDepth %v, want >= 1", maxDepth)
	}
	kind := graph.UnitNode
	if isField {
		kind = graph.FieldNode
	}
	known, err := a.resolve(ctx, identifier, kind)
	if err != nil {
		return nil, err
	}
	if !known {
		a.log(ctx).Debug("identifier not found", "identifier", identifier, "kind", kind)
		return nil, nil
	}

	levels := make([][]graph.Chain, maxDepth+1)
	group, groupCtx := errgroup.WithContext(ctx)
	for depth := 1; depth <= maxDepth; depth++ {
		group.Go(func() error {
			pattern := graph.PatternAt(identifier, kind, direction, depth)
			pattern.Limit = a.levelLimit
			chains, err := a.store.ImpactPaths(groupCtx, pattern)
			if err != nil {
				return fmt.Errorf("depth %v: %w", depth, err)
			}
			levels[depth] = chains
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var edges []ImpactEdge
	for depth := 1; depth <= maxDepth; depth++ {
		for _, chain := range levels[depth] {
			edges = append(edges, ImpactEdge{
				SourceUnit:    chain.SourceUnit,
				SourceField:   chain.SourceField,
				AffectedUnit:  chain.EndUnit,
				AffectedField: chain.EndField,
				Depth:         depth,
				PathFields:    chain.Fields,
			})
		}
	}
	return edges, nil
}

func (a *Analyzer) resolve(ctx context.Context, identifier string, kind graph.NodeKind) (bool, error) {
	if kind == graph.FieldNode {
		field, err := a.store.ResolveField(ctx, identifier)
		return field != nil, err
	}
	unit, err := a.store.ResolveUnit(ctx, identifier)
	return unit != nil, err
}
