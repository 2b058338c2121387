package analyzer

import (
	"context"
	"testing"

	"github.com/fieldlens/fieldlens/graph"
	"github.com/fieldlens/fieldlens/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamondAnalyzer wires two routes from SRC to SINK: a direct one over
// MID and a longer one over L1 and L2.
func diamondAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	s := memstore.New()
	for _, name := range []string{"FA", "FB", "FC", "FD", "FE"} {
		require.NoError(t, s.AddField(&graph.Field{Name: name, Kind: graph.Elemental}))
	}
	for _, name := range []string{"SRC", "MID", "L1", "L2", "SINK"} {
		require.NoError(t, s.AddUnit(&graph.Unit{Name: name}))
	}
	link := func(kind graph.EdgeKind, unit, field string) {
		require.NoError(t, s.AddEdge(graph.Edge{
			Kind: kind,
			From: graph.Ref(graph.UnitNode, unit),
			To:   graph.Ref(graph.FieldNode, field),
		}))
	}
	link(graph.Produces, "SRC", "FA")
	link(graph.Consumes, "MID", "FA")
	link(graph.Produces, "MID", "FB")
	link(graph.Consumes, "SINK", "FB")
	link(graph.Consumes, "L1", "FA")
	link(graph.Produces, "L1", "FC")
	link(graph.Consumes, "L2", "FC")
	link(graph.Produces, "L2", "FD")
	link(graph.Consumes, "SINK", "FD")
	return New(s)
}

func TestAnalyzer_FindPaths_Shortest(t *testing.T) {
	a := chainAnalyzer(t)
	paths, err := a.FindPaths(context.Background(), "A", "C", 3, Shortest, 10)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.EqualValues(t, Path{
		Source:      "A",
		Target:      "C",
		Length:      2,
		Units:       []string{"A", "B", "C"},
		Fields:      []string{"F1", "F2"},
		Description: "A -(F1)-> B -(F2)-> C",
	}, paths[0])
}

func TestAnalyzer_FindPaths_Strategies(t *testing.T) {
	a := diamondAnalyzer(t)
	ctx := context.Background()

	shortest, err := a.FindPaths(ctx, "SRC", "SINK", 5, Shortest, 10)
	require.NoError(t, err)
	require.Len(t, shortest, 1)
	assert.EqualValues(t, 2, shortest[0].Length)
	assert.EqualValues(t, []string{"SRC", "MID", "SINK"}, shortest[0].Units)

	all, err := a.FindPaths(ctx, "SRC", "SINK", 5, All, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.EqualValues(t, 2, all[0].Length)
	assert.EqualValues(t, 3, all[1].Length)
	assert.EqualValues(t, []string{"SRC", "L1", "L2", "SINK"}, all[1].Units)

	longest, err := a.FindPaths(ctx, "SRC", "SINK", 5, Longest, 10)
	require.NoError(t, err)
	require.Len(t, longest, 2)
	assert.EqualValues(t, 3, longest[0].Length)
	assert.EqualValues(t, 2, longest[1].Length)

	// shortest never exceeds any path the bounded enumeration returns
	for _, path := range all {
		assert.LessOrEqual(t, shortest[0].Length, path.Length)
	}
}

// Every path strictly interleaves units and fields.
func TestAnalyzer_FindPaths_Shape(t *testing.T) {
	a := diamondAnalyzer(t)
	paths, err := a.FindPaths(context.Background(), "SRC", "SINK", 5, All, 10)
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		assert.Len(t, path.Units, path.Length+1)
		assert.Len(t, path.Fields, path.Length)
	}
}

func TestAnalyzer_FindPaths_Limit(t *testing.T) {
	a := diamondAnalyzer(t)
	paths, err := a.FindPaths(context.Background(), "SRC", "SINK", 5, All, 1)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.EqualValues(t, 2, paths[0].Length)
}

func TestAnalyzer_FindPaths_Empty(t *testing.T) {
	a := chainAnalyzer(t)
	ctx := context.Background()

	paths, err := a.FindPaths(ctx, "A", "MISSING", 3, Shortest, 10)
	require.NoError(t, err)
	assert.Empty(t, paths)

	// reachable only beyond maxDepth
	paths, err = a.FindPaths(ctx, "A", "C", 1, All, 10)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestAnalyzer_FindPaths_Validation(t *testing.T) {
	a := chainAnalyzer(t)
	ctx := context.Background()

	tests := []struct {
		description string
		source      string
		target      string
		maxDepth    int
		strategy    Strategy
		limit       int
	}{
		{description: "source equals target", source: "A", target: "A", maxDepth: 3, strategy: Shortest, limit: 10},
		{description: "maxDepth below one", source: "A", target: "C", maxDepth: 0, strategy: Shortest, limit: 10},
		{description: "limit below one", source: "A", target: "C", maxDepth: 3, strategy: Shortest, limit: 0},
		{description: "unknown strategy", source: "A", target: "C", maxDepth: 3, strategy: "widest", limit: 10},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := a.FindPaths(ctx, tt.source, tt.target, tt.maxDepth, tt.strategy, tt.limit)
			assert.ErrorIs(t, err, graph.ErrInvalidParameter)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	strategy, err := ParseStrategy(" Shortest ")
	require.NoError(t, err)
	assert.EqualValues(t, Shortest, strategy)

	_, err = ParseStrategy("widest")
	assert.ErrorIs(t, err, graph.ErrInvalidParameter)
}
