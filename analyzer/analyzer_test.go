package analyzer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fieldlens/fieldlens/graph"
	"github.com/fieldlens/fieldlens/logging"
	"github.com/fieldlens/fieldlens/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainAnalyzer wires A -> F1 -> B -> F2 -> C into a fresh memstore.
func chainAnalyzer(t *testing.T, options ...Option) *Analyzer {
	t.Helper()
	s := memstore.New()
	for _, name := range []string{"F1", "F2"} {
		require.NoError(t, s.AddField(&graph.Field{Name: name, Kind: graph.Elemental}))
	}
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, s.AddUnit(&graph.Unit{Name: name}))
	}
	link := func(kind graph.EdgeKind, unit, field string) {
		require.NoError(t, s.AddEdge(graph.Edge{
			Kind: kind,
			From: graph.Ref(graph.UnitNode, unit),
			To:   graph.Ref(graph.FieldNode, field),
		}))
	}
	link(graph.Produces, "A", "F1")
	link(graph.Consumes, "B", "F1")
	link(graph.Produces, "B", "F2")
	link(graph.Consumes, "C", "F2")
	return New(s, options...)
}

// stubStore serves canned answers so aggregate analyses can be tested
// against populations too large to build edge by edge. A non-nil err
// fails every call, standing in for an unreachable backend.
type stubStore struct {
	units   map[string]*graph.Unit
	degrees []graph.FieldDegree
	stats   graph.Stats
	top     []graph.UnitDegree
	err     error
}

func (s *stubStore) ResolveUnit(ctx context.Context, name string) (*graph.Unit, error) {
	return s.units[name], s.err
}

func (s *stubStore) ResolveField(ctx context.Context, name string) (*graph.Field, error) {
	return nil, s.err
}

func (s *stubStore) ImpactPaths(ctx context.Context, pattern graph.Pattern) ([]graph.Chain, error) {
	return nil, s.err
}

func (s *stubStore) UnitNeighbors(ctx context.Context, unit string) ([]graph.Neighbor, error) {
	return nil, s.err
}

func (s *stubStore) FieldDegrees(ctx context.Context, minConsumers int) ([]graph.FieldDegree, error) {
	if s.err != nil {
		return nil, s.err
	}
	var degrees []graph.FieldDegree
	for _, degree := range s.degrees {
		if degree.Producers >= 1 && degree.Consumers >= minConsumers {
			degrees = append(degrees, degree)
		}
	}
	return degrees, nil
}

func (s *stubStore) Stats(ctx context.Context) (*graph.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	stats := s.stats
	return &stats, nil
}

func (s *stubStore) TopConnectedUnits(ctx context.Context, n int) ([]graph.UnitDegree, error) {
	return s.top, s.err
}

func TestAnalyzer_ContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	ctx := logging.WithLogger(context.Background(), logger)

	edges, err := chainAnalyzer(t).Impact(ctx, "NO-SUCH-UNIT", false, 1)
	require.NoError(t, err)
	assert.Empty(t, edges)
	assert.Contains(t, buf.String(), "identifier not found")
	assert.Contains(t, buf.String(), "NO-SUCH-UNIT")
}

func TestAnalyzer_OptionLoggerWins(t *testing.T) {
	var fromOption, fromContext bytes.Buffer
	debugTo := func(w *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	ctx := logging.WithLogger(context.Background(), debugTo(&fromContext))

	_, err := chainAnalyzer(t, WithLogger(debugTo(&fromOption))).Impact(ctx, "NO-SUCH-UNIT", false, 1)
	require.NoError(t, err)
	assert.Contains(t, fromOption.String(), "identifier not found")
	assert.Empty(t, fromContext.String())
}
