package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fieldlens/fieldlens/analyzer"
	"github.com/fieldlens/fieldlens/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEdges = []analyzer.ImpactEdge{
	{SourceUnit: "A", SourceField: "F1", AffectedUnit: "B", AffectedField: "F2", Depth: 1, PathFields: []string{"F1"}},
	{SourceUnit: "A", SourceField: "F1", AffectedUnit: "C", Depth: 2, PathFields: []string{"F1", "F2"}},
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat(" Markdown ")
	require.NoError(t, err)
	assert.EqualValues(t, Markdown, format)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestImpact(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := Impact(sampleEdges, Text)
		require.NoError(t, err)
		assert.Contains(t, out, "AFFECTED UNIT")
		assert.Contains(t, out, "B")
		assert.Contains(t, out, "F1 > F2")
	})
	t.Run("text empty", func(t *testing.T) {
		out, err := Impact(nil, Text)
		require.NoError(t, err)
		assert.Contains(t, out, "no impact")
	})
	t.Run("json round-trips", func(t *testing.T) {
		out, err := Impact(sampleEdges, JSON)
		require.NoError(t, err)
		var decoded []analyzer.ImpactEdge
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.EqualValues(t, sampleEdges, decoded)
	})
	t.Run("csv", func(t *testing.T) {
		out, err := Impact(sampleEdges, CSV)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.EqualValues(t, "depth,affectedUnit,affectedField,pathFields", lines[0])
	})
	t.Run("markdown", func(t *testing.T) {
		out, err := Impact(sampleEdges, Markdown)
		require.NoError(t, err)
		assert.Contains(t, out, "| depth | affectedUnit |")
		assert.Contains(t, out, "| --- |")
	})
}

func TestPaths(t *testing.T) {
	paths := []analyzer.Path{{
		Source: "A", Target: "C", Length: 2,
		Units:       []string{"A", "B", "C"},
		Fields:      []string{"F1", "F2"},
		Description: "A -(F1)-> B -(F2)-> C",
	}}

	out, err := Paths(paths, Text)
	require.NoError(t, err)
	assert.Contains(t, out, "[2] A -(F1)-> B -(F2)-> C")

	out, err = Paths(nil, Text)
	require.NoError(t, err)
	assert.Contains(t, out, "no path")

	out, err = Paths(paths, Markdown)
	require.NoError(t, err)
	assert.Contains(t, out, "| 2 | A -(F1)-> B -(F2)-> C |")
}

func TestFields(t *testing.T) {
	fields := []analyzer.FieldImpact{{
		Field: "WS-RATE", ProducerCount: 1, ConsumerCount: 1500,
		ImpactRatio: 1500, TotalConnections: 1501, Risk: analyzer.RiskCritical,
	}}

	out, err := Fields(fields, Text)
	require.NoError(t, err)
	assert.Contains(t, out, "WS-RATE")
	assert.Contains(t, out, "CRITICAL")

	out, err = Fields(fields, CSV)
	require.NoError(t, err)
	assert.Contains(t, out, "WS-RATE,1,1500,1500.00,CRITICAL")
}

func TestSummary(t *testing.T) {
	report := &analyzer.SystemReport{
		Stats:            graph.Stats{Units: 10, Fields: 5, Edges: 20, AvgInputs: 1.5, MaxInputs: 3},
		TopUnits:         []graph.UnitDegree{{Unit: "B", Fields: 4}},
		Components:       1,
		Distribution:     []analyzer.Band{{Label: "1-9", Count: 5, Percent: 100}},
		HighImpactFields: 2,
		Fragility:        analyzer.RiskLow,
		Actions:          []string{"do nothing rash"},
	}

	out, err := Summary(report, Text)
	require.NoError(t, err)
	assert.Contains(t, out, "units: 10")
	assert.Contains(t, out, "rating: LOW")
	assert.Contains(t, out, "1. do nothing rash")

	out, err = Summary(report, Markdown)
	require.NoError(t, err)
	assert.Contains(t, out, "## System")

	out, err = Summary(report, CSV)
	require.NoError(t, err)
	assert.Contains(t, out, "fragility,LOW")

	out, err = Summary(report, JSON)
	require.NoError(t, err)
	var decoded analyzer.SystemReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.EqualValues(t, *report, decoded)
}
