package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldlens/fieldlens/graph"
	"github.com/fieldlens/fieldlens/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artifactYAML = `
apiVersion: fieldlens/v1
fields:
  - name: WS-GROUP
    group: true
  - name: WS-RATE
    dataType: decimal
    parent: WS-GROUP
units:
  - name: CALC-RATE
    output: WS-RATE
    inputs: [WS-BASE, WS-FACTOR]
    module: PRICING
  - name: COPY-RATE
    output: WS-RATE-OUT
    inputs: [WS-RATE]
    passthrough: true
`

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(artifactYAML), 0o600))

	dest := memstore.New()
	require.NoError(t, Load(context.Background(), path, dest))
	ctx := context.Background()

	unit, err := dest.ResolveUnit(ctx, "CALC-RATE")
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.EqualValues(t, "WS-RATE", unit.OutputName)
	assert.EqualValues(t, "PRICING", unit.Module)

	// undeclared inputs are registered as elemental fields
	field, err := dest.ResolveField(ctx, "WS-BASE")
	require.NoError(t, err)
	require.NotNil(t, field)
	assert.EqualValues(t, graph.Elemental, field.Kind)

	group, err := dest.ResolveField(ctx, "WS-GROUP")
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.True(t, group.IsGroup())

	// implied consumes/produces edges are queryable
	chains, err := dest.ImpactPaths(ctx, graph.PatternAt("CALC-RATE", graph.UnitNode, graph.Forward, 1))
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.EqualValues(t, "COPY-RATE", chains[0].EndUnit)
}

func TestLoad_JSON(t *testing.T) {
	artifact := `{
  "apiVersion": "fieldlens/v1",
  "units": [
    {"name": "A", "output": "F1"},
    {"name": "B", "output": "F2", "inputs": ["F1"]}
  ]
}`
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o600))

	dest := memstore.New()
	require.NoError(t, Load(context.Background(), path, dest))

	stats, err := dest.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Units)
	assert.EqualValues(t, 2, stats.Fields)
}

func TestParse_Version(t *testing.T) {
	tests := []struct {
		description string
		apiVersion  string
		ok          bool
	}{
		{description: "exact version", apiVersion: "fieldlens/v1", ok: true},
		{description: "same major", apiVersion: "fieldlens/v1.2.0", ok: true},
		{description: "newer major", apiVersion: "fieldlens/v2", ok: false},
		{description: "wrong scheme", apiVersion: "lineage/v1", ok: false},
		{description: "missing", apiVersion: "", ok: false},
		{description: "not semver", apiVersion: "fieldlens/one", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := Parse([]byte("apiVersion: "+tt.apiVersion+"\n"), ".yaml")
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPopulate_MissingOutput(t *testing.T) {
	document := &Document{
		APIVersion: Version,
		Units:      []UnitSpec{{Name: "BROKEN"}},
	}
	err := Populate(document, memstore.New())
	assert.Error(t, err)
}

func TestLoad_MissingArtifact(t *testing.T) {
	err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), memstore.New())
	assert.Error(t, err)
}
