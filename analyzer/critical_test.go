package analyzer

import (
	"context"
	"testing"

	"github.com/fieldlens/fieldlens/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyField(t *testing.T) {
	tests := []struct {
		consumers int
		expected  RiskTier
	}{
		{consumers: 1500, expected: RiskCritical},
		{consumers: 1001, expected: RiskCritical},
		{consumers: 1000, expected: RiskHigh},
		{consumers: 600, expected: RiskHigh},
		{consumers: 150, expected: RiskMedium},
		{consumers: 101, expected: RiskMedium},
		{consumers: 100, expected: RiskLow},
		{consumers: 5, expected: RiskLow},
	}
	for _, tt := range tests {
		assert.EqualValues(t, tt.expected, ClassifyField(tt.consumers), "consumers=%v", tt.consumers)
	}
}

func TestAnalyzer_RankFields(t *testing.T) {
	a := New(&stubStore{degrees: []graph.FieldDegree{
		{Name: "WS-RATE", Producers: 1, Consumers: 1500},
		{Name: "WS-BASE", Producers: 2, Consumers: 600},
		{Name: "WS-CODE", Producers: 3, Consumers: 30},
		{Name: "WS-NOTE", Producers: 1, Consumers: 2},
	}})
	ctx := context.Background()

	t.Run("by consumers", func(t *testing.T) {
		ranked, err := a.RankFields(ctx, 1, SortConsumers, 10)
		require.NoError(t, err)
		require.Len(t, ranked, 4)
		assert.EqualValues(t, "WS-RATE", ranked[0].Field)
		assert.EqualValues(t, RiskCritical, ranked[0].Risk)
		assert.EqualValues(t, 1501, ranked[0].TotalConnections)
		assert.InDelta(t, 1500.0, ranked[0].ImpactRatio, 1e-9)
		assert.EqualValues(t, RiskHigh, ranked[1].Risk)
		assert.EqualValues(t, RiskLow, ranked[2].Risk)
		assert.NotEmpty(t, ranked[0].Impact)
		assert.NotEmpty(t, ranked[0].Recommendation)
	})

	t.Run("by producers", func(t *testing.T) {
		ranked, err := a.RankFields(ctx, 1, SortProducers, 10)
		require.NoError(t, err)
		assert.EqualValues(t, "WS-CODE", ranked[0].Field)
	})

	t.Run("by ratio", func(t *testing.T) {
		ranked, err := a.RankFields(ctx, 1, SortRatio, 10)
		require.NoError(t, err)
		assert.EqualValues(t, "WS-RATE", ranked[0].Field)
		assert.EqualValues(t, "WS-BASE", ranked[1].Field)
	})

	t.Run("min consumers filters", func(t *testing.T) {
		ranked, err := a.RankFields(ctx, 100, SortConsumers, 10)
		require.NoError(t, err)
		assert.Len(t, ranked, 2)
	})

	t.Run("limit truncates", func(t *testing.T) {
		ranked, err := a.RankFields(ctx, 1, SortConsumers, 1)
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.EqualValues(t, "WS-RATE", ranked[0].Field)
	})
}

func TestAnalyzer_RankFields_Validation(t *testing.T) {
	a := New(&stubStore{})
	ctx := context.Background()

	_, err := a.RankFields(ctx, 0, SortConsumers, 10)
	assert.ErrorIs(t, err, graph.ErrInvalidParameter)

	_, err = a.RankFields(ctx, 1, "fanciness", 10)
	assert.ErrorIs(t, err, graph.ErrInvalidParameter)

	_, err = a.RankFields(ctx, 1, SortConsumers, 0)
	assert.ErrorIs(t, err, graph.ErrInvalidParameter)
}

func TestAnalyzer_Distribution(t *testing.T) {
	a := New(&stubStore{degrees: []graph.FieldDegree{
		{Name: "A", Producers: 1, Consumers: 1},
		{Name: "B", Producers: 1, Consumers: 9},
		{Name: "C", Producers: 1, Consumers: 10},
		{Name: "D", Producers: 1, Consumers: 500},
		{Name: "E", Producers: 1, Consumers: 2500},
	}})

	bands, err := a.Distribution(context.Background())
	require.NoError(t, err)
	require.Len(t, bands, 4)
	assert.EqualValues(t, 2, bands[0].Count)
	assert.EqualValues(t, 1, bands[1].Count)
	assert.EqualValues(t, 1, bands[2].Count)
	assert.EqualValues(t, 1, bands[3].Count)

	// bands partition the eligible population exactly
	total, percent := 0, 0.0
	for _, band := range bands {
		total += band.Count
		percent += band.Percent
	}
	assert.EqualValues(t, 5, total)
	assert.InDelta(t, 100.0, percent, 1e-9)
}

func TestAnalyzer_Distribution_Empty(t *testing.T) {
	a := New(&stubStore{})
	bands, err := a.Distribution(context.Background())
	require.NoError(t, err)
	require.Len(t, bands, 4)
	for _, band := range bands {
		assert.Zero(t, band.Count)
		assert.Zero(t, band.Percent)
	}
}
