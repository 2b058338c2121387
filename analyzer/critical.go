package analyzer

import (
	"context"
	"sort"

	"github.com/fieldlens/fieldlens/graph"
)

// SortKey selects which fan metric RankFields orders by.
type SortKey string

const (
	SortConsumers SortKey = "consumers"
	SortProducers SortKey = "producers"
	SortRatio     SortKey = "ratio"
)

// RiskTier classifies a field by how many units consume it.
type RiskTier string

const (
	RiskLow      RiskTier = "LOW"
	RiskMedium   RiskTier = "MEDIUM"
	RiskHigh     RiskTier = "HIGH"
	RiskCritical RiskTier = "CRITICAL"
)

// riskDetail pairs a tier with its fixed impact statement and
// recommendation.
type riskDetail struct {
	impact         string
	recommendation string
}

var riskDetails = map[RiskTier]riskDetail{
	RiskCritical: {
		impact:         "A change to this field reaches over a thousand transformations.",
		recommendation: "Freeze the field; any change needs a dedicated migration plan and full regression coverage.",
	},
	RiskHigh: {
		impact:         "Hundreds of transformations read this field.",
		recommendation: "Change only behind a compatibility shim and stage the rollout.",
	},
	RiskMedium: {
		impact:         "A moderate set of transformations reads this field.",
		recommendation: "Review every consumer before changing the field.",
	},
	RiskLow: {
		impact:         "Few transformations read this field.",
		recommendation: "Standard review is sufficient.",
	},
}

// ClassifyField maps a consumer count onto its risk tier.
func ClassifyField(consumers int) RiskTier {
	switch {
	case consumers > 1000:
		return RiskCritical
	case consumers > 500:
		return RiskHigh
	case consumers > 100:
		return RiskMedium
	default:
		return RiskLow
	}
}

// FieldImpact is one ranked field with its fan counts and risk tier.
type FieldImpact struct {
	Field            string   `json:"field"`
	ProducerCount    int      `json:"producerCount"`
	ConsumerCount    int      `json:"consumerCount"`
	ImpactRatio      float64  `json:"impactRatio"`
	TotalConnections int      `json:"totalConnections"`
	Risk             RiskTier `json:"risk"`
	Impact           string   `json:"impact"`
	Recommendation   string   `json:"recommendation"`
}

// RankFields ranks fields by fan-out, descending by the chosen key.
// Only fields with at least one producer and at least minConsumers
// consumers are eligible; a field nothing produces cannot meaningfully
// change. minConsumers must be at least 1: a field nothing consumes has
// no fan-out to rank, so a zero threshold is rejected rather than
// silently widened. Ties keep backend order, so ordering across equal
// values is not deterministic and callers must not rely on it.
func (a *Analyzer) RankFields(ctx context.Context, minConsumers int, sortKey SortKey, limit int) ([]FieldImpact, error) {
	if minConsumers < 1 {
		return nil, graph.InvalidParameterf("minConsumers %v, want >= 1", minConsumers)
	}
	if limit < 1 {
		return nil, graph.InvalidParameterf("limit %v, want >= 1", limit)
	}
	switch sortKey {
	case SortConsumers, SortProducers, SortRatio:
	default:
		return nil, graph.InvalidParameterf("unknown sort key %q", sortKey)
	}

	degrees, err := a.store.FieldDegrees(ctx, minConsumers)
	if err != nil {
		return nil, err
	}
	ranked := make([]FieldImpact, 0, len(degrees))
	for _, degree := range degrees {
		tier := ClassifyField(degree.Consumers)
		detail := riskDetails[tier]
		ranked = append(ranked, FieldImpact{
			Field:            degree.Name,
			ProducerCount:    degree.Producers,
			ConsumerCount:    degree.Consumers,
			ImpactRatio:      float64(degree.Consumers) / float64(degree.Producers),
			TotalConnections: degree.Producers + degree.Consumers,
			Risk:             tier,
			Impact:           detail.impact,
			Recommendation:   detail.recommendation,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		switch sortKey {
		case SortProducers:
			return ranked[i].ProducerCount > ranked[j].ProducerCount
		case SortRatio:
			return ranked[i].ImpactRatio > ranked[j].ImpactRatio
		default:
			return ranked[i].ConsumerCount > ranked[j].ConsumerCount
		}
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// distributionBands are the fixed consumer-count bands of the field
// distribution. Their boundaries intentionally differ from the risk
// tier thresholds; the two scales are maintained independently.
var distributionBands = []struct {
	label string
	lo    int
	hi    int // exclusive, 0 means unbounded
}{
	{label: "1-9", lo: 1, hi: 10},
	{label: "10-99", lo: 10, hi: 100},
	{label: "100-999", lo: 100, hi: 1000},
	{label: "1000+", lo: 1000},
}

// Band is one consumer-count bucket of the field distribution.
type Band struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution buckets every eligible field (at least one producer and
// one consumer) by consumer count. With no eligible fields all bands
// report zero.
func (a *Analyzer) Distribution(ctx context.Context) ([]Band, error) {
	degrees, err := a.store.FieldDegrees(ctx, 1)
	if err != nil {
		return nil, err
	}
	bands := make([]Band, len(distributionBands))
	for i, band := range distributionBands {
		bands[i].Label = band.label
	}
	for _, degree := range degrees {
		for i, band := range distributionBands {
			if degree.Consumers >= band.lo && (band.hi == 0 || degree.Consumers < band.hi) {
				bands[i].Count++
				break
			}
		}
	}
	if total := len(degrees); total > 0 {
		for i := range bands {
			bands[i].Percent = 100 * float64(bands[i].Count) / float64(total)
		}
	}
	return bands, nil
}
