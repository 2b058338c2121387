package analyzer

import (
	"context"
	"fmt"

	"github.com/fieldlens/fieldlens/graph"
	"golang.org/x/sync/errgroup"
)

// SystemReport is the aggregate fragility assessment of the whole
// graph. Components is an assumption, not a measurement: the engine
// treats the graph as a single connected component and performs no
// component detection.
type SystemReport struct {
	Stats            graph.Stats        `json:"stats"`
	TopUnits         []graph.UnitDegree `json:"topUnits"`
	Components       int                `json:"components"`
	Distribution     []Band             `json:"distribution"`
	HighImpactFields int                `json:"highImpactFields"`
	Fragility        RiskTier           `json:"fragility"`
	Actions          []string           `json:"actions"`
}

// ClassifyFragility maps the count of HIGH and CRITICAL fields onto the
// system-wide fragility rating.
func ClassifyFragility(highImpactFields int) RiskTier {
	switch {
	case highImpactFields > 20:
		return RiskCritical
	case highImpactFields > 10:
		return RiskHigh
	case highImpactFields > 5:
		return RiskMedium
	default:
		return RiskLow
	}
}

// baseActions is the fixed, severity-ordered action list of the system
// report.
var baseActions = []string{
	"Identify and document every consumer of the highest fan-out fields.",
	"Add regression coverage around the most connected transformations.",
	"Split high fan-out fields into narrower ones where consumers allow it.",
	"Introduce compatibility shims before changing shared fields.",
}

func recommendedActions(fragility RiskTier) []string {
	actions := append([]string(nil), baseActions...)
	if fragility == RiskCritical {
		actions = append([]string{"Prepare an emergency rollback path before any further change."}, actions...)
		actions = append(actions, "Plan an architecture redesign to reduce systemic coupling.")
	}
	return actions
}

// Summarize builds the system report. The four sub-aggregations browse
// the store independently and run concurrently; the report is assembled
// only once all of them have completed, and any failure aborts the
// whole operation.
func (a *Analyzer) Summarize(ctx context.Context) (*SystemReport, error) {
	report := &SystemReport{Components: 1}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		stats, err := a.store.Stats(groupCtx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		report.Stats = *stats
		return nil
	})
	group.Go(func() error {
		top, err := a.store.TopConnectedUnits(groupCtx, a.topUnits)
		if err != nil {
			return fmt.Errorf("connectivity: %w", err)
		}
		report.TopUnits = top
		return nil
	})
	group.Go(func() error {
		bands, err := a.Distribution(groupCtx)
		if err != nil {
			return fmt.Errorf("distribution: %w", err)
		}
		report.Distribution = bands
		return nil
	})
	group.Go(func() error {
		degrees, err := a.store.FieldDegrees(groupCtx, 1)
		if err != nil {
			return fmt.Errorf("ranking: %w", err)
		}
		for _, degree := range degrees {
			switch ClassifyField(degree.Consumers) {
			case RiskHigh, RiskCritical:
				report.HighImpactFields++
			}
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	report.Fragility = ClassifyFragility(report.HighImpactFields)
	report.Actions = recommendedActions(report.Fragility)
	a.log(ctx).Debug("system summarized",
		"units", report.Stats.Units,
		"fields", report.Stats.Fields,
		"fragility", report.Fragility,
	)
	return report, nil
}
