package main

import (
	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/analyzer"
	"github.com/fieldlens/fieldlens/graph"
	"github.com/fieldlens/fieldlens/render"
)

var (
	impactField      bool
	impactMaxDepth   int
	impactLevelLimit int
)

var impactCmd = &cobra.Command{
	Use:   "impact <unit|field>",
	Short: "Show what a change to a unit or field affects",
	Long: `Walk the graph forward from the given unit (or field, with
--field) and list every transformation its output reaches, level by
level up to --max-depth. A unit reachable through several causal chains
appears once per chain.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTraversal(cmd, args[0], traverseForward)
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <unit|field>",
	Short: "Show what a unit or field depends on",
	Long: `The mirror of impact: walk the graph backward and list every
transformation that influences the given unit or field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTraversal(cmd, args[0], traverseBackward)
	},
}

const (
	traverseForward  = "impact"
	traverseBackward = "deps"
)

func runTraversal(cmd *cobra.Command, identifier, direction string) error {
	r, ctx, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.close(ctx)

	a := analyzer.New(r.store, analyzer.WithLevelLimit(impactLevelLimit))
	var edges []analyzer.ImpactEdge
	if direction == traverseForward {
		edges, err = a.Impact(ctx, identifier, impactField, impactMaxDepth)
	} else {
		edges, err = a.Dependencies(ctx, identifier, impactField, impactMaxDepth)
	}
	if err != nil {
		return err
	}
	out, err := render.Impact(edges, r.format)
	if err != nil {
		return err
	}
	return r.print(cmd, out)
}

func init() {
	for _, cmd := range []*cobra.Command{impactCmd, depsCmd} {
		cmd.Flags().BoolVar(&impactField, "field", false,
			"Treat the identifier as a field name instead of a unit name")
		cmd.Flags().IntVar(&impactMaxDepth, "max-depth", 3,
			"Maximum traversal depth in unit hops")
		cmd.Flags().IntVar(&impactLevelLimit, "level-limit", graph.DefaultLevelLimit,
			"Maximum causal chains reported per depth level")
	}
	rootCmd.AddCommand(impactCmd, depsCmd)
}
