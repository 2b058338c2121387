// Package analyzer is the dependency-impact engine: forward impact and
// backward dependency traversals, dependency-path enumeration between
// units, critical-field ranking and the system-wide fragility report.
// Every analysis reads the graph through the graph.Store port and holds
// no state across invocations.
package analyzer

import (
	"context"
	"log/slog"

	"github.com/fieldlens/fieldlens/graph"
	"github.com/fieldlens/fieldlens/logging"
)

type Option func(*Analyzer)

// WithLogger pins the logger analyses report progress through. Without
// it, each analysis picks the logger carried on its context.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithLevelLimit caps how many chains a single depth level may return.
func WithLevelLimit(limit int) Option {
	return func(a *Analyzer) {
		if limit > 0 {
			a.levelLimit = limit
		}
	}
}

// WithTopUnits sets how many highly connected units the system report
// lists.
func WithTopUnits(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topUnits = n
		}
	}
}

// Analyzer runs all analyses against one graph store. It is safe for
// concurrent use: every method is read-only and keeps its working state
// on the stack.
type Analyzer struct {
	store      graph.Store
	logger     *slog.Logger
	levelLimit int
	topUnits   int
}

// New returns an analyzer bound to the given store.
func New(store graph.Store, options ...Option) *Analyzer {
	a := &Analyzer{
		store:      store,
		levelLimit: graph.DefaultLevelLimit,
		topUnits:   defaultTopUnits,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// log resolves the logger for one analysis: the pinned one when
// WithLogger was given, otherwise whatever the context carries.
func (a *Analyzer) log(ctx context.Context) *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return logging.FromContext(ctx)
}

const defaultTopUnits = 10
