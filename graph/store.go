package graph

import "context"

// Chain is one alternating unit/field walk returned by a pattern query.
// Fields lists the field names crossed in hop order, one per depth
// level, so len(Fields) always equals the pattern depth.
type Chain struct {
	SourceUnit  string   // origin unit name, empty when the origin is a field
	SourceField string   // origin unit's output field, or the origin field itself
	EndUnit     string   // unit reached at the pattern depth
	EndField    string   // output field of the reached unit
	Fields      []string // fields crossed between origin and end
}

// Neighbor is one unit adjacent to another: the two share a field that
// one of them produces and the other consumes. Direction is ignored so
// dependency paths can be traced either way.
type Neighbor struct {
	Unit  string // adjacent unit name
	Field string // field connecting the two units
}

// FieldDegree carries the raw fan counts of a single field.
type FieldDegree struct {
	Name      string // field display name
	Producers int    // units with a produces edge to the field
	Consumers int    // units with a consumes edge to the field
}

// UnitDegree counts the unique fields a unit touches through consumes
// and produces edges combined.
type UnitDegree struct {
	Unit   string `json:"unit"`
	Fields int    `json:"fields"`
}

// Stats aggregates global graph counts.
type Stats struct {
	Units      int     `json:"units"`      // total transformation units
	Fields     int     `json:"fields"`     // total fields
	Edges      int     `json:"edges"`      // total edges of all kinds
	AvgInputs  float64 `json:"avgInputs"`  // mean consumed-field count per unit
	MaxInputs  int     `json:"maxInputs"`  // largest consumed-field count of any unit
	AvgOutputs float64 `json:"avgOutputs"` // mean produced-field count per unit
	MaxOutputs int     `json:"maxOutputs"` // largest produced-field count of any unit
}

// Store defines the read-only graph access port every analysis consumes.
// Implementations resolve nodes by display name and answer bounded
// pattern queries; they never expose partial writes. A name that
// resolves to nothing is an empty answer, not an error: Resolve methods
// return nil, and query methods return empty slices. Backend failures
// are wrapped with BackendError.
type Store interface {
	// ResolveUnit returns the unit with the given display name, or nil.
	ResolveUnit(ctx context.Context, name string) (*Unit, error)

	// ResolveField returns the field with the given display name, or nil.
	ResolveField(ctx context.Context, name string) (*Field, error)

	// ImpactPaths returns every chain matching the pattern, capped at
	// the pattern limit, in backend order.
	ImpactPaths(ctx context.Context, pattern Pattern) ([]Chain, error)

	// UnitNeighbors returns the units one undirected hop away from the
	// named unit together with the connecting field.
	UnitNeighbors(ctx context.Context, unit string) ([]Neighbor, error)

	// FieldDegrees returns fan counts for every field with at least one
	// producer and at least minConsumers consumers, in backend order.
	FieldDegrees(ctx context.Context, minConsumers int) ([]FieldDegree, error)

	// Stats returns the global graph counts.
	Stats(ctx context.Context) (*Stats, error)

	// TopConnectedUnits returns the n units touching the most unique
	// fields, descending.
	TopConnectedUnits(ctx context.Context, n int) ([]UnitDegree, error)
}

// Mutator is the write surface used by ingestion. Analyses never see
// it; they hold no write authority over the graph.
type Mutator interface {
	AddField(field *Field) error
	AddUnit(unit *Unit) error
	AddEdge(edge Edge) error
}
