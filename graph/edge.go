package graph

// EdgeKind classifies a relationship between two graph nodes.
type EdgeKind string

const (
	Consumes EdgeKind = "CONSUMES" // unit reads a field
	Produces EdgeKind = "PRODUCES" // unit writes a field, exactly one per unit
	Contains EdgeKind = "CONTAINS" // group field holds a member field
	RunsIn   EdgeKind = "RUNS_IN"  // unit executes inside a runtime module
)

// NodeKind discriminates the two node populations of the bipartite graph.
type NodeKind string

const (
	UnitNode  NodeKind = "UNIT"
	FieldNode NodeKind = "FIELD"
)

// Edge represents one directed relationship between two nodes, addressed
// by node ID. RunsIn edges point at a runtime module name instead of a
// node.
type Edge struct {
	Kind EdgeKind `yaml:"kind" json:"kind"`
	From string   `yaml:"from" json:"from"`
	To   string   `yaml:"to" json:"to"`
}
