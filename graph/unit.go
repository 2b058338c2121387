package graph

// Unit represents an atomic transformation: it consumes zero or more
// fields and produces exactly one output field. Every consumed field is
// assumed by construction to influence the output; the engine does not
// verify that invariant.
type Unit struct {
	ID          string `yaml:"id" json:"id"`                                       // Stable identity
	Name        string `yaml:"name" json:"name"`                                   // Display name
	OutputGroup string `yaml:"outputGroup,omitempty" json:"outputGroup,omitempty"` // Group holding the produced field
	OutputName  string `yaml:"outputName" json:"outputName"`                       // Name of the produced field
	Passthrough bool   `yaml:"passthrough,omitempty" json:"passthrough,omitempty"` // Copies its input without transformation
	Module      string `yaml:"module,omitempty" json:"module,omitempty"`           // Runtime module the unit runs in
}
