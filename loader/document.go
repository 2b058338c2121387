package loader

// Version is the artifact schema version this loader accepts, compared
// on major version only.
const Version = "fieldlens/v1"

// Document is the flat graph export artifact: the schema version plus
// every field and unit. Edges are implied by the declarations — a unit
// produces its output field, consumes its listed inputs and runs in its
// module; a field with a parent is contained by it.
type Document struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Fields     []FieldSpec `yaml:"fields" json:"fields"`
	Units      []UnitSpec  `yaml:"units" json:"units"`
}

// FieldSpec declares one field by display name. Group is set for
// container fields; Parent names the containing group, if any.
type FieldSpec struct {
	Name     string `yaml:"name" json:"name"`
	DataType string `yaml:"dataType,omitempty" json:"dataType,omitempty"`
	Group    bool   `yaml:"group,omitempty" json:"group,omitempty"`
	Parent   string `yaml:"parent,omitempty" json:"parent,omitempty"`
}

// UnitSpec declares one transformation unit with its consumed inputs
// and single produced output.
type UnitSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Output      string   `yaml:"output" json:"output"`
	OutputGroup string   `yaml:"outputGroup,omitempty" json:"outputGroup,omitempty"`
	Inputs      []string `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Passthrough bool     `yaml:"passthrough,omitempty" json:"passthrough,omitempty"`
	Module      string   `yaml:"module,omitempty" json:"module,omitempty"`
}
