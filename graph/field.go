package graph

// FieldKind discriminates elemental fields from group containers.
type FieldKind string

const (
	// Elemental fields carry a concrete value and a data type.
	Elemental FieldKind = "ELEMENTAL"
	// Group fields contain other fields and hold no data type.
	Group FieldKind = "GROUP"
)

// Field represents a named data element in the dependency graph.
// A group field contains at least one child field; containment is
// recursive. Fields are read-only for the lifetime of any analysis.
type Field struct {
	ID       string    `yaml:"id" json:"id"`                             // Stable identity
	Name     string    `yaml:"name" json:"name"`                         // Display name
	DataType string    `yaml:"dataType,omitempty" json:"dataType,omitempty"` // Concrete type, elemental fields only
	Kind     FieldKind `yaml:"kind" json:"kind"`                         // Elemental or Group
	Parent   string    `yaml:"parent,omitempty" json:"parent,omitempty"` // Containing group field ID, if any
}

// IsGroup reports whether the field is a container of other fields.
func (f *Field) IsGroup() bool {
	return f.Kind == Group
}
