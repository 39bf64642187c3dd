package value

import (
	"fmt"
	"strings"

	"github.com/sorthlang/gosorth/lang/token"
)

// Visibility controls whether a definition (or the word it backs) shows up
// in a dictionary listing.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// DataObjectDefinition describes a structure type: its name, ordered field
// names and per-field default values. Readonly after creation.
type DataObjectDefinition struct {
	Name       string
	Loc        token.Location
	FieldNames []string
	Defaults   []Value
	Vis        Visibility
}

// NewDataObjectDefinition validates that fieldNames and defaults have the
// same arity and returns a new definition.
func NewDataObjectDefinition(loc token.Location, name string, fieldNames []string, defaults []Value, vis Visibility) (*DataObjectDefinition, error) {
	if len(fieldNames) != len(defaults) {
		return nil, fmt.Errorf("structure %s: %d field names but %d defaults", name, len(fieldNames), len(defaults))
	}
	return &DataObjectDefinition{Name: name, Loc: loc, FieldNames: fieldNames, Defaults: defaults, Vis: vis}, nil
}

// FieldIndex returns the index of the named field, or -1 if it isn't one of
// this definition's fields.
func (d *DataObjectDefinition) FieldIndex(name string) int {
	for i, f := range d.FieldNames {
		if f == name {
			return i
		}
	}
	return -1
}

func (d *DataObjectDefinition) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s", d.Name)
	for _, f := range d.FieldNames {
		fmt.Fprintf(&sb, " %s", f)
	}
	sb.WriteString(" ;")
	return sb.String()
}

// New constructs a new instance whose fields are deep clones of the
// definition's defaults.
func (d *DataObjectDefinition) New() *DataObject {
	fields := make([]Value, len(d.Defaults))
	for i, def := range d.Defaults {
		fields[i] = DeepClone(def)
	}
	return &DataObject{Def: d, Fields: fields}
}

// DataObject is an instance of a DataObjectDefinition: a pointer to its
// definition plus a positional vector of field values.
type DataObject struct {
	Def    *DataObjectDefinition
	Fields []Value
}

func (*DataObject) Type() string { return "data-object" }
func (*DataObject) sealed()      {}

func (o *DataObject) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s{", o.Def.Name)
	for i, f := range o.Fields {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s: %s", o.Def.FieldNames[i], f.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Get reads field i, erroring if it is out of range.
func (o *DataObject) Get(i int) (Value, error) {
	if i < 0 || i >= len(o.Fields) {
		return nil, fmt.Errorf("%s: field index %d out of bounds (%d fields)", o.Def.Name, i, len(o.Fields))
	}
	return o.Fields[i], nil
}

// Set writes field i, erroring if it is out of range.
func (o *DataObject) Set(i int, v Value) error {
	if i < 0 || i >= len(o.Fields) {
		return fmt.Errorf("%s: field index %d out of bounds (%d fields)", o.Def.Name, i, len(o.Fields))
	}
	o.Fields[i] = v
	return nil
}

func (o *DataObject) equal(other *DataObject) bool {
	if o.Def != other.Def || len(o.Fields) != len(other.Fields) {
		return false
	}
	for i := range o.Fields {
		if !Equal(o.Fields[i], other.Fields[i]) {
			return false
		}
	}
	return true
}

func (o *DataObject) deepClone() *DataObject {
	fields := make([]Value, len(o.Fields))
	for i, f := range o.Fields {
		fields[i] = DeepClone(f)
	}
	return &DataObject{Def: o.Def, Fields: fields}
}
