package builtins

import (
	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerStructureWords wires the structure system: `#` defines a new
// structure type and synthesizes its per-field accessor words, `#@`/`#!`
// read and write a field by index generically, and `#.iterate` /
// `#.field-exists?` / `#.=` round out the family. Grounded on
// data_structure_words.rs and data_object.rs's create_data_definition_words.
//
// The reference implementation's `#` is a plain native word that expects a
// Forth-level wrapper to have already parsed the `Name field1 field2 ;`
// surface syntax into an array of field-name strings before calling it;
// that bootstrap script wasn't part of the retained source. `#` is authored
// here as the immediate word that does its own token parsing instead,
// following the `:`/`variable` precedent elsewhere in this package. It does
// not support a surface syntax for per-field default initializers or a
// hidden marker, since no spelling for either is given in the retained
// material; every structure defined through `#` is Visible with None
// defaults.
func registerStructureWords(m *interp.Machine) {
	defImmediate(m, "#", wordStructDefinition, "Begin a structure definition.", " -- ")

	def(m, "#@", wordReadField, "Read a field from a structure.", "field-index structure -- value")
	def(m, "#!", wordWriteField, "Write to a field of a structure.", "value structure field-index -- ")

	def(m, "#.iterate", wordStructIterate, "Call a word for each field of a structure.", "word-index structure -- ")
	def(m, "#.field-exists?", wordStructFieldExists, "Check if the named structure field exists.", "field-name structure -- bool")
	def(m, "#.=", wordStructCompare, "Check if two structures are the same.", "a b -- bool")
}

func wordStructDefinition(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "expected a structure name after '#'")
	}
	name, err := wordNameFromToken(tok)
	if err != nil {
		return err
	}

	var fieldNames []string
	for {
		field, ok := m.Comp.NextToken()
		if !ok {
			return scriptError(m, "'#' without a matching ';'")
		}
		if field.IsWord() && field.Text == ";" {
			break
		}
		fieldName, err := wordNameFromToken(field)
		if err != nil {
			return err
		}
		fieldNames = append(fieldNames, fieldName)
	}

	defaults := make([]value.Value, len(fieldNames))
	for i := range defaults {
		defaults[i] = value.None
	}

	definition, err := value.NewDataObjectDefinition(tok.Loc, name, fieldNames, defaults, value.Visible)
	if err != nil {
		return err
	}
	m.Definitions.Insert(definition)

	createDataDefinitionWords(m, tok.Loc, definition, dictionary.Visible)
	return nil
}

// createDataDefinitionWords synthesizes Name.new plus, for every field,
// the index accessor, the direct reader/writer pair, and the
// variable-dereferencing reader/writer pair.
func createDataDefinitionWords(m *interp.Machine, loc token.Location, definition *value.DataObjectDefinition, vis dictionary.Visibility) {
	m.AddWord(loc, definition.Name+".new", func(mm *interp.Machine) error {
		return mm.Push(definition.New())
	}, "Create a new instance of the structure "+definition.Name+".", " -- "+definition.Name,
		dictionary.Normal, vis, dictionary.Native, dictionary.Managed)

	for i, fieldName := range definition.FieldNames {
		index := i
		wordBase := definition.Name + "." + fieldName

		m.AddWord(loc, wordBase, func(mm *interp.Machine) error {
			return mm.Push(value.IntValue(index))
		}, "", " -- "+fieldName+"-index", dictionary.Normal, vis, dictionary.Native, dictionary.Managed)

		m.AddWord(loc, wordBase+"!", func(mm *interp.Machine) error {
			obj, err := popDataObject(mm)
			if err != nil {
				return err
			}
			v, err := mm.Pop()
			if err != nil {
				return err
			}
			return obj.Set(index, v)
		}, "Write to the structure "+definition.Name+" field "+fieldName+".", "value struct -- ",
			dictionary.Normal, vis, dictionary.Native, dictionary.Managed)

		m.AddWord(loc, wordBase+"@", func(mm *interp.Machine) error {
			obj, err := popDataObject(mm)
			if err != nil {
				return err
			}
			v, err := obj.Get(index)
			if err != nil {
				return err
			}
			return mm.Push(v)
		}, "Read from the structure "+definition.Name+" field "+fieldName+".", "struct -- value",
			dictionary.Normal, vis, dictionary.Native, dictionary.Managed)

		m.AddWord(loc, wordBase+"!!", func(mm *interp.Machine) error {
			varIndex, err := popIndex(mm)
			if err != nil {
				return err
			}
			v, err := mm.Pop()
			if err != nil {
				return err
			}
			obj, err := dataObjectAtVariable(mm, varIndex)
			if err != nil {
				return err
			}
			return obj.Set(index, v)
		}, "Write to the structure variable "+definition.Name+" field "+fieldName+".", "value struct-var -- ",
			dictionary.Normal, vis, dictionary.Native, dictionary.Managed)

		m.AddWord(loc, wordBase+"@@", func(mm *interp.Machine) error {
			varIndex, err := popIndex(mm)
			if err != nil {
				return err
			}
			obj, err := dataObjectAtVariable(mm, varIndex)
			if err != nil {
				return err
			}
			v, err := obj.Get(index)
			if err != nil {
				return err
			}
			return mm.Push(v)
		}, "Read from the structure variable "+definition.Name+" field "+fieldName+".", "struct-var -- value",
			dictionary.Normal, vis, dictionary.Native, dictionary.Managed)
	}
}

func popDataObject(m *interp.Machine) (*value.DataObject, error) {
	v, err := m.Pop()
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*value.DataObject)
	if !ok {
		return nil, scriptError(m, "expected a structure, got %s", v.Type())
	}
	return obj, nil
}

func dataObjectAtVariable(m *interp.Machine, varIndex int) (*value.DataObject, error) {
	if varIndex < 0 || varIndex >= m.Variables.Len() {
		return nil, scriptError(m, "index %d out of range for variable list", varIndex)
	}
	v := m.Variables.Get(varIndex)
	obj, ok := v.(*value.DataObject)
	if !ok {
		return nil, scriptError(m, "variable %d does not hold a structure", varIndex)
	}
	return obj, nil
}

func wordReadField(m *interp.Machine) error {
	obj, err := popDataObject(m)
	if err != nil {
		return err
	}
	index, err := popIndex(m)
	if err != nil {
		return err
	}
	v, err := obj.Get(index)
	if err != nil {
		return err
	}
	return m.Push(v)
}

func wordWriteField(m *interp.Machine) error {
	index, err := popIndex(m)
	if err != nil {
		return err
	}
	obj, err := popDataObject(m)
	if err != nil {
		return err
	}
	v, err := m.Pop()
	if err != nil {
		return err
	}
	return obj.Set(index, v)
}

func wordStructIterate(m *interp.Machine) error {
	obj, err := popDataObject(m)
	if err != nil {
		return err
	}
	wordIndex, err := popIndex(m)
	if err != nil {
		return err
	}
	for i, fieldName := range obj.Def.FieldNames {
		v, err := obj.Get(i)
		if err != nil {
			return err
		}
		if err := m.Push(value.StringValue(fieldName)); err != nil {
			return err
		}
		if err := m.Push(v); err != nil {
			return err
		}
		if err := m.ExecuteWordIndex(token.Location{}, wordIndex); err != nil {
			return err
		}
	}
	return nil
}

func wordStructFieldExists(m *interp.Machine) error {
	obj, err := popDataObject(m)
	if err != nil {
		return err
	}
	name, err := m.Pop()
	if err != nil {
		return err
	}
	fieldName, ok := stringableValue(name)
	if !ok {
		return scriptError(m, "expected a string field name, got %s", name.Type())
	}
	return m.Push(value.BoolValue(obj.Def.FieldIndex(fieldName) >= 0))
}

func wordStructCompare(m *interp.Machine) error {
	b, err := popDataObject(m)
	if err != nil {
		return err
	}
	a, err := popDataObject(m)
	if err != nil {
		return err
	}
	return m.Push(value.BoolValue(value.Equal(a, b)))
}

func stringableValue(v value.Value) (string, bool) {
	s, ok := v.(value.StringValue)
	if !ok {
		return "", false
	}
	return string(s), true
}
