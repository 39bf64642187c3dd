package builtins

import (
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerValueTypeWords wires the `value.is-*?` introspection family,
// grounded on value_type_words.rs. Each predicate pops a value and checks
// its runtime type; "number" covers both IntValue and FloatValue, matching
// the original's is_numeric().
func registerValueTypeWords(m *interp.Machine) {
	typePredicate := func(name, description string, match func(v value.Value) bool) {
		def(m, name, func(m *interp.Machine) error {
			v, err := m.Pop()
			if err != nil {
				return err
			}
			return m.Push(value.BoolValue(match(v)))
		}, description, "value -- bool")
	}

	typePredicate("value.is-none?", "Is the value nothing?", value.IsNone)
	typePredicate("value.is-number?", "Is the value a number?", func(v value.Value) bool {
		return value.IsInt(v) || value.IsFloat(v)
	})
	typePredicate("value.is-boolean?", "Is the value a boolean?", value.IsBool)
	typePredicate("value.is-string?", "Is the value a string?", value.IsString)
	typePredicate("value.is-structure?", "Is the value a structure?", func(v value.Value) bool {
		_, ok := v.(*value.DataObject)
		return ok
	})
	typePredicate("value.is-array?", "Is the value an array?", func(v value.Value) bool {
		_, ok := v.(*value.Vector)
		return ok
	})
	typePredicate("value.is-buffer?", "Is the value a byte buffer?", func(v value.Value) bool {
		_, ok := v.(value.Buffer)
		return ok
	})
	typePredicate("value.is-hash-table?", "Is the value a hash table?", func(v value.Value) bool {
		_, ok := v.(*value.HashMap)
		return ok
	})
	typePredicate("value.is-token?", "Is the value a lexical token?", value.IsToken)
	typePredicate("value.is-code?", "Is the value a block of bytecode?", func(v value.Value) bool {
		_, ok := v.(*value.Code)
		return ok
	})
}
