package builtins

import (
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerCompareWords wires the equality/ordering words. The reference
// implementation puns classical Forth's -1/0 integer booleans; this port
// pushes a real value.Bool instead, since Bool is a first-class variant
// here rather than something that must be faked with integers (see the
// recorded Open Question decision on "<>").
func registerCompareWords(m *interp.Machine) {
	def(m, "=", eq(false), "Are 2 values equal?", "a b -- bool")
	def(m, "<>", eq(true), "Are 2 values not equal?", "a b -- bool")
	def(m, ">=", order(func(c int) bool { return c >= 0 }), "a >= b?", "a b -- bool")
	def(m, "<=", order(func(c int) bool { return c <= 0 }), "a <= b?", "a b -- bool")
	def(m, ">", order(func(c int) bool { return c > 0 }), "a > b?", "a b -- bool")
	def(m, "<", order(func(c int) bool { return c < 0 }), "a < b?", "a b -- bool")

	def(m, "0=", func(m *interp.Machine) error {
		a, err := m.PopInt()
		if err != nil {
			return err
		}
		return m.Push(value.BoolValue(a == 0))
	}, "Is n zero?", "n -- bool")

	def(m, "true", func(m *interp.Machine) error { return m.Push(value.BoolValue(true)) }, "Push true.", "-- bool")
	def(m, "false", func(m *interp.Machine) error { return m.Push(value.BoolValue(false)) }, "Push false.", "-- bool")
	def(m, "none", func(m *interp.Machine) error { return m.Push(value.None) }, "Push none.", "-- none")
}

// eq builds the `=`/`<>` handler: equality uses value.Equal directly, which
// supports container types value.Compare can't order.
func eq(negate bool) interp.Handler {
	return func(m *interp.Machine) error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			return err
		}
		result := value.Equal(a, b)
		if negate {
			result = !result
		}
		return m.Push(value.BoolValue(result))
	}
}

// order builds an ordering handler (`<`, `<=`, `>`, `>=`) from value.Compare.
func order(test func(c int) bool) interp.Handler {
	return func(m *interp.Machine) error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			return err
		}
		c, err := value.Compare(a, b)
		if err != nil {
			return err
		}
		return m.Push(value.BoolValue(test(c)))
	}
}
