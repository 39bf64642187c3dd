package builtins

import (
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerStackWords wires the stack-shuffling words. pick/roll count their
// index from the top of the stack (`0 pick` duplicates the top), the
// Forth-compatible convention the recorded Open Question decision chose
// over indexing from the bottom.
func registerStackWords(m *interp.Machine) {
	def(m, "dup", func(m *interp.Machine) error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		if err := m.Push(v); err != nil {
			return err
		}
		return m.Push(value.DeepClone(v))
	}, "Duplicate the top value.", "value -- value value")

	def(m, "drop", func(m *interp.Machine) error {
		_, err := m.Pop()
		return err
	}, "Discard the top value.", "value -- ")

	def(m, "swap", func(m *interp.Machine) error {
		a, err := m.Pop()
		if err != nil {
			return err
		}
		b, err := m.Pop()
		if err != nil {
			return err
		}
		if err := m.Push(a); err != nil {
			return err
		}
		return m.Push(b)
	}, "Swap the top 2 values.", "a b -- b a")

	def(m, "over", func(m *interp.Machine) error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			return err
		}
		if err := m.Push(a); err != nil {
			return err
		}
		if err := m.Push(b); err != nil {
			return err
		}
		return m.Push(value.DeepClone(a))
	}, "Copy the second value onto the top.", "a b -- a b a")

	def(m, "rot", func(m *interp.Machine) error {
		c, err := m.Pop()
		if err != nil {
			return err
		}
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			return err
		}
		if err := m.Push(b); err != nil {
			return err
		}
		if err := m.Push(c); err != nil {
			return err
		}
		return m.Push(a)
	}, "Rotate the top 3 values.", "a b c -- b c a")

	def(m, "depth", func(m *interp.Machine) error { return m.Push(value.IntValue(m.StackDepth())) },
		"Depth of the data stack.", "-- depth")
	alias(m, "depth", "stack.depth")

	def(m, "pick", func(m *interp.Machine) error {
		idx, err := m.PopInt()
		if err != nil {
			return err
		}
		depth := m.StackDepth()
		if idx < 0 || int(idx) >= depth {
			return scriptError(m, "index %d out of range of stack size %d", idx, depth)
		}
		v, err := m.StackAt(depth - 1 - int(idx))
		if err != nil {
			return err
		}
		return m.Push(value.DeepClone(v))
	}, "Copy the value n items down onto the top.", "n -- value")

	def(m, "roll", func(m *interp.Machine) error {
		idx, err := m.PopInt()
		if err != nil {
			return err
		}
		depth := m.StackDepth()
		if idx < 0 || int(idx) >= depth {
			return scriptError(m, "index %d out of range of stack size %d", idx, depth)
		}

		above := make([]value.Value, idx)
		for i := range above {
			v, err := m.Pop()
			if err != nil {
				return err
			}
			above[i] = v
		}
		moved, err := m.Pop()
		if err != nil {
			return err
		}
		for i := len(above) - 1; i >= 0; i-- {
			if err := m.Push(above[i]); err != nil {
				return err
			}
		}
		return m.Push(moved)
	}, "Move the value n items down onto the top.", "n -- value")
}
