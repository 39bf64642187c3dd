package builtins

import (
	"math/big"

	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

// mathOp pops b then a and applies fop/iop depending on whether either
// operand is a float, the same int-unless-either-is-float promotion rule
// the arithmetic words use throughout.
func mathOp(m *interp.Machine, fop func(a, b float64) float64, iop func(a, b int64) int64) error {
	b, err := m.Pop()
	if err != nil {
		return err
	}
	a, err := m.Pop()
	if err != nil {
		return err
	}

	if value.IsFloat(a) || value.IsFloat(b) {
		af, err := value.ToFloat(a)
		if err != nil {
			return err
		}
		bf, err := value.ToFloat(b)
		if err != nil {
			return err
		}
		return m.Push(value.FloatValue(fop(af, bf)))
	}

	ai, err := value.ToInt(a)
	if err != nil {
		return err
	}
	bi, err := value.ToInt(b)
	if err != nil {
		return err
	}
	return m.Push(value.IntValue(iop(ai, bi)))
}

// divOp is mathOp's variant for the division-shaped words, which must
// reject a zero divisor instead of letting a Go integer division panic
// take the process down.
func divOp(m *interp.Machine, fop func(a, b float64) float64, iop func(a, b int64) int64) error {
	b, err := m.Pop()
	if err != nil {
		return err
	}
	a, err := m.Pop()
	if err != nil {
		return err
	}

	if value.IsFloat(a) || value.IsFloat(b) {
		af, err := value.ToFloat(a)
		if err != nil {
			return err
		}
		bf, err := value.ToFloat(b)
		if err != nil {
			return err
		}
		if bf == 0 {
			return scriptError(m, "division by zero")
		}
		return m.Push(value.FloatValue(fop(af, bf)))
	}

	ai, err := value.ToInt(a)
	if err != nil {
		return err
	}
	bi, err := value.ToInt(b)
	if err != nil {
		return err
	}
	if bi == 0 {
		return scriptError(m, "division by zero")
	}
	return m.Push(value.IntValue(iop(ai, bi)))
}

// stringOrNumericOp is add's variant: a string operand (or a word-token,
// which coerces to its text) concatenates instead of adding numerically.
func stringOrNumericOp(
	m *interp.Machine,
	sop func(a, b string) string,
	fop func(a, b float64) float64,
	iop func(a, b int64) int64,
) error {
	b, err := m.Pop()
	if err != nil {
		return err
	}
	a, err := m.Pop()
	if err != nil {
		return err
	}

	if value.IsString(a) || value.IsString(b) {
		as, err := value.ToStringVal(a)
		if err != nil {
			return err
		}
		bs, err := value.ToStringVal(b)
		if err != nil {
			return err
		}
		return m.Push(value.StringValue(sop(as, bs)))
	}

	if err := m.Push(a); err != nil {
		return err
	}
	if err := m.Push(b); err != nil {
		return err
	}
	return mathOp(m, fop, iop)
}

func logicBitOp(m *interp.Machine, bop func(a, b int64) int64) error {
	b, err := m.Pop()
	if err != nil {
		return err
	}
	a, err := m.Pop()
	if err != nil {
		return err
	}
	ai, err := value.ToInt(a)
	if err != nil {
		return err
	}
	bi, err := value.ToInt(b)
	if err != nil {
		return err
	}
	return m.Push(value.IntValue(bop(ai, bi)))
}

func registerArithmeticWords(m *interp.Machine) {
	def(m, "+", func(m *interp.Machine) error {
		return stringOrNumericOp(m,
			func(a, b string) string { return a + b },
			func(a, b float64) float64 { return a + b },
			func(a, b int64) int64 { return a + b })
	}, "Add 2 numbers, or concatenate 2 strings.", "a b -- result")

	def(m, "-", func(m *interp.Machine) error {
		return mathOp(m, func(a, b float64) float64 { return a - b }, func(a, b int64) int64 { return a - b })
	}, "Subtract 2 numbers.", "a b -- result")

	def(m, "*", func(m *interp.Machine) error {
		return mathOp(m, func(a, b float64) float64 { return a * b }, func(a, b int64) int64 { return a * b })
	}, "Multiply 2 numbers.", "a b -- result")

	def(m, "/", func(m *interp.Machine) error {
		return divOp(m, func(a, b float64) float64 { return a / b }, func(a, b int64) int64 { return a / b })
	}, "Divide 2 numbers.", "a b -- result")

	def(m, "mod", func(m *interp.Machine) error {
		return divOp(m, func(a, b float64) float64 { return mathMod(a, b) }, func(a, b int64) int64 { return a % b })
	}, "Mod 2 numbers.", "a b -- result")
	alias(m, "mod", "%")

	def(m, "/mod", func(m *interp.Machine) error {
		b, err := m.PopInt()
		if err != nil {
			return err
		}
		a, err := m.PopInt()
		if err != nil {
			return err
		}
		if b == 0 {
			return scriptError(m, "division by zero")
		}
		if err := m.Push(value.IntValue(a % b)); err != nil {
			return err
		}
		return m.Push(value.IntValue(a / b))
	}, "Divide, pushing remainder then quotient.", "a b -- remainder quotient")

	def(m, "*/", func(m *interp.Machine) error {
		c, err := m.PopInt()
		if err != nil {
			return err
		}
		b, err := m.PopInt()
		if err != nil {
			return err
		}
		a, err := m.PopInt()
		if err != nil {
			return err
		}
		if c == 0 {
			return scriptError(m, "division by zero")
		}
		product := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
		quotient := product.Quo(product, big.NewInt(c))
		if !quotient.IsInt64() {
			return scriptError(m, "*/ result out of range")
		}
		return m.Push(value.IntValue(quotient.Int64()))
	}, "Multiply then divide, keeping full intermediate precision.", "a b c -- a*b/c")

	def(m, "*/mod", func(m *interp.Machine) error {
		c, err := m.PopInt()
		if err != nil {
			return err
		}
		b, err := m.PopInt()
		if err != nil {
			return err
		}
		a, err := m.PopInt()
		if err != nil {
			return err
		}
		if c == 0 {
			return scriptError(m, "division by zero")
		}
		product := a * b
		if err := m.Push(value.IntValue(product % c)); err != nil {
			return err
		}
		return m.Push(value.IntValue(product / c))
	}, "Multiply then divide, pushing remainder then quotient.", "a b c -- remainder quotient")

	def(m, "1+", unaryInt(func(a int64) int64 { return a + 1 }), "Increment.", "n -- n+1")
	def(m, "1-", unaryInt(func(a int64) int64 { return a - 1 }), "Decrement.", "n -- n-1")
	def(m, "2*", unaryInt(func(a int64) int64 { return a * 2 }), "Double.", "n -- 2*n")
	def(m, "2/", unaryInt(func(a int64) int64 { return a / 2 }), "Halve.", "n -- n/2")

	def(m, "negate", func(m *interp.Machine) error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		if value.IsFloat(v) {
			f, _ := value.ToFloat(v)
			return m.Push(value.FloatValue(-f))
		}
		i, err := value.ToInt(v)
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(-i))
	}, "Negate a number.", "n -- -n")

	def(m, "abs", func(m *interp.Machine) error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		if value.IsFloat(v) {
			f, _ := value.ToFloat(v)
			if f < 0 {
				f = -f
			}
			return m.Push(value.FloatValue(f))
		}
		i, err := value.ToInt(v)
		if err != nil {
			return err
		}
		if i < 0 {
			i = -i
		}
		return m.Push(value.IntValue(i))
	}, "Absolute value.", "n -- |n|")

	def(m, "&&", func(m *interp.Machine) error { return logicOp(m, func(a, b bool) bool { return a && b }) },
		"Logically AND 2 booleans.", "a b -- bool")
	def(m, "||", func(m *interp.Machine) error { return logicOp(m, func(a, b bool) bool { return a || b }) },
		"Logically OR 2 booleans.", "a b -- bool")
	def(m, "'", func(m *interp.Machine) error {
		a, err := m.PopBool()
		if err != nil {
			return err
		}
		return m.Push(value.BoolValue(!a))
	}, "Logically invert a boolean.", "bool -- bool")

	def(m, "&", func(m *interp.Machine) error { return logicBitOp(m, func(a, b int64) int64 { return a & b }) },
		"Bitwise AND.", "a b -- result")
	def(m, "|", func(m *interp.Machine) error { return logicBitOp(m, func(a, b int64) int64 { return a | b }) },
		"Bitwise OR.", "a b -- result")
	def(m, "^", func(m *interp.Machine) error { return logicBitOp(m, func(a, b int64) int64 { return a ^ b }) },
		"Bitwise XOR.", "a b -- result")
	def(m, "~", func(m *interp.Machine) error {
		a, err := m.PopInt()
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(^a))
	}, "Bitwise NOT.", "n -- ~n")
	alias(m, "~", "invert")
	alias(m, "&", "and")
	alias(m, "|", "or")
	alias(m, "^", "xor")

	def(m, "<<", func(m *interp.Machine) error { return logicBitOp(m, func(a, b int64) int64 { return a << uint(b) }) },
		"Shift left.", "value amount -- result")
	def(m, ">>", func(m *interp.Machine) error { return logicBitOp(m, func(a, b int64) int64 { return a >> uint(b) }) },
		"Shift right.", "value amount -- result")
}

func mathMod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}

func unaryInt(fn func(int64) int64) interp.Handler {
	return func(m *interp.Machine) error {
		a, err := m.PopInt()
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(fn(a)))
	}
}

func logicOp(m *interp.Machine, bop func(a, b bool) bool) error {
	b, err := m.PopBool()
	if err != nil {
		return err
	}
	a, err := m.PopBool()
	if err != nil {
		return err
	}
	return m.Push(value.BoolValue(bop(a, b)))
}
