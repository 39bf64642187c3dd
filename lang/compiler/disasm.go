package compiler

import (
	"fmt"
	"strings"

	"github.com/sorthlang/gosorth/lang/value"
)

// Text renders code as a disassembly listing, one instruction per line:
// "<index>: <op> <operand>", with a resolved jump additionally annotated
// with the absolute instruction index it lands on ("-> <index>"), since a
// relative offset on its own is awkward to eyeball in a listing. This is
// the format Bytecode.String/Disassemble produce, and so what `to_string`
// gives for a value.Code. The compiler golden-file tests do not use it;
// they diff a plain "<index> <op> <operand>" dump of their own.
//
// An unresolved jump (symbolic label operand, ResolveJumps not yet run)
// prints its label name instead of an arrow, same as Instruction.String.
func Text(code *Bytecode) string {
	var sb strings.Builder
	for i := 0; i < code.Len(); i++ {
		in := code.At(i)
		fmt.Fprintf(&sb, "%4d: %s", i, in)
		if target, ok := resolvedJumpTarget(in, i); ok {
			fmt.Fprintf(&sb, "  -> %d", target)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders b the way Text does. *Bytecode's CodeBlock.Disassemble
// forwards here too, so this is the single source of truth for the format.
func (b *Bytecode) String() string { return Text(b) }

func resolvedJumpTarget(in Instruction, at int) (int, bool) {
	if !in.Op.IsJump() || in.Op == JumpTarget {
		return 0, false
	}
	off, ok := in.Operand.(value.IntValue)
	if !ok {
		return 0, false
	}
	return at + int(off), true
}
