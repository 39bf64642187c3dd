package compiler

import (
	"fmt"

	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// Instruction pairs an Op with its operand and the source location it was
// generated from. Instructions synthesized by a native word (rather than
// compiled directly from a token) carry a zero Location.
type Instruction struct {
	Loc     token.Location
	Op      Op
	Operand value.Value
}

// NewInstruction builds an Instruction at a known source location.
func NewInstruction(loc token.Location, op Op, operand value.Value) Instruction {
	return Instruction{Loc: loc, Op: op, Operand: operand}
}

func (in Instruction) equal(other Instruction) bool {
	if in.Op != other.Op {
		return false
	}
	if !in.Op.HasOperand() {
		return true
	}
	if in.Operand == nil || other.Operand == nil {
		return in.Operand == other.Operand
	}
	return value.Equal(in.Operand, other.Operand)
}

func (in Instruction) clone() Instruction {
	out := in
	if in.Operand != nil {
		out.Operand = value.DeepClone(in.Operand)
	}
	return out
}

// String renders the instruction the way the disassembler does, without its
// index column.
func (in Instruction) String() string {
	if !in.Op.HasOperand() {
		return in.Op.String()
	}

	operand := ""
	switch {
	case in.Op == JumpTarget && (in.Operand == nil || value.IsNone(in.Operand)):
		// A resolved JumpTarget carries no operand worth printing.
	case in.Operand == nil:
	case value.IsString(in.Operand):
		operand = fmt.Sprintf("%q", in.Operand.String())
	default:
		operand = in.Operand.String()
	}

	return fmt.Sprintf("%-18s %s", in.Op.String(), operand)
}

// Bytecode is a double-ended sequence of instructions: the unit of
// compilation for a single word body or top-level script, and the concrete
// type behind every value.Code.
type Bytecode struct {
	instructions []Instruction
}

// NewBytecode returns an empty block.
func NewBytecode() *Bytecode { return &Bytecode{} }

// Len returns the number of instructions in the block.
func (b *Bytecode) Len() int { return len(b.instructions) }

// At returns the instruction at index i.
func (b *Bytecode) At(i int) Instruction { return b.instructions[i] }

// Set overwrites the instruction at index i.
func (b *Bytecode) Set(i int, in Instruction) { b.instructions[i] = in }

// PushBack appends an instruction to the end of the block.
func (b *Bytecode) PushBack(in Instruction) { b.instructions = append(b.instructions, in) }

// PushFront prepends an instruction to the beginning of the block.
func (b *Bytecode) PushFront(in Instruction) {
	b.instructions = append(b.instructions, Instruction{})
	copy(b.instructions[1:], b.instructions)
	b.instructions[0] = in
}

// Extend appends another block's instructions to the end of this one,
// leaving other unmodified.
func (b *Bytecode) Extend(other *Bytecode) {
	b.instructions = append(b.instructions, other.instructions...)
}

// Disassemble renders the block one instruction per line, "<index>: <op>
// <operand>", the listing `to_string` gives for a value.Code. See
// disasm.go's Text for the full format, including resolved jump targets.
func (b *Bytecode) Disassemble() string { return Text(b) }

// Clone returns a structurally independent copy of the block, deep-cloning
// every instruction's operand.
func (b *Bytecode) Clone() value.CodeBlock {
	out := &Bytecode{instructions: make([]Instruction, len(b.instructions))}
	for i, in := range b.instructions {
		out.instructions[i] = in.clone()
	}
	return out
}

// Equal reports whether other is a *Bytecode holding the same instruction
// sequence, operand values included.
func (b *Bytecode) Equal(other value.CodeBlock) bool {
	o, ok := other.(*Bytecode)
	if !ok || len(b.instructions) != len(o.instructions) {
		return false
	}
	for i, in := range b.instructions {
		if !in.equal(o.instructions[i]) {
			return false
		}
	}
	return true
}

var _ value.CodeBlock = (*Bytecode)(nil)
