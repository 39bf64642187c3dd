// Package compiler turns a token stream into a flat bytecode program: a
// closed set of Op variants, each optionally carrying an operand Value,
// assembled by a Compiler that threads compile-time control structures
// through a stack of nested construction blocks.
package compiler

import "fmt"

// Op is the operation half of an Instruction. The set is closed: every
// control-flow word the dictionary can define ultimately lowers to some
// sequence of these eighteen operations, JumpTarget included.
type Op uint8

const (
	// DefVariable defines a variable in the current context. Its operand is
	// the variable's name.
	DefVariable Op = iota
	// DefConstant defines a constant in the current context from the value
	// on top of the data stack. Its operand is the constant's name.
	DefConstant
	// ReadVariable reads the variable whose integer index is on top of the
	// data stack.
	ReadVariable
	// WriteVariable writes the second stack value into the variable whose
	// integer index is on top of the data stack.
	WriteVariable
	// Execute runs a word named or indexed by its operand.
	Execute
	// PushConstantValue deep-clones its operand onto the data stack.
	PushConstantValue
	// MarkLoopExit marks the current instruction as a loop's entry and
	// records its operand as the relative offset to the loop's exit.
	MarkLoopExit
	// UnmarkLoopExit forgets the most recently marked loop.
	UnmarkLoopExit
	// MarkCatch records its operand as the relative offset to a catch
	// block's first instruction.
	MarkCatch
	// UnmarkCatch forgets the most recently marked catch block.
	UnmarkCatch
	// MarkContext opens a new interpreter context (word/variable scope).
	MarkContext
	// ReleaseContext closes the context opened by the matching MarkContext.
	ReleaseContext
	// Jump unconditionally jumps by its operand's relative offset.
	Jump
	// JumpIfZero jumps by its operand's relative offset if the popped
	// value is falsy.
	JumpIfZero
	// JumpIfNotZero jumps by its operand's relative offset if the popped
	// value is truthy.
	JumpIfNotZero
	// JumpLoopStart jumps to the start of the innermost marked loop.
	JumpLoopStart
	// JumpLoopExit jumps to the exit of the innermost marked loop.
	JumpLoopExit
	// JumpTarget is a no-op landing pad for a jump. During compilation its
	// operand holds the label's name; label resolution erases it.
	JumpTarget

	opCount
)

var opNames = [...]string{
	DefVariable:        "DefVariable",
	DefConstant:        "DefConstant",
	ReadVariable:       "ReadVariable",
	WriteVariable:      "WriteVariable",
	Execute:            "Execute",
	PushConstantValue:  "PushConstantValue",
	MarkLoopExit:       "MarkLoopExit",
	UnmarkLoopExit:     "UnmarkLoopExit",
	MarkCatch:          "MarkCatch",
	UnmarkCatch:        "UnmarkCatch",
	MarkContext:        "MarkContext",
	ReleaseContext:     "ReleaseContext",
	Jump:               "Jump",
	JumpIfZero:         "JumpIfZero",
	JumpIfNotZero:      "JumpIfNotZero",
	JumpLoopStart:      "JumpLoopStart",
	JumpLoopExit:       "JumpLoopExit",
	JumpTarget:         "JumpTarget",
}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("<invalid op %d>", op)
}

// HasOperand reports whether op carries a meaningful operand Value.
// Instructions without one (UnmarkLoopExit, UnmarkCatch, MarkContext,
// ReleaseContext, JumpLoopStart, JumpLoopExit) leave their operand field at
// its zero value.
func (op Op) HasOperand() bool {
	switch op {
	case UnmarkLoopExit, UnmarkCatch, MarkContext, ReleaseContext, JumpLoopStart, JumpLoopExit:
		return false
	default:
		return true
	}
}

// IsJump reports whether op's operand, while still unresolved, holds a
// symbolic label name rather than an ordinary value.
func (op Op) IsJump() bool {
	switch op {
	case MarkLoopExit, MarkCatch, Jump, JumpIfZero, JumpIfNotZero, JumpTarget:
		return true
	default:
		return false
	}
}
