package compiler

import (
	"fmt"

	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// InsertionLocation controls where PushInstruction lands a new instruction
// in the current block.
type InsertionLocation uint8

const (
	// AtEnd appends, the default for ordinary compilation.
	AtEnd InsertionLocation = iota
	// AtTop prepends, used by immediate words that need to run their
	// instructions ahead of whatever the block already holds.
	AtTop
)

// Construction is one entry on the compiler's construction stack: the
// in-progress word or script body being built, plus the word metadata
// `:`/`immediate`/`hidden`/`contextless`/`description:`/`signature:` fill in
// as they run.
type Construction struct {
	Name        string
	Loc         token.Location
	Description string
	Signature   string
	Runtime     dictionary.Runtime
	Visibility  dictionary.Visibility
	Context     dictionary.ContextMode
	Code        *Bytecode

	labelSeq int
}

func newConstruction() *Construction {
	return &Construction{Visibility: dictionary.Visible, Code: NewBytecode()}
}

// Compiler holds the state of a single compilation unit: the token cursor
// over its source, and a stack of Construction blocks. The bottom block is
// the unit's own top-level code (a script body, or the outermost level of a
// word definition); deeper blocks are pushed and merged by control-flow
// words while they assemble a nested branch or loop body.
type Compiler struct {
	tokens []token.Token
	pos    int

	stack     []*Construction
	insertion InsertionLocation
	marks     []any
}

// New returns a Compiler over tokens with a single top-level Construction on
// its stack.
func New(tokens []token.Token) *Compiler {
	return &Compiler{tokens: tokens, stack: []*Construction{newConstruction()}}
}

// NextToken returns the next token in the stream and advances the cursor.
// ok is false once the stream is exhausted.
func (c *Compiler) NextToken() (token.Token, bool) {
	if c.pos >= len(c.tokens) {
		return token.Token{}, false
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, true
}

// AtEOF reports whether the token cursor has been exhausted.
func (c *Compiler) AtEOF() bool { return c.pos >= len(c.tokens) }

// Top returns the construction stack's top entry.
func (c *Compiler) Top() (*Construction, error) {
	if len(c.stack) == 0 {
		return nil, fmt.Errorf("compiler: construction stack is empty")
	}
	return c.stack[len(c.stack)-1], nil
}

// SetInsertion sets where PushInstruction lands new instructions.
func (c *Compiler) SetInsertion(loc InsertionLocation) { c.insertion = loc }

// PushInstruction inserts in into the current construction's code, honoring
// the compiler's insertion location.
func (c *Compiler) PushInstruction(in Instruction) error {
	top, err := c.Top()
	if err != nil {
		return err
	}
	if c.insertion == AtTop {
		top.Code.PushFront(in)
	} else {
		top.Code.PushBack(in)
	}
	return nil
}

// Emit is a PushInstruction convenience for ops synthesized by a native
// word rather than compiled from a token: it carries no source location.
func (c *Compiler) Emit(op Op, operand value.Value) error {
	return c.PushInstruction(Instruction{Op: op, Operand: operand})
}

// NewBlock pushes a fresh, empty Construction onto the stack.
func (c *Compiler) NewBlock() {
	c.stack = append(c.stack, newConstruction())
}

// PushBlock pushes a Construction wrapping an existing code block onto the
// stack, the inverse of PopBlock.
func (c *Compiler) PushBlock(code *Bytecode) {
	cons := newConstruction()
	cons.Code = code
	c.stack = append(c.stack, cons)
}

// PopBlock pops and returns the top Construction.
func (c *Compiler) PopBlock() (*Construction, error) {
	if len(c.stack) == 0 {
		return nil, fmt.Errorf("compiler: construction stack is empty")
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return top, nil
}

// MergeBlock pops the top block and appends its code onto the one beneath
// it, used when a nested block (e.g. an if-branch) has finished compiling
// and its instructions belong inline in the enclosing code.
func (c *Compiler) MergeBlock() error {
	top, err := c.PopBlock()
	if err != nil {
		return err
	}
	under, err := c.Top()
	if err != nil {
		return err
	}
	under.Code.Extend(top.Code)
	return nil
}

// BlockSize returns the instruction count of the top block.
func (c *Compiler) BlockSize() (int, error) {
	top, err := c.Top()
	if err != nil {
		return 0, err
	}
	return top.Code.Len(), nil
}

// NextLabel returns a fresh symbolic jump-label name scoped to the current
// construction, for immediate words (if/while/do) that need to emit more
// than one distinct label while compiling a single body.
func (c *Compiler) NextLabel(prefix string) (string, error) {
	top, err := c.Top()
	if err != nil {
		return "", err
	}
	top.labelSeq++
	return fmt.Sprintf("%s.%d", prefix, top.labelSeq), nil
}

// PushMark and PopMark let an immediate word stash compile-time bookkeeping
// (e.g. an if/else pending-label pair, or a loop's start/exit labels)
// across the separate calls that compile its opening and closing words.
// They are a side stack, independent of the construction stack, so nested
// if/while/do structures can each push and pop their own frame without
// colliding.
func (c *Compiler) PushMark(v any) { c.marks = append(c.marks, v) }

// PopMark pops the most recently pushed mark. It is an error to pop when
// empty, the compile-time equivalent of an unbalanced if/then or begin/until.
func (c *Compiler) PopMark() (any, error) {
	if len(c.marks) == 0 {
		return nil, fmt.Errorf("compiler: mark stack is empty")
	}
	top := c.marks[len(c.marks)-1]
	c.marks = c.marks[:len(c.marks)-1]
	return top, nil
}

// ResolveJumps rewrites every symbolic jump-label operand in the top
// block's code into a signed relative offset, and erases resolved
// JumpTarget operands to None. It is an error for a label to be used and
// never defined, or defined more than once.
func (c *Compiler) ResolveJumps() error {
	top, err := c.Top()
	if err != nil {
		return err
	}
	return resolveJumps(top.Code)
}

func resolveJumps(code *Bytecode) error {
	targets := make(map[string]int)
	for i := 0; i < code.Len(); i++ {
		in := code.At(i)
		if in.Op != JumpTarget {
			continue
		}
		name, err := labelName(in.Operand)
		if err != nil {
			return err
		}
		if _, exists := targets[name]; exists {
			return fmt.Errorf("compiler: jump label %q defined more than once", name)
		}
		targets[name] = i
	}

	for i := 0; i < code.Len(); i++ {
		in := code.At(i)
		if !in.Op.IsJump() {
			continue
		}
		name, err := labelName(in.Operand)
		if err != nil {
			return err
		}
		if in.Op == JumpTarget {
			code.Set(i, Instruction{Loc: in.Loc, Op: JumpTarget, Operand: value.None})
			continue
		}
		target, ok := targets[name]
		if !ok {
			return fmt.Errorf("compiler: unresolved jump label %q", name)
		}
		code.Set(i, Instruction{Loc: in.Loc, Op: in.Op, Operand: value.IntValue(target - i)})
	}

	return nil
}

func labelName(operand value.Value) (string, error) {
	if operand == nil {
		return "", fmt.Errorf("compiler: jump instruction missing its label operand")
	}
	if s, ok := operand.(value.StringValue); ok {
		return string(s), nil
	}
	return "", fmt.Errorf("compiler: jump label operand must be a string, got %s", operand.Type())
}
