package value

// CodeBlock is the minimal capability a compiled bytecode block must expose
// to be carried as a first-class Code value. It is declared here,
// rather than importing the compiler package's concrete Bytecode type, to
// keep lang/value free of a dependency on lang/compiler: the compiler
// package depends on lang/value (every PushConstantValue operand is a
// Value), so the reverse dependency would create an import cycle. Go
// interfaces satisfy this structurally: *compiler.Bytecode implements
// CodeBlock without lang/compiler ever importing lang/value.Code by name.
type CodeBlock interface {
	// Disassemble renders the block as a human-readable listing, used by
	// Code.String (and so by `to_string`).
	Disassemble() string
	// Len returns the number of instructions in the block.
	Len() int
	// Clone returns a structurally-independent copy of the block, used by
	// DeepClone.
	Clone() CodeBlock
	// Equal reports whether other holds an identical instruction sequence.
	Equal(other CodeBlock) bool
}

// Code is a bytecode block carried as a first-class value.
type Code struct {
	Block CodeBlock
}

func (*Code) Type() string { return "code" }
func (*Code) sealed()      {}

func NewCode(block CodeBlock) *Code { return &Code{Block: block} }

func (c *Code) String() string {
	if c.Block == nil {
		return "<empty code>"
	}
	return c.Block.Disassemble()
}

func (c *Code) equal(other *Code) bool {
	if c.Block == nil || other.Block == nil {
		return c.Block == other.Block
	}
	return c.Block.Equal(other.Block)
}

func (c *Code) deepClone() *Code {
	if c.Block == nil {
		return &Code{}
	}
	return &Code{Block: c.Block.Clone()}
}
