package builtins

import (
	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerBytecodeWords wires the byte-code generation family, grounded on
// bytecode_words.rs: one op.* word per compiler.Op that inserts a single
// instruction into whatever block is on top of the compiler's construction
// stack, plus the code.* words that manage that stack directly. These are
// ordinary (non-immediate) words: they only do anything useful when called
// from within another word that is itself running at compile time, exactly
// as in the reference.
func registerBytecodeWords(m *interp.Machine) {
	insertOp := func(name string, op compiler.Op, withOperand bool, description, signature string) {
		def(m, name, func(m *interp.Machine) error {
			var operand value.Value
			if withOperand {
				v, err := m.Pop()
				if err != nil {
					return err
				}
				operand = v
			}
			return m.Comp.PushInstruction(compiler.Instruction{Op: op, Operand: operand})
		}, description, signature)
	}

	const insertDesc = "Insert this instruction into the byte stream."

	insertOp("op.def_variable", compiler.DefVariable, true, insertDesc, "new-name -- ")
	insertOp("op.def_constant", compiler.DefConstant, true, insertDesc, "new-name -- ")
	insertOp("op.read_variable", compiler.ReadVariable, false, insertDesc, " -- ")
	insertOp("op.write_variable", compiler.WriteVariable, false, insertDesc, " -- ")
	insertOp("op.execute", compiler.Execute, true, insertDesc, "index -- ")
	insertOp("op.push_constant_value", compiler.PushConstantValue, true, insertDesc, "value -- ")
	insertOp("op.mark_loop_exit", compiler.MarkLoopExit, true, insertDesc, "identifier -- ")
	insertOp("op.unmark_loop_exit", compiler.UnmarkLoopExit, false, insertDesc, " -- ")
	insertOp("op.mark_catch", compiler.MarkCatch, true, insertDesc, "identifier -- ")
	insertOp("op.unmark_catch", compiler.UnmarkCatch, false, insertDesc, " -- ")
	insertOp("op.jump", compiler.Jump, true, insertDesc, "identifier -- ")
	insertOp("op.jump_if_zero", compiler.JumpIfZero, true, insertDesc, "identifier -- ")
	insertOp("op.jump_if_not_zero", compiler.JumpIfNotZero, true, insertDesc, "identifier -- ")
	insertOp("op.jump_loop_start", compiler.JumpLoopStart, false, insertDesc, " -- ")
	insertOp("op.jump_loop_exit", compiler.JumpLoopExit, false, insertDesc, " -- ")
	insertOp("op.jump_target", compiler.JumpTarget, true, insertDesc, "identifier -- ")

	def(m, "code.new_block", func(m *interp.Machine) error {
		m.Comp.NewBlock()
		return nil
	}, "Create a new sub-block on the code generation stack.", " -- ")

	def(m, "code.merge_stack_block", func(m *interp.Machine) error {
		return m.Comp.MergeBlock()
	}, "Merge the top code block into the one below.", " -- ")

	def(m, "code.pop_stack_block", func(m *interp.Machine) error {
		top, err := m.Comp.PopBlock()
		if err != nil {
			return err
		}
		return m.Push(value.NewCode(top.Code))
	}, "Pop a code block off of the code stack and onto the data stack.", " -- code-block")

	def(m, "code.push_stack_block", func(m *interp.Machine) error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		cv, ok := v.(*value.Code)
		if !ok {
			return scriptError(m, "expected a code block, got %s", v.Type())
		}
		bc, ok := cv.Block.(*compiler.Bytecode)
		if !ok {
			return scriptError(m, "code block is not a compiler byte-code block")
		}
		m.Comp.PushBlock(bc)
		return nil
	}, "Pop a block from the data stack and back onto the code stack.", "code-block -- ")

	def(m, "code.stack_block_size@", func(m *interp.Machine) error {
		size, err := m.Comp.BlockSize()
		if err != nil {
			return err
		}
		return m.Push(value.IntValue(int64(size)))
	}, "Read the size of the code block at the top of the stack.", " -- code-size")

	def(m, "code.resolve_jumps", func(m *interp.Machine) error {
		return m.Comp.ResolveJumps()
	}, "Resolve all of the jumps in the top code block.", " -- ")

	def(m, "code.insert_at_front", func(m *interp.Machine) error {
		atFront, err := m.PopBool()
		if err != nil {
			return err
		}
		if atFront {
			m.Comp.SetInsertion(compiler.AtTop)
		} else {
			m.Comp.SetInsertion(compiler.AtEnd)
		}
		return nil
	}, "When true new instructions are added to the beginning of the block.", "bool -- ")

	def(m, "code.compile_until_words", func(m *interp.Machine) error {
		count, err := m.PopInt()
		if err != nil {
			return err
		}
		words := make([]string, count)
		for i := int64(0); i < count; i++ {
			w, err := popString(m)
			if err != nil {
				return err
			}
			words[i] = w
		}

		found, err := m.CompileUntilWords(words...)
		if err != nil {
			return scriptError(m, "%s", err)
		}
		return m.Push(value.StringValue(found))
	}, "Compile tokens until one of the given words is found, and return it.", "words .. word-count -- found-word")

	def(m, "code.execute_source", func(m *interp.Machine) error {
		source, err := popString(m)
		if err != nil {
			return err
		}
		return m.Eval("<repl>", []byte(source))
	}, "Interpret and execute a string as if it were source code.", "source -- ")
}
