package builtins

import (
	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerControlWords wires the immediate words that make up the surface
// control-flow syntax. None of these exist in the reference implementation
// as native handlers — its standard library defines them in Forth itself,
// over the same MarkLoopExit/MarkCatch/Jump*/JumpTarget primitives bytecode
// interpreter exposes, but that bootstrap script wasn't part of the
// retained source. These are authored directly against the bytecode ops
// instead, following the op semantics and the one worked example (`10 0 do
// i loop`) given for the interpreter.
func registerControlWords(m *interp.Machine) {
	defImmediate(m, "if", wordIf, "Begin a conditional.", " -- ")
	defImmediate(m, "else", wordElse, "Begin a conditional's else branch.", " -- ")
	defImmediate(m, "then", wordThen, "End a conditional.", " -- ")

	defImmediate(m, "begin", wordBegin, "Begin a loop.", " -- ")
	defImmediate(m, "until", wordUntil, "End a begin/until loop, looping while the test is false.", " -- ")
	defImmediate(m, "while", wordWhile, "Test a begin/while/repeat loop's continue condition.", " -- ")
	defImmediate(m, "repeat", wordRepeat, "End a begin/while/repeat loop.", " -- ")

	defImmediate(m, "do", wordDo, "Begin a counted loop over [start, limit).", "limit start -- ")
	defImmediate(m, "loop", wordLoop, "End a counted do loop.", " -- ")
	defImmediate(m, "leave", func(m *interp.Machine) error {
		return m.Comp.Emit(compiler.JumpLoopExit, nil)
	}, "Exit the innermost counted loop early.", " -- ")

	defImmediate(m, "[if]", wordBracketIf, "Conditionally compile the following tokens.", "flag -- ")
	defImmediate(m, "[else]", wordBracketElse, "Else branch of [if]; skipped when the true branch ran.", " -- ")
	defImmediate(m, "[then]", func(m *interp.Machine) error { return nil }, "End of an [if]/[else] block.", " -- ")

	defImmediate(m, "include", func(m *interp.Machine) error {
		return scriptError(m, "include is not supported by this host")
	}, "Load and compile another source file.", " -- ")
}

// --- if / else / then --------------------------------------------------

type ifFrame struct{ exit string }

func wordIf(m *interp.Machine) error {
	label, err := m.Comp.NextLabel("if.exit")
	if err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.JumpIfZero, value.StringValue(label)); err != nil {
		return err
	}
	m.Comp.PushMark(ifFrame{exit: label})
	return nil
}

func wordElse(m *interp.Machine) error {
	raw, err := m.Comp.PopMark()
	if err != nil {
		return scriptError(m, "'else' without a matching 'if'")
	}
	frame, ok := raw.(ifFrame)
	if !ok {
		return scriptError(m, "'else' without a matching 'if'")
	}

	endLabel, err := m.Comp.NextLabel("if.end")
	if err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.Jump, value.StringValue(endLabel)); err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.JumpTarget, value.StringValue(frame.exit)); err != nil {
		return err
	}
	m.Comp.PushMark(ifFrame{exit: endLabel})
	return nil
}

func wordThen(m *interp.Machine) error {
	raw, err := m.Comp.PopMark()
	if err != nil {
		return scriptError(m, "'then' without a matching 'if'")
	}
	frame, ok := raw.(ifFrame)
	if !ok {
		return scriptError(m, "'then' without a matching 'if'")
	}
	return m.Comp.Emit(compiler.JumpTarget, value.StringValue(frame.exit))
}

// --- begin / while / repeat / until -------------------------------------

type beginFrame struct{ start string }
type whileFrame struct{ start, exit string }

func wordBegin(m *interp.Machine) error {
	label, err := m.Comp.NextLabel("begin")
	if err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.JumpTarget, value.StringValue(label)); err != nil {
		return err
	}
	m.Comp.PushMark(beginFrame{start: label})
	return nil
}

func wordUntil(m *interp.Machine) error {
	raw, err := m.Comp.PopMark()
	if err != nil {
		return scriptError(m, "'until' without a matching 'begin'")
	}
	frame, ok := raw.(beginFrame)
	if !ok {
		return scriptError(m, "'until' without a matching 'begin'")
	}
	return m.Comp.Emit(compiler.JumpIfZero, value.StringValue(frame.start))
}

func wordWhile(m *interp.Machine) error {
	raw, err := m.Comp.PopMark()
	if err != nil {
		return scriptError(m, "'while' without a matching 'begin'")
	}
	begin, ok := raw.(beginFrame)
	if !ok {
		return scriptError(m, "'while' without a matching 'begin'")
	}
	exitLabel, err := m.Comp.NextLabel("repeat.exit")
	if err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.JumpIfZero, value.StringValue(exitLabel)); err != nil {
		return err
	}
	m.Comp.PushMark(whileFrame{start: begin.start, exit: exitLabel})
	return nil
}

func wordRepeat(m *interp.Machine) error {
	raw, err := m.Comp.PopMark()
	if err != nil {
		return scriptError(m, "'repeat' without a matching 'while'")
	}
	frame, ok := raw.(whileFrame)
	if !ok {
		return scriptError(m, "'repeat' without a matching 'while'")
	}
	if err := m.Comp.Emit(compiler.Jump, value.StringValue(frame.start)); err != nil {
		return err
	}
	return m.Comp.Emit(compiler.JumpTarget, value.StringValue(frame.exit))
}

// --- do / loop -----------------------------------------------------------

// doFrame remembers the pair of hidden runtime variables do allocates to
// hold the loop's current index and its limit, and the labels loop needs to
// close the construct: bodyLabel is where the per-iteration back-edge
// lands, exitLabel is where MarkLoopExit's recorded exit (and `leave`)
// lands.
type doFrame struct {
	idxName, limitName   string
	bodyLabel, exitLabel string
}

func wordDo(m *interp.Machine) error {
	idxName, err := m.Comp.NextLabel("%do.idx")
	if err != nil {
		return err
	}
	limitName, err := m.Comp.NextLabel("%do.limit")
	if err != nil {
		return err
	}
	bodyLabel, err := m.Comp.NextLabel("%do.body")
	if err != nil {
		return err
	}
	exitLabel, err := m.Comp.NextLabel("%do.exit")
	if err != nil {
		return err
	}

	if err := m.Comp.Emit(compiler.DefVariable, value.StringValue(idxName)); err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.DefVariable, value.StringValue(limitName)); err != nil {
		return err
	}

	// Runtime stack on entry: [..., limit, start]. Store start into idx,
	// then limit into limit.
	if err := emitExecute(m, idxName); err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.WriteVariable, nil); err != nil {
		return err
	}
	if err := emitExecute(m, limitName); err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.WriteVariable, nil); err != nil {
		return err
	}

	if err := m.Comp.Emit(compiler.MarkLoopExit, value.StringValue(exitLabel)); err != nil {
		return err
	}
	if err := m.Comp.Emit(compiler.JumpTarget, value.StringValue(bodyLabel)); err != nil {
		return err
	}

	m.MarkContext()
	defImmediate(m, "i", func(mm *interp.Machine) error {
		if err := emitExecute(mm, idxName); err != nil {
			return err
		}
		return mm.Comp.Emit(compiler.ReadVariable, nil)
	}, "Push the innermost do loop's current index.", " -- n")

	m.Comp.PushMark(doFrame{idxName: idxName, limitName: limitName, bodyLabel: bodyLabel, exitLabel: exitLabel})
	return nil
}

func wordLoop(m *interp.Machine) error {
	raw, err := m.Comp.PopMark()
	if err != nil {
		return scriptError(m, "'loop' without a matching 'do'")
	}
	frame, ok := raw.(doFrame)
	if !ok {
		return scriptError(m, "'loop' without a matching 'do'")
	}

	for _, step := range []func() error{
		func() error { return emitExecute(m, frame.idxName) },
		func() error { return m.Comp.Emit(compiler.ReadVariable, nil) },
		func() error { return m.Comp.Emit(compiler.PushConstantValue, value.IntValue(1)) },
		func() error { return emitExecute(m, "+") },
		func() error { return emitExecute(m, frame.idxName) },
		func() error { return m.Comp.Emit(compiler.WriteVariable, nil) },
		func() error { return emitExecute(m, frame.idxName) },
		func() error { return m.Comp.Emit(compiler.ReadVariable, nil) },
		func() error { return emitExecute(m, frame.limitName) },
		func() error { return m.Comp.Emit(compiler.ReadVariable, nil) },
		func() error { return emitExecute(m, "<") },
		func() error { return m.Comp.Emit(compiler.JumpIfNotZero, value.StringValue(frame.bodyLabel)) },
		func() error { return m.Comp.Emit(compiler.UnmarkLoopExit, nil) },
		func() error { return m.Comp.Emit(compiler.JumpTarget, value.StringValue(frame.exitLabel)) },
	} {
		if err := step(); err != nil {
			return err
		}
	}

	m.ReleaseContext()
	return nil
}

func emitExecute(m *interp.Machine, name string) error {
	return m.Comp.Emit(compiler.Execute, value.StringValue(name))
}

func codeReadVariable(name string) *compiler.Bytecode {
	code := compiler.NewBytecode()
	code.PushBack(compiler.Instruction{Op: compiler.Execute, Operand: value.StringValue(name)})
	code.PushBack(compiler.Instruction{Op: compiler.ReadVariable})
	return code
}

// --- [if] / [else] / [then] ---------------------------------------------

func wordBracketIf(m *interp.Machine) error {
	cond, err := m.PopBool()
	if err != nil {
		return err
	}
	if cond {
		return nil
	}
	return skipBracketBranch(m, true)
}

func wordBracketElse(m *interp.Machine) error {
	return skipBracketBranch(m, false)
}

// skipBracketBranch raw-skips tokens, without compiling or executing them,
// until a matching `[then]` — or, when stopAtElse, a sibling `[else]` —
// honoring nested `[if]`/`[then]` balance.
func skipBracketBranch(m *interp.Machine, stopAtElse bool) error {
	depth := 0
	for {
		tok, ok := m.Comp.NextToken()
		if !ok {
			return scriptError(m, "'[if]' without a matching '[then]'")
		}
		if tok.Kind != token.Word {
			continue
		}
		switch tok.Text {
		case "[if]":
			depth++
		case "[else]":
			if depth == 0 && stopAtElse {
				return nil
			}
		case "[then]":
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}
