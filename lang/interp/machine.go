// Package interp implements the bytecode interpreter: the data stack,
// the contextual containers it shares lockstep scoping with, the handler
// table a word's dictionary entry resolves against, and the fetch-execute
// loop that runs a Bytecode block to completion.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/contextual"
	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// Options configures a Machine: resource limits and the I/O streams native
// words like `.s`/`.w`/`.#` write to.
type Options struct {
	MaxSteps          int
	MaxCallDepth      int
	MaxDataStackDepth int
	Stdout            io.Writer
	Stderr            io.Writer
	Stdin             io.Reader
}

// Option mutates an Options during construction.
type Option func(*Options)

func WithMaxSteps(n int) Option          { return func(o *Options) { o.MaxSteps = n } }
func WithMaxCallDepth(n int) Option      { return func(o *Options) { o.MaxCallDepth = n } }
func WithMaxDataStackDepth(n int) Option { return func(o *Options) { o.MaxDataStackDepth = n } }
func WithStdout(w io.Writer) Option      { return func(o *Options) { o.Stdout = w } }
func WithStderr(w io.Writer) Option      { return func(o *Options) { o.Stderr = w } }
func WithStdin(r io.Reader) Option       { return func(o *Options) { o.Stdin = r } }

// Machine is one interpreter instance: its data stack, the contextual
// containers (variables, dictionary, handler table, structure
// definitions) that MarkContext/ReleaseContext open and close in
// lockstep, and the call stack ExecuteCode maintains across nested word
// invocations.
type Machine struct {
	Options

	Dictionary  *dictionary.Dictionary
	Handlers    *contextual.List[HandlerInfo]
	Variables   *contextual.List[value.Value]
	Definitions *contextual.List[*value.DataObjectDefinition]

	// Comp is the active compiler for the compilation unit currently being
	// processed, if any. Immediate words reach it through the machine to
	// read further tokens or push/pop construction blocks. It is nil once
	// compilation of the current unit has finished.
	Comp *compiler.Compiler

	stack      []value.Value
	callStack  []CallFrame
	currentLoc token.Location
	steps      int
}

// New returns a Machine with a fresh root context on every contextual
// container, ready for native words to be registered into its bottom
// scope.
func New(opts ...Option) *Machine {
	o := Options{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
	for _, opt := range opts {
		opt(&o)
	}

	return &Machine{
		Options:     o,
		Dictionary:  dictionary.New(),
		Handlers:    contextual.New[HandlerInfo](),
		Variables:   contextual.New[value.Value](),
		Definitions: contextual.New[*value.DataObjectDefinition](),
	}
}

// --- data stack -----------------------------------------------------

// Push pushes v onto the data stack. A configured MaxDataStackDepth of
// zero means unlimited.
func (m *Machine) Push(v value.Value) error {
	if m.MaxDataStackDepth > 0 && len(m.stack) >= m.MaxDataStackDepth {
		return m.scriptErr("data stack depth exceeded (max %d)", m.MaxDataStackDepth)
	}
	m.stack = append(m.stack, v)
	return nil
}

// Pop pops and returns the top of the data stack. Underflow is a script
// error, not a panic: an empty-stack `drop` is a scripting mistake, not a
// programmer error in the interpreter itself.
func (m *Machine) Pop() (value.Value, error) {
	if len(m.stack) == 0 {
		return nil, m.scriptErr("data stack is empty")
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return top, nil
}

// PopInt pops and coerces the top of the data stack to an int64.
func (m *Machine) PopInt() (int64, error) {
	v, err := m.Pop()
	if err != nil {
		return 0, err
	}
	i, err := value.ToInt(v)
	if err != nil {
		return 0, m.scriptErr("%s", err)
	}
	return i, nil
}

// PopBool pops and coerces the top of the data stack to a bool.
func (m *Machine) PopBool() (bool, error) {
	v, err := m.Pop()
	if err != nil {
		return false, err
	}
	b, err := value.ToBool(v)
	if err != nil {
		return false, m.scriptErr("%s", err)
	}
	return b, nil
}

// StackDepth returns the number of values currently on the data stack.
func (m *Machine) StackDepth() int { return len(m.stack) }

// StackAt returns the i'th value from the bottom of the data stack, for
// `pick`/`roll`/`.s` style words. Underflow is a script error.
func (m *Machine) StackAt(i int) (value.Value, error) {
	if i < 0 || i >= len(m.stack) {
		return nil, m.scriptErr("stack index %d out of range (depth %d)", i, len(m.stack))
	}
	return m.stack[i], nil
}

// --- contextual scoping ------------------------------------------------

// MarkContext opens a new scope on every contextual container in lockstep:
// the dictionary, the handler table, the structure-definition list and the
// variable list.
func (m *Machine) MarkContext() {
	m.Dictionary.MarkContext()
	m.Handlers.MarkContext()
	m.Definitions.MarkContext()
	m.Variables.MarkContext()
}

// ReleaseContext closes the scope opened by the matching MarkContext on
// every contextual container in lockstep. Panics (a fatal, non-catchable
// error) if there is no scope to release, or it would release the root.
func (m *Machine) ReleaseContext() {
	m.Dictionary.ReleaseContext()
	m.Handlers.ReleaseContext()
	m.Definitions.ReleaseContext()
	m.Variables.ReleaseContext()
}

// --- word registration ------------------------------------------------

// AddWord registers a handler into the dictionary's current scope and the
// handler table, returning the stable handler index WordInfo.HandlerIndex
// records.
func (m *Machine) AddWord(
	loc token.Location,
	name string,
	handler Handler,
	description, signature string,
	runtime dictionary.Runtime,
	visibility dictionary.Visibility,
	kind dictionary.Kind,
	context dictionary.ContextMode,
) int {
	idx := m.Handlers.Insert(HandlerInfo{Name: name, Loc: loc, Handler: handler})
	m.Dictionary.Insert(name, dictionary.WordInfo{
		Loc:          loc,
		Name:         name,
		Runtime:      runtime,
		Kind:         kind,
		Visibility:   visibility,
		Context:      context,
		Description:  description,
		Signature:    signature,
		HandlerIndex: idx,
	})
	return idx
}

func (m *Machine) handlerAt(index int) (HandlerInfo, bool) {
	if index < 0 || index >= m.Handlers.Len() {
		return HandlerInfo{}, false
	}
	return m.Handlers.Get(index), true
}

// --- call stack -----------------------------------------------------

// CallStack returns a snapshot of the call stack, oldest frame first.
func (m *Machine) CallStack() []CallFrame {
	out := make([]CallFrame, len(m.callStack))
	copy(out, m.callStack)
	return out
}

func (m *Machine) pushCallFrame(name string, loc token.Location) error {
	if m.MaxCallDepth > 0 && len(m.callStack) >= m.MaxCallDepth {
		return m.scriptErr("call stack depth exceeded (max %d)", m.MaxCallDepth)
	}
	m.callStack = append(m.callStack, CallFrame{Name: name, Loc: loc})
	return nil
}

// CallStackPop pops the top call frame. Underflow is a script error.
func (m *Machine) CallStackPop() error {
	if len(m.callStack) == 0 {
		return m.scriptErr("call stack underflow")
	}
	m.callStack = m.callStack[:len(m.callStack)-1]
	return nil
}

// --- word execution ---------------------------------------------------

func (m *Machine) executeWordHandler(loc token.Location, info HandlerInfo) error {
	m.currentLoc = loc
	if err := m.pushCallFrame(info.Name, loc); err != nil {
		return err
	}
	err := info.Handler(m)
	_ = m.CallStackPop()
	return err
}

func (m *Machine) executeWord(loc token.Location, info dictionary.WordInfo) error {
	hi, ok := m.handlerAt(info.HandlerIndex)
	if !ok {
		return m.scriptErr("handler for word %s, (%d) not found", info.Name, info.HandlerIndex)
	}
	return m.executeWordHandler(loc, hi)
}

// ExecuteWordNamed looks name up in the dictionary and runs its handler.
func (m *Machine) ExecuteWordNamed(loc token.Location, name string) error {
	info, ok := m.Dictionary.Find(name)
	if !ok {
		return m.scriptErr("word %s not found", name)
	}
	return m.executeWord(loc, info)
}

// ExecuteWordIndex runs the handler at an absolute handler-table index
// directly, bypassing a name lookup.
func (m *Machine) ExecuteWordIndex(loc token.Location, index int) error {
	hi, ok := m.handlerAt(index)
	if !ok {
		return m.scriptErr("word handler index %d not found", index)
	}
	return m.executeWordHandler(loc, hi)
}

func (m *Machine) executeValue(operand value.Value) error {
	switch v := operand.(type) {
	case value.StringValue:
		return m.ExecuteWordNamed(m.currentLoc, string(v))
	case value.TokenValue:
		if v.Token.IsWord() {
			return m.ExecuteWordNamed(v.Token.Loc, v.Token.Text)
		}
		return m.scriptErr("token %s is not executable", v.Token)
	case value.IntValue:
		return m.ExecuteWordIndex(m.currentLoc, int(v))
	default:
		return m.scriptErr("value %s is not executable", operand)
	}
}

// --- op helpers -------------------------------------------------------

func stringable(v value.Value) (string, bool) {
	if s, ok := v.(value.StringValue); ok {
		return string(s), true
	}
	if tv, ok := v.(value.TokenValue); ok && tv.Token.IsTextual() {
		return tv.Token.Text, true
	}
	return "", false
}

func (m *Machine) defineVariable(operand value.Value) error {
	name, ok := stringable(operand)
	if !ok {
		return m.scriptErr("invalid variable name %s", operand)
	}

	index := m.Variables.Insert(value.None)
	handler := func(mm *Machine) error { return mm.Push(value.IntValue(index)) }

	m.AddWord(token.Location{}, name, handler,
		fmt.Sprintf("Access the index for variable %s.", name), " -- variable_index",
		dictionary.Normal, dictionary.Visible, dictionary.Native, dictionary.Managed)
	return nil
}

func (m *Machine) defineConstant(operand value.Value) error {
	name, ok := stringable(operand)
	if !ok {
		return m.scriptErr("invalid constant name %s", operand)
	}

	constant, err := m.Pop()
	if err != nil {
		return err
	}

	handler := func(mm *Machine) error { return mm.Push(value.DeepClone(constant)) }

	m.AddWord(token.Location{}, name, handler,
		fmt.Sprintf("Access value for constant %s.", name), " -- constant_value",
		dictionary.Normal, dictionary.Visible, dictionary.Native, dictionary.Managed)
	return nil
}

func (m *Machine) readVariable() error {
	index, err := m.PopInt()
	if err != nil {
		return err
	}
	if index < 0 || int(index) >= m.Variables.Len() {
		return m.scriptErr("read index %d out of range of variable set", index)
	}
	return m.Push(m.Variables.Get(int(index)))
}

func (m *Machine) writeVariable() error {
	index, err := m.PopInt()
	if err != nil {
		return err
	}
	val, err := m.Pop()
	if err != nil {
		return err
	}
	if index < 0 || int(index) >= m.Variables.Len() {
		return m.scriptErr("write index %d out of range of variable set", index)
	}
	m.Variables.Set(int(index), val)
	return nil
}

func (m *Machine) pushConstantValue(operand value.Value) error {
	return m.Push(value.DeepClone(operand))
}

func (m *Machine) absoluteIndex(pc int, operand value.Value) (int, error) {
	if !value.IsInt(operand) && !value.IsFloat(operand) {
		return 0, m.scriptErr("invalid loop exit index %s", operand)
	}
	offset, err := value.ToInt(operand)
	if err != nil {
		return 0, m.scriptErr("%s", err)
	}
	return pc + int(offset), nil
}

func (m *Machine) jumpIfMatch(pc *int, operand value.Value, expected bool) error {
	// Pop the test value before computing the jump target, so the stack
	// stays balanced even when the target is malformed.
	v, err := m.Pop()
	if err != nil {
		return err
	}
	found := value.Truth(v)
	absolute, err := m.absoluteIndex(*pc, operand)
	if err != nil {
		return err
	}
	if found == expected {
		// Account for the increment that still happens at the end of the
		// execution loop.
		*pc = absolute - 1
	}
	return nil
}

func (m *Machine) scriptErr(format string, args ...any) error {
	return &ScriptError{Loc: m.currentLoc, Message: fmt.Sprintf(format, args...)}
}

func (m *Machine) wrapError(err error) *ScriptError {
	var se *ScriptError
	if errors.As(err, &se) {
		se.CallStack = m.CallStack()
		return se
	}
	return &ScriptError{Loc: m.currentLoc, Message: err.Error(), CallStack: m.CallStack()}
}

func (m *Machine) cleanupContexts(contexts int, reportError bool) error {
	for i := 0; i < contexts; i++ {
		m.ReleaseContext()
	}
	if reportError && contexts > 0 {
		return m.scriptErr("unbalanced context handling detected")
	}
	return nil
}

type loopFrame struct{ start, exit int }

// ExecuteCode runs code's instructions from pc 0 to completion, or until an
// uncaught error propagates. name identifies the word or script body being
// run, for call-stack frames. Every MarkContext this invocation opens is
// tracked locally as open_contexts and must be balanced by a matching
// ReleaseContext by the time the block returns; an imbalance at any exit
// path, success or error, is closed here rather than left for the caller.
func (m *Machine) ExecuteCode(name string, code *compiler.Bytecode) error {
	contexts := 0
	callStackPushed := false
	var loopLocations []loopFrame
	var catchLocations []int

	pc := 0
	for pc < code.Len() {
		instr := code.At(pc)

		if m.MaxSteps > 0 {
			m.steps++
			if m.steps > m.MaxSteps {
				return m.wrapError(m.scriptErr("step limit exceeded (max %d)", m.MaxSteps))
			}
		}

		if !instr.Loc.Unknown() {
			m.currentLoc = instr.Loc
			if err := m.pushCallFrame(name, instr.Loc); err != nil {
				return m.wrapError(err)
			}
			callStackPushed = true
		}

		var err error
		switch instr.Op {
		case compiler.DefVariable:
			err = m.defineVariable(instr.Operand)

		case compiler.DefConstant:
			err = m.defineConstant(instr.Operand)

		case compiler.ReadVariable:
			err = m.readVariable()

		case compiler.WriteVariable:
			err = m.writeVariable()

		case compiler.Execute:
			err = m.executeValue(instr.Operand)

		case compiler.PushConstantValue:
			err = m.pushConstantValue(instr.Operand)

		case compiler.MarkLoopExit:
			var absolute int
			if absolute, err = m.absoluteIndex(pc, instr.Operand); err == nil {
				loopLocations = append(loopLocations, loopFrame{start: pc + 1, exit: absolute})
			}

		case compiler.UnmarkLoopExit:
			if len(loopLocations) > 0 {
				loopLocations = loopLocations[:len(loopLocations)-1]
			} else {
				err = m.scriptErr("unbalanced loop exit marker")
			}

		case compiler.MarkCatch:
			var absolute int
			if absolute, err = m.absoluteIndex(pc, instr.Operand); err == nil {
				catchLocations = append(catchLocations, absolute)
			}

		case compiler.UnmarkCatch:
			if len(catchLocations) > 0 {
				catchLocations = catchLocations[:len(catchLocations)-1]
			} else {
				err = m.scriptErr("unbalanced catch exit marker")
			}

		case compiler.MarkContext:
			m.MarkContext()
			contexts++

		case compiler.ReleaseContext:
			if contexts != 0 {
				contexts--
				m.ReleaseContext()
			} else {
				err = m.scriptErr("unbalanced context release detected")
			}

		case compiler.Jump:
			var absolute int
			if absolute, err = m.absoluteIndex(pc, instr.Operand); err == nil {
				pc = absolute - 1
			}

		case compiler.JumpIfZero:
			err = m.jumpIfMatch(&pc, instr.Operand, false)

		case compiler.JumpIfNotZero:
			err = m.jumpIfMatch(&pc, instr.Operand, true)

		case compiler.JumpLoopStart:
			if len(loopLocations) == 0 {
				err = m.scriptErr("JumpLoopStart outside of loop")
			} else {
				pc = loopLocations[len(loopLocations)-1].start - 1
			}

		case compiler.JumpLoopExit:
			if len(loopLocations) == 0 {
				err = m.scriptErr("JumpLoopExit outside of loop")
			} else {
				pc = loopLocations[len(loopLocations)-1].exit - 1
			}

		case compiler.JumpTarget:
			// Landing pad only; nothing to do.

		default:
			err = m.scriptErr("unknown opcode %s", instr.Op)
		}

		if err != nil {
			scriptErr := m.wrapError(err)

			if len(catchLocations) > 0 {
				catchIndex := catchLocations[len(catchLocations)-1]
				catchLocations = catchLocations[:len(catchLocations)-1]
				pc = catchIndex - 1
				if pushErr := m.Push(value.StringValue(scriptErr.Error())); pushErr != nil {
					return m.wrapError(pushErr)
				}
			} else {
				if callStackPushed {
					if popErr := m.CallStackPop(); popErr != nil {
						return m.wrapError(popErr)
					}
				}

				// Contexts are balanced here without reporting a new
				// "unbalanced" error: one is already propagating.
				_ = m.cleanupContexts(contexts, false)
				return scriptErr
			}
		} else if callStackPushed {
			if popErr := m.CallStackPop(); popErr != nil {
				return m.wrapError(popErr)
			}
			callStackPushed = false
		}

		pc++
	}

	if err := m.cleanupContexts(contexts, true); err != nil {
		return m.wrapError(err)
	}
	return nil
}
