package interp

import (
	"fmt"
	"io"
	"strings"

	"github.com/sorthlang/gosorth/lang/token"
)

// CallFrame is a single entry on the interpreter's call stack: the word
// that was running, and the source location of the instruction that called
// it.
type CallFrame struct {
	Name string
	Loc  token.Location
}

// ScriptError is a catchable runtime error: the kind MarkCatch/UnmarkCatch
// can intercept, and the kind that turns into a recoverable value pushed
// onto the data stack when a catch frame is active. It carries the call
// stack as it stood when the error was raised, oldest frame first, for
// display (newest first, by WriteTo) once it escapes the top-level
// ExecuteCode.
type ScriptError struct {
	Loc       token.Location
	Message   string
	CallStack []CallFrame
}

// NewScriptError builds a ScriptError at loc with a formatted message.
func NewScriptError(loc token.Location, format string, args ...any) *ScriptError {
	return &ScriptError{Loc: loc, Message: fmt.Sprintf(format, args...)}
}

func (e *ScriptError) Error() string {
	if e.Loc.Unknown() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// WriteTo renders the error the way a host prints an uncaught script error:
// "<location>: <message>" followed by the call stack, newest frame first.
func (e *ScriptError) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintln(&sb, e.Error())
	for i := len(e.CallStack) - 1; i >= 0; i-- {
		frame := e.CallStack[i]
		fmt.Fprintf(&sb, "  at %s (%s)\n", frame.Name, frame.Loc)
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// FatalError is a programmer error. It is never caught by MarkCatch;
// Fatalf raises one by panicking. The contextual containers and the
// dictionary do not use it: for releasing the root context or indexing out
// of bounds they panic with a plain string message.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string { return e.Message }

// WriteTo renders the fatal error's message on a line of its own, with no
// location and no call stack (a FatalError carries neither).
func (e *FatalError) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.Message+"\n")
	return int64(n), err
}

// Fatalf panics with a *FatalError built from the formatted message.
func Fatalf(format string, args ...any) {
	panic(&FatalError{Message: fmt.Sprintf(format, args...)})
}
