// Package builtins wires the native word registry into a freshly
// constructed interp.Machine: arithmetic and bitwise words, stack
// manipulation, equality and ordering, word-creation words (`: ;
// immediate hidden contextless description: signature: variable
// constant`), the immediate control-flow surface syntax (`if else
// then begin while repeat until do loop leave [if] [else] [then]`),
// the Vector (`[].*`) and HashMap (`{}.*`) container words, the
// structure system (`#`, per-field accessors, `#@ #! #.iterate
// #.field-exists? #.=`), the `buffer.*` byte buffer words, and the
// `string.*`/`to_string`/`hex`/`unique_str` string words, the
// `value.is-*?` type-introspection words, the word-reflection/dispatch
// family (`word`, the backtick word-index operator, `execute defined?
// [defined?] [undefined?] words.get{}`), the `op.*`/`code.*` byte-code
// generation words that let a script assemble instructions directly, and
// the interpreter-introspection/error words (`.s .w .# sorth.version throw`,
// the `thread.*` stub family).
package builtins

import (
	"fmt"

	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/token"
)

// Register installs every native word this package defines into m's
// current (bottom, at startup) dictionary scope.
func Register(m *interp.Machine) {
	registerArithmeticWords(m)
	registerCompareWords(m)
	registerStackWords(m)
	registerWordCreationWords(m)
	registerControlWords(m)
	registerContainerWords(m)
	registerStructureWords(m)
	registerByteBufferWords(m)
	registerStringWords(m)
	registerValueTypeWords(m)
	registerWordWords(m)
	registerBytecodeWords(m)
	registerSorthWords(m)
}

// def registers an ordinary (Runtime == Normal) native word.
func def(m *interp.Machine, name string, handler interp.Handler, description, signature string) {
	m.AddWord(token.Location{}, name, handler, description, signature,
		dictionary.Normal, dictionary.Visible, dictionary.Native, dictionary.Managed)
}

// defImmediate registers a native word that runs at compile time.
func defImmediate(m *interp.Machine, name string, handler interp.Handler, description, signature string) {
	m.AddWord(token.Location{}, name, handler, description, signature,
		dictionary.Immediate, dictionary.Visible, dictionary.Native, dictionary.Managed)
}

// alias registers newName as a thin pass-through to an already-registered
// word, for the Forth-traditional spellings (invert/and/or/xor,
// stack.depth) that name the same operation as one already defined above.
func alias(m *interp.Machine, existing, newName string) {
	handler := func(mm *interp.Machine) error {
		return mm.ExecuteWordNamed(token.Location{}, existing)
	}
	info, ok := m.Dictionary.Find(existing)
	desc, sig := "", ""
	if ok {
		desc, sig = info.Description, info.Signature
	}
	def(m, newName, handler, desc, sig)
}

// scriptError builds a plain error from a native word; ExecuteCode wraps it
// into a *ScriptError (with source location and call stack) as it
// propagates, the same as any other error a Handler returns.
func scriptError(m *interp.Machine, format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
