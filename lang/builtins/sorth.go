package builtins

import (
	"fmt"

	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerSorthWords wires the interpreter-introspection and error-raising
// words, grounded on sorth_words.rs. Most of that file's surface is out of
// scope here: `include`/`[include]` (file discovery/search-path), the
// `sorth.search-path`/`sorth.find-file`/`sorth.memory` triplet (OS/env
// queries beyond config.FromEnv), and `reset` (there is no REPL session to
// reset back to a clean slate) are all named Non-goals. `thread.*` is kept
// as the reference itself keeps it: native words that do nothing but
// immediately fail, since the concurrency model (§5 in spec terms) specifies
// thread words as stubs returning an error rather than real message queues.
func registerSorthWords(m *interp.Machine) {
	def(m, ".s", wordPrintStack, "Print out the data stack without changing it.", " -- ")
	def(m, ".w", wordPrintDictionary, "Print out the current word dictionary.", " -- ")
	def(m, ".#", wordPrintStructures, "Print out the currently available data structures.", " -- ")
	def(m, "sorth.version", wordSorthVersion, "Get the current version of the interpreter.", " -- version-string")
	def(m, "throw", wordThrow, "Throw an exception with the given message.", "message -- ")

	stub := func(name, description, signature string) {
		def(m, name, func(m *interp.Machine) error {
			return scriptError(m, "word %s not implemented yet", name)
		}, description, signature)
	}

	stub("thread.new", "Create a new thread and run the specified word, returning the new thread id.", "word-index -- thread-id")
	stub("thread.push-to", "Push a value onto another thread's input queue.", "value thread-id -- ")
	stub("thread.pop-from", "Pop a value from another thread's output queue.", "thread-id -- value")
	stub("thread.push", "Push a value onto the current thread's output queue.", "value -- ")
	stub("thread.pop", "Pop a value from the current thread's input queue.", " -- value")
}

func wordPrintStack(m *interp.Machine) error {
	depth := m.StackDepth()
	fmt.Fprintf(m.Stdout, "Depth: %d\n", depth)

	for i := depth - 1; i >= 0; i-- {
		v, err := m.StackAt(i)
		if err != nil {
			return err
		}
		if value.IsString(v) {
			fmt.Fprintf(m.Stdout, "%q\n", v.String())
		} else {
			fmt.Fprintln(m.Stdout, v.String())
		}
	}

	return nil
}

func wordPrintDictionary(m *interp.Machine) error {
	fmt.Fprint(m.Stdout, m.Dictionary.String())
	return nil
}

func wordPrintStructures(m *interp.Machine) error {
	for i := 0; i < m.Definitions.Len(); i++ {
		fmt.Fprintln(m.Stdout, m.Definitions.Get(i).String())
	}
	return nil
}

// sorthVersion is this port's own version marker, distinct from the
// "x.y.z.rust" string the reference reports for its own build.
const sorthVersion = "0.1.0.go"

func wordSorthVersion(m *interp.Machine) error {
	return m.Push(value.StringValue(sorthVersion))
}

func wordThrow(m *interp.Machine) error {
	message, err := popString(m)
	if err != nil {
		return err
	}
	return scriptError(m, "%s", message)
}
