package builtins

import (
	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerWordWords wires the reflection/dispatch family, grounded on
// word_words.rs: pulling the next token from the compile stream, executing
// a word by name or index, and the defined?/[defined?]/[undefined?]
// existence checks. `words.get{}` is scoped down from the reference: the
// original boxes each entry in a `sorth.word`/`sorth.location` structure
// pair pulled from a standard-library prelude this port doesn't carry, so
// this version returns a hash table of word name to its signature string
// instead of a fully-populated structure per word.
func registerWordWords(m *interp.Machine) {
	defImmediate(m, "word", wordNextToken, "Get the next word in the token stream.", " -- next-word")

	def(m, "words.get{}", wordGetWordTable, "Get a copy of the word table as it exists at time of calling.", " -- all-defined-words")

	defImmediate(m, "`", wordBacktickIndex, "Get the index of the next word.", " -- index")

	def(m, "execute", wordExecute, "Execute a word name or index.", "word-name-or-index -- ???")

	def(m, "defined?", wordIsDefined, "Is the given word defined?", "word-name -- bool")

	defImmediate(m, "[defined?]", wordIsDefinedImmediate, "Evaluate at compile time, is the given word defined?", " -- bool")

	defImmediate(m, "[undefined?]", wordIsUndefinedImmediate, "Evaluate at compile time, is the given word not defined?", " -- bool")
}

func wordNextToken(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "'word' expected another token in the stream")
	}
	return m.Push(value.TokenValue{Token: tok})
}

func wordGetWordTable(m *interp.Machine) error {
	table := value.NewHashMap(0)
	for name, info := range m.Dictionary.Merged() {
		if err := table.Set(value.StringValue(name), value.StringValue(info.Signature)); err != nil {
			return err
		}
	}
	return m.Push(table)
}

func wordBacktickIndex(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "'`' expected a word name in the stream")
	}
	name, err := wordNameFromToken(tok)
	if err != nil {
		return err
	}
	info, ok := m.Dictionary.Find(name)
	if !ok {
		return scriptError(m, "word %s not found", name)
	}
	return m.Comp.Emit(compiler.PushConstantValue, value.IntValue(info.HandlerIndex))
}

func wordExecute(m *interp.Machine) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if value.IsInt(v) || value.IsFloat(v) {
		n, err := value.ToInt(v)
		if err != nil {
			return err
		}
		return m.ExecuteWordIndex(token.Location{}, int(n))
	}
	name, err := value.ToStringVal(v)
	if err != nil {
		return scriptError(m, "value %s is not a valid word name or index", v)
	}
	return m.ExecuteWordNamed(token.Location{}, name)
}

func wordIsDefined(m *interp.Machine) error {
	name, err := popString(m)
	if err != nil {
		return err
	}
	_, ok := m.Dictionary.Find(name)
	return m.Push(value.BoolValue(ok))
}

func wordIsDefinedImmediate(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "'[defined?]' expected a word name in the stream")
	}
	name, err := wordNameFromToken(tok)
	if err != nil {
		return err
	}
	_, found := m.Dictionary.Find(name)
	return m.Comp.Emit(compiler.PushConstantValue, value.BoolValue(found))
}

func wordIsUndefinedImmediate(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "'[undefined?]' expected a word name in the stream")
	}
	name, err := wordNameFromToken(tok)
	if err != nil {
		return err
	}
	_, found := m.Dictionary.Find(name)
	return m.Comp.Emit(compiler.PushConstantValue, value.BoolValue(!found))
}
