package builtins

import (
	"fmt"

	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// registerWordCreationWords wires `: ; immediate hidden contextless
// description: signature:`, plus `variable`/`constant`. All of these run at
// compile time against the current construction on top of the compiler's
// stack.
func registerWordCreationWords(m *interp.Machine) {
	defImmediate(m, ":", wordStartWord, "Start a new word definition.", " -- ")
	defImmediate(m, ";", wordEndWord, "End the definition of the newly created word.", " -- ")
	defImmediate(m, "immediate", wordImmediate, "Mark the new word as immediate.", " -- ")
	defImmediate(m, "hidden", wordHidden, "Mark the new word as hidden from the directory.", " -- ")
	defImmediate(m, "contextless", wordContextless,
		"Mark the new word as not using the automatic context management.", " -- ")
	defImmediate(m, "description:", wordDescription, "Give a description for the new word.", " -- ")
	defImmediate(m, "signature:", wordSignature, "Document the word's signature.", " -- ")

	defImmediate(m, "variable", wordVariable, "Create a new variable.", " -- ")
	defImmediate(m, "constant", wordConstant, "Create a new constant from the next value.", "value -- ")
}

// wordNameFromToken extracts a word name from a token the way `:`/`variable`
// /`constant` do: a Word token's text, or a Number token's literal text.
// Strings can't name a word.
func wordNameFromToken(tok token.Token) (string, error) {
	switch {
	case tok.IsWord():
		return tok.Text, nil
	case tok.IsNumber():
		return tok.Number.String(), nil
	case tok.IsString():
		return "", fmt.Errorf("can not use a string as a word name")
	}
	return "", fmt.Errorf("expected a word name")
}

func wordStartWord(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "expected a word name after ':'")
	}
	name, err := wordNameFromToken(tok)
	if err != nil {
		return err
	}

	m.Comp.NewBlock()
	top, err := m.Comp.Top()
	if err != nil {
		return err
	}
	top.Name = name
	top.Loc = tok.Loc
	return nil
}

func wordEndWord(m *interp.Machine) error {
	if err := m.Comp.ResolveJumps(); err != nil {
		return err
	}
	cons, err := m.Comp.PopBlock()
	if err != nil {
		return err
	}

	name := cons.Name
	code := cons.Code
	context := cons.Context

	handler := func(mm *interp.Machine) error {
		if context == dictionary.Managed {
			mm.MarkContext()
		}
		err := mm.ExecuteCode(name, code)
		if context == dictionary.Managed {
			mm.ReleaseContext()
		}
		return err
	}

	m.AddWord(cons.Loc, name, handler, cons.Description, cons.Signature,
		cons.Runtime, cons.Visibility, dictionary.Scripted, context)
	return nil
}

func wordImmediate(m *interp.Machine) error {
	top, err := m.Comp.Top()
	if err != nil {
		return err
	}
	top.Runtime = dictionary.Immediate
	return nil
}

func wordHidden(m *interp.Machine) error {
	top, err := m.Comp.Top()
	if err != nil {
		return err
	}
	top.Visibility = dictionary.Hidden
	return nil
}

func wordContextless(m *interp.Machine) error {
	top, err := m.Comp.Top()
	if err != nil {
		return err
	}
	top.Context = dictionary.Manual
	return nil
}

func wordDescription(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "expected a description after 'description:'")
	}
	top, err := m.Comp.Top()
	if err != nil {
		return err
	}
	top.Description = tok.Text
	return nil
}

func wordSignature(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "expected a signature after 'signature:'")
	}
	top, err := m.Comp.Top()
	if err != nil {
		return err
	}
	top.Signature = tok.Text
	return nil
}

func wordVariable(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "expected a variable name")
	}
	name, err := wordNameFromToken(tok)
	if err != nil {
		return err
	}
	return m.Comp.Emit(compiler.DefVariable, value.StringValue(name))
}

func wordConstant(m *interp.Machine) error {
	tok, ok := m.Comp.NextToken()
	if !ok {
		return scriptError(m, "expected a constant name")
	}
	name, err := wordNameFromToken(tok)
	if err != nil {
		return err
	}
	return m.Comp.Emit(compiler.DefConstant, value.StringValue(name))
}
