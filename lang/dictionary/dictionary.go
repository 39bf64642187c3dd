// Package dictionary implements the name -> word lookup table used by the
// compiler and interpreter. It is contextual in the same sense as
// lang/contextual.List: words are defined into the current (innermost)
// scope and forgotten in bulk when that scope is released, which is how a
// word defined inside a struct body, or a temporary variable, disappears
// again without the interpreter tracking each one individually.
//
// Unlike lang/contextual.List, lookups here are by name rather than
// position, and newer contexts shadow older ones rather than appending to
// them, so the dictionary keeps its own stack of name -> WordInfo maps
// instead of reusing that container directly.
package dictionary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dolthub/swiss"

	"github.com/sorthlang/gosorth/lang/token"
)

// Runtime says whether a word fires immediately at compile time, or only
// once the surrounding script has been fully compiled.
type Runtime uint8

const (
	Normal Runtime = iota
	Immediate
)

func (r Runtime) String() string {
	if r == Immediate {
		return "immediate"
	}
	return "normal"
}

// Kind distinguishes a word implemented as a native Go handler from one
// compiled from Forth source.
type Kind uint8

const (
	Native Kind = iota
	Scripted
)

func (k Kind) String() string {
	if k == Scripted {
		return "scripted"
	}
	return "native"
}

// Visibility controls whether a word appears in a `.w`-style listing.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// ContextMode says whether a scripted word's body runs inside a fresh
// variable/word scope that its handler opens before the call and releases
// after it (Managed), or runs in the caller's scope so that what it defines
// outlives the call (Manual, set by `contextless`).
type ContextMode uint8

const (
	Managed ContextMode = iota
	Manual
)

func (c ContextMode) String() string {
	if c == Manual {
		return "manual"
	}
	return "managed"
}

// WordInfo is everything the dictionary records about a single word.
// HandlerIndex is a stable index into the interpreter's handler table,
// resolved at call time rather than stored as a direct function reference,
// so WordInfo stays free of any dependency on the interpreter.
type WordInfo struct {
	Loc          token.Location
	Name         string
	Runtime      Runtime
	Kind         Kind
	Visibility   Visibility
	Context      ContextMode
	Description  string
	Signature    string
	HandlerIndex int
}

// NewWordInfo returns a WordInfo with the defaults a freshly-defined word
// should start with: run at normal time, native until proven otherwise,
// visible, and interpreter-managed context.
func NewWordInfo(loc token.Location, name string) WordInfo {
	return WordInfo{Loc: loc, Name: name, Visibility: Visible}
}

// Dictionary is a stack of name -> WordInfo scopes. The bottom scope is the
// root and must never be released. Each scope is a swiss.Map rather than a
// plain Go map, the same open-addressing table lang/value.HashMap uses, for
// the same reason: word lookup by name is on the interpreter's hottest path
// (every word execution starts with one).
type Dictionary struct {
	stack []*swiss.Map[string, WordInfo]
}

// New returns a Dictionary with a single open root context.
func New() *Dictionary {
	d := &Dictionary{}
	d.MarkContext()
	return d
}

// MarkContext opens a new, empty scope on top of the stack.
func (d *Dictionary) MarkContext() {
	d.stack = append(d.stack, swiss.NewMap[string, WordInfo](0))
}

// ReleaseContext discards the top scope and every word defined in it.
// Panics if there is no scope to release, or if it would release the root.
func (d *Dictionary) ReleaseContext() {
	if len(d.stack) == 0 {
		panic("dictionary: releasing an empty context")
	}
	if len(d.stack) == 1 {
		panic("dictionary: releasing the root context")
	}
	d.stack = d.stack[:len(d.stack)-1]
}

// Depth returns the number of open scopes, root included.
func (d *Dictionary) Depth() int { return len(d.stack) }

// Insert defines name in the current (innermost) scope, shadowing any
// word of the same name from an outer scope for as long as this scope
// stays open.
func (d *Dictionary) Insert(name string, info WordInfo) {
	if len(d.stack) == 0 {
		panic("dictionary: inserting into an empty context")
	}
	d.stack[len(d.stack)-1].Put(name, info)
}

// Find searches from the innermost scope outward and returns the first
// match.
func (d *Dictionary) Find(name string) (WordInfo, bool) {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if info, ok := d.stack[i].Get(name); ok {
			return info, true
		}
	}
	return WordInfo{}, false
}

// Merged flattens every open scope into a single name -> WordInfo view,
// with an inner scope's definition winning over an outer scope's definition
// of the same name. Used for `.w`-style listings.
func (d *Dictionary) Merged() map[string]WordInfo {
	merged := make(map[string]WordInfo)
	for _, scope := range d.stack {
		scope.Iter(func(name string, info WordInfo) (stop bool) {
			merged[name] = info
			return false
		})
	}
	return merged
}

// String renders a `.w`-style listing: one line per visible word, sorted
// by name, with its handler index and an "immediate" marker where it
// applies.
func (d *Dictionary) String() string {
	merged := d.Merged()

	maxWidth := 0
	visibleCount := 0
	names := make([]string, 0, len(merged))
	for name, info := range merged {
		names = append(names, name)
		if info.Visibility == Visible {
			visibleCount++
			if len(name) > maxWidth {
				maxWidth = len(name)
			}
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d words defined.\n\n", visibleCount)

	for _, name := range names {
		info := merged[name]
		if info.Visibility != Visible {
			continue
		}
		marker := "           "
		if info.Runtime == Immediate {
			marker = "  immediate"
		}
		fmt.Fprintf(&sb, "%-*s  %-6d%s  --  %s\n", maxWidth, name, info.HandlerIndex, marker, info.Description)
	}

	return sb.String()
}
