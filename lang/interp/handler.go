package interp

import "github.com/sorthlang/gosorth/lang/token"

// Handler is the signature every native word handler implements, whether
// built into the registry at startup or synthesized on the fly by
// DefVariable/DefConstant. It is declared here rather than in
// lang/dictionary so that WordInfo (which only stores a stable
// HandlerIndex) stays free of any dependency on the Machine type.
type Handler func(m *Machine) error

// HandlerInfo is one entry in the handler table: a name (for diagnostics),
// the location it was registered at, and the handler itself. WordInfo's
// HandlerIndex is a stable absolute index into the table holding these,
// resolved at call time rather than stored as a direct function reference.
type HandlerInfo struct {
	Name    string
	Loc     token.Location
	Handler Handler
}
