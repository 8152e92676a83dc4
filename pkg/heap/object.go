package heap

import "github.com/fredericbonnet/colibri-go/pkg/word"

// Object is implemented by every heap-resident node (rope concats and
// leaves, list nodes, map entries, vectors, string buffers, and
// user-defined custom words). It is the Go-native stand-in for the C
// library's type descriptor: Kind/TypeFlags replace the integer type-kind
// field, Children replaces childrenProc's mark/rewrite callback.
//
// Children is called during mark; rewriting moved child references is a
// no-op in this implementation because promotion never changes a handle's
// identity (only the generation tag in its slot), so Children only lists
// the child words and never supplies replacements — unlike the original
// childrenProc, which had to supply a replacement pointer for each child
// after a move.
type Object interface {
	Kind() word.Kind
	TypeFlags() word.TypeFlag
	Children() []word.Word
}

// CellSizer is implemented by objects that span more than one allocator
// cell (flat vectors, UTF/UCS leaves, hash map bucket arrays). Objects that
// don't implement it are accounted as a single cell.
type CellSizer interface {
	Cells() int
}

// Freer is implemented by custom words with a freeProc: invoked exactly
// once during sweep, before the handle is released.
type Freer interface {
	Free()
}

// CustomDescriptor is embedded (by convention, not by struct embedding
// requirement) in custom word payloads to identify the extension point a
// custom word pins itself to, per spec.md §4.C and §6.
type CustomDescriptor struct {
	Name string
	// BaseKind is one of KindCustom, KindRope, KindList, KindMap,
	// KindHashMap, KindTrieMap, KindIntMap: the dispatch family a custom
	// word answers to in addition to FlagCustom.
	BaseKind word.Kind
}

func cellsOf(o Object) int {
	if cs, ok := o.(CellSizer); ok {
		n := cs.Cells()
		if n < 1 {
			n = 1
		}
		return n
	}
	return 1
}
