package heap

import "github.com/fredericbonnet/colibri-go/pkg/word"

// boxedInt is the heap fallback for integers outside word.SmallIntBits'
// immediate range (spec.md §3, §6's New{Bool,Int,Float,Char}Word family).
type boxedInt struct{ v int64 }

func (b *boxedInt) Kind() word.Kind          { return word.KindInt }
func (b *boxedInt) TypeFlags() word.TypeFlag { return word.FlagInt }
func (b *boxedInt) Children() []word.Word    { return nil }

// NewIntWord returns the immediate word for v when it fits, else boxes it
// on the heap at generation 0, bracketing that allocation with its own
// PauseGC/ResumeGC so callers need no pause of their own.
func (rt *Runtime) NewIntWord(v int64) word.Word {
	if w, ok := word.TryNewIntWord(v); ok {
		return w
	}
	rt.PauseGC()
	defer rt.ResumeGC()
	return rt.Alloc(0, &boxedInt{v: v})
}

// IntWordValue returns the integer value of w, whether immediate or boxed.
func (rt *Runtime) IntWordValue(w word.Word) (int64, bool) {
	if v, ok := word.SmallIntValue(w); ok {
		return v, true
	}
	if b, ok := rt.Object(w).(*boxedInt); ok {
		return b.v, true
	}
	return 0, false
}
