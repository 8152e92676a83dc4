package rope

import "github.com/fredericbonnet/colibri-go/pkg/word"

type concatNode struct {
	left, right word.Word
	length      int
	depth       int
}

func (n *concatNode) Kind() word.Kind          { return word.KindRope }
func (n *concatNode) TypeFlags() word.TypeFlag { return word.FlagString | word.FlagRope }
func (n *concatNode) Children() []word.Word    { return []word.Word{n.left, n.right} }

type subropeNode struct {
	source     word.Word
	first, last int // inclusive
}

func (n *subropeNode) Kind() word.Kind          { return word.KindRope }
func (n *subropeNode) TypeFlags() word.TypeFlag { return word.FlagString | word.FlagRope }
func (n *subropeNode) Children() []word.Word    { return []word.Word{n.source} }

func depthOf(e *Engine, w word.Word) int {
	if word.IsImmediate(w) {
		return 0
	}
	switch n := e.rt.Object(w).(type) {
	case *concatNode:
		return n.depth
	case *subropeNode:
		return depthOf(e, n.source)
	default:
		return 0
	}
}

// Concat builds the concatenation of a and b per spec.md §4.D's edge-case
// table: empty-side elision, small-leaf merging, adjacent-subrope fusion,
// then a plain concat node rebalanced to keep arm depths within 1 of each
// other.
func (e *Engine) Concat(a, b word.Word) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()
	if e.Length(a) == 0 {
		return b
	}
	if e.Length(b) == 0 {
		return a
	}

	if sa, ok := e.rt.Object(a).(*subropeNode); ok {
		if sb, ok := e.rt.Object(b).(*subropeNode); ok {
			if sa.source == sb.source && sa.last+1 == sb.first {
				return e.Subrope(sa.source, sa.first, sb.last)
			}
		}
	}

	if e.Length(a)+e.Length(b) <= shortMergeThreshold {
		ra, _ := runesOf(e, a)
		rb, _ := runesOf(e, b)
		merged := append(append([]rune{}, ra...), rb...)
		return e.newSmallOrFlat(merged)
	}

	node := &concatNode{
		left:   a,
		right:  b,
		length: e.Length(a) + e.Length(b),
		depth:  1 + maxInt(depthOf(e, a), depthOf(e, b)),
	}
	w := e.rt.Alloc(0, node)
	return e.rebalance(w)
}

// rebalance applies the standard single/double rotation repertoire bounded
// by the tree's own depth, conservatively: it only rotates while a node's
// arms differ by more than 1, never re-rotating an already-balanced
// subtree.
func (e *Engine) rebalance(w word.Word) word.Word {
	n, ok := e.rt.Object(w).(*concatNode)
	if !ok {
		return w
	}
	balance := depthOf(e, n.right) - depthOf(e, n.left)
	if balance >= -1 && balance <= 1 {
		return w
	}
	if balance > 1 {
		rn, ok := e.rt.Object(n.right).(*concatNode)
		if !ok {
			return w
		}
		if depthOf(e, rn.right) >= depthOf(e, rn.left) {
			return e.rotateLeft(w)
		}
		return e.rotateLeft(e.setRight(w, e.rotateRight(n.right)))
	}
	ln, ok := e.rt.Object(n.left).(*concatNode)
	if !ok {
		return w
	}
	if depthOf(e, ln.left) >= depthOf(e, ln.right) {
		return e.rotateRight(w)
	}
	return e.rotateRight(e.setLeft(w, e.rotateLeft(n.left)))
}

func (e *Engine) setLeft(w, newLeft word.Word) word.Word {
	n := e.rt.Object(w).(*concatNode)
	return e.rt.Alloc(0, &concatNode{left: newLeft, right: n.right,
		length: e.Length(newLeft) + e.Length(n.right),
		depth:  1 + maxInt(depthOf(e, newLeft), depthOf(e, n.right))})
}

func (e *Engine) setRight(w, newRight word.Word) word.Word {
	n := e.rt.Object(w).(*concatNode)
	return e.rt.Alloc(0, &concatNode{left: n.left, right: newRight,
		length: e.Length(n.left) + e.Length(newRight),
		depth:  1 + maxInt(depthOf(e, n.left), depthOf(e, newRight))})
}

func (e *Engine) rotateLeft(w word.Word) word.Word {
	n := e.rt.Object(w).(*concatNode)
	r := e.rt.Object(n.right).(*concatNode)
	newLeft := e.rt.Alloc(0, &concatNode{left: n.left, right: r.left,
		length: e.Length(n.left) + e.Length(r.left),
		depth:  1 + maxInt(depthOf(e, n.left), depthOf(e, r.left))})
	return e.rt.Alloc(0, &concatNode{left: newLeft, right: r.right,
		length: e.Length(newLeft) + e.Length(r.right),
		depth:  1 + maxInt(depthOf(e, newLeft), depthOf(e, r.right))})
}

func (e *Engine) rotateRight(w word.Word) word.Word {
	n := e.rt.Object(w).(*concatNode)
	l := e.rt.Object(n.left).(*concatNode)
	newRight := e.rt.Alloc(0, &concatNode{left: l.right, right: n.right,
		length: e.Length(l.right) + e.Length(n.right),
		depth:  1 + maxInt(depthOf(e, l.right), depthOf(e, n.right))})
	return e.rt.Alloc(0, &concatNode{left: l.left, right: newRight,
		length: e.Length(l.left) + e.Length(newRight),
		depth:  1 + maxInt(depthOf(e, l.left), depthOf(e, newRight))})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
