package list

import "github.com/fredericbonnet/colibri-go/pkg/word"

// isVoid reports whether w's entire content is represented by void leaves,
// so a merge can stay a single void leaf instead of materializing elements
// (spec.md §8 scenario 4).
func (e *Engine) isVoid(w word.Word) bool {
	if w == EmptyList {
		return true
	}
	switch n := e.rt.Object(w).(type) {
	case *voidLeaf:
		return true
	case *concatNode:
		return e.isVoid(n.left) && e.isVoid(n.right)
	case *sublistNode:
		return e.isVoid(n.source)
	default:
		return false
	}
}

// Concat builds the concatenation of a and b. If b is circular, the result
// is circular too: its head absorbs a and b's own head, and it shares b's
// loop subtree and loopLength (spec.md §4.F, Design Notes §9).
func (e *Engine) Concat(a, b word.Word) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()

	if bl, ok := e.rt.Object(b).(*loopNode); ok {
		newHead := e.concatPlain(a, bl.head)
		w := e.rt.Alloc(0, &loopNode{head: newHead, loop: bl.loop, loopLength: bl.loopLength})
		return w
	}
	return e.concatPlain(a, b)
}

func (e *Engine) concatPlain(a, b word.Word) word.Word {
	if e.Length(a) == 0 {
		return b
	}
	if e.Length(b) == 0 {
		return a
	}

	if sa, ok := e.rt.Object(a).(*sublistNode); ok {
		if sb, ok := e.rt.Object(b).(*sublistNode); ok {
			if sa.source == sb.source && sa.last+1 == sb.first {
				return e.sublistPlain(sa.source, sa.first, sb.last)
			}
		}
	}

	if e.isVoid(a) && e.isVoid(b) {
		return e.NewVoidList(e.Length(a) + e.Length(b))
	}

	if !e.isVoid(a) && !e.isVoid(b) && e.Length(a)+e.Length(b) <= shortMergeThreshold {
		ea := e.elementsOf(a)
		eb := e.elementsOf(b)
		merged := append(append([]word.Word{}, ea...), eb...)
		return e.NewList(merged)
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
