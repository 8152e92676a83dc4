package list

import "github.com/fredericbonnet/colibri-go/pkg/word"

// Sublist implements the same case table as pkg/rope's Subrope, adapted to
// Word elements. On a circular list, a range ending inside the head is
// taken from the head alone; any other range is taken from the addressable
// span (the head followed by one copy of the loop), clamped to its end.
func (e *Engine) Sublist(src word.Word, first, last int) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()

	if ln, ok := e.rt.Object(src).(*loopNode); ok {
		headLen := e.Length(ln.head)
		if last < headLen {
			return e.sublistPlain(ln.head, first, last)
		}
	}
	return e.sublistPlain(src, first, last)
}

func (e *Engine) sublistPlain(src word.Word, first, last int) word.Word {
	length := e.Length(src)
	if first > last || first >= length || last < 0 {
		return EmptyList
	}
	if first < 0 {
		first = 0
	}
	if last >= length {
		last = length - 1
	}
	if first == 0 && last == length-1 {
		return src
	}
	if first == last {
		return e.NewList([]word.Word{e.at(src, first)})
	}

	if sub, ok := e.rt.Object(src).(*sublistNode); ok {
		return e.sublistPlain(sub.source, sub.first+first, sub.first+last)
	}

	if n, ok := e.rt.Object(src).(*concatNode); ok {
		leftLen := e.Length(n.left)
		switch {
		case last < leftLen:
			return e.sublistPlain(n.left, first, last)
		case first >= leftLen:
			return e.sublistPlain(n.right, first-leftLen, last-leftLen)
		default:
			leftPart := e.sublistPlain(n.left, first, leftLen-1)
			rightPart := e.sublistPlain(n.right, 0, last-leftLen)
			return e.concatPlain(leftPart, rightPart)
		}
	}

	elems := e.elementsOf(src)
	slice := elems[first : last+1]
	if len(slice) <= shortMergeThreshold {
		return e.NewList(slice)
	}
	return e.rt.Alloc(0, &sublistNode{source: src, first: first, last: last})
}
