package rope

import "github.com/fredericbonnet/colibri-go/pkg/word"

// Subrope implements spec.md §4.D's eight-case table.
func (e *Engine) Subrope(src word.Word, first, last int) word.Word {
	e.rt.PauseGC()
	defer e.rt.ResumeGC()

	length := e.Length(src)
	if first > last || first >= length || last < 0 {
		return word.EmptyRope
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
		runes, ok := runesOf(e, src)
		if ok {
			return e.newCharOrFlat(runes[first])
		}
	}

	if sub, ok := e.rt.Object(src).(*subropeNode); ok {
		// Subrope of subrope: rewrite relative to the innermost source.
		return e.Subrope(sub.source, sub.first+first, sub.first+last)
	}

	if n, ok := e.rt.Object(src).(*concatNode); ok {
		leftLen := e.Length(n.left)
		switch {
		case last < leftLen:
			return e.Subrope(n.left, first, last)
		case first >= leftLen:
			return e.Subrope(n.right, first-leftLen, last-leftLen)
		default:
			leftPart := e.Subrope(n.left, first, leftLen-1)
			rightPart := e.Subrope(n.right, 0, last-leftLen)
			return e.Concat(leftPart, rightPart)
		}
	}

	runes, ok := runesOf(e, src)
	if !ok {
		return word.Nil
	}
	slice := runes[first : last+1]
	if len(slice) <= shortMergeThreshold {
		return e.newSmallOrFlat(slice)
	}
	return e.rt.Alloc(0, &subropeNode{source: src, first: first, last: last})
}
