// Package word implements the tagged-pointer discipline that unifies
// immediate values (nil, booleans, small ints/floats, characters, short
// strings, the empty rope) with heap word handles, per spec.md §3-§4.C.
//
// A Word is a single machine-word-sized value. Heap words never carry a raw
// pointer: the top 61 bits of a heap-tagged Word are an opaque handle index
// into the owning Runtime's generational arenas (Design Notes §9, option
// (b): "model pointers as indices into per-generation arenas"). This is
// what lets promotion move a cell between generations without having to
// rewrite every outstanding reference to it: the handle is stable, and the
// indirection table is what gets updated.
package word

import "math"

// Word is the uniform abstract value type, ~1 machine word.
type Word uint64

const (
	tagBits = 3
	tagMask = Word(1<<tagBits) - 1

	tagNil         = Word(0)
	tagBool        = Word(1)
	tagSmallInt    = Word(2)
	tagSmallFloat  = Word(3)
	tagChar        = Word(4)
	tagShortString = Word(5)
	tagEmptyRope   = Word(6)
	tagHeap        = Word(7)
)

// Nil is the all-zero word.
const Nil = Word(tagNil)

// EmptyRope is the immediate singleton representing the zero-length rope,
// distinct from Nil (spec.md §3, "Rope" / §4.D edge case 1).
const EmptyRope = Word(tagEmptyRope)

func tagOf(w Word) Word { return w & tagMask }
func payload(w Word) Word { return w >> tagBits }

// IsNil reports whether w is the nil word.
func IsNil(w Word) bool { return w == Nil }

// IsHeap reports whether w is a heap word handle.
func IsHeap(w Word) bool { return w != Nil && tagOf(w) == tagHeap }

// IsImmediate reports whether w is fully self-contained (not a heap
// handle). The nil word and the empty-rope singleton both count as
// immediate.
func IsImmediate(w Word) bool { return !IsHeap(w) }

// NewHeapWord packs a handle index (assigned by a Runtime's allocator) into
// a heap-tagged Word. handle must fit in 61 bits.
func NewHeapWord(handle uint64) Word {
	return Word(handle)<<tagBits | tagHeap
}

// HeapHandle unpacks the handle index from a heap word. ok is false if w is
// not a heap word.
func HeapHandle(w Word) (handle uint64, ok bool) {
	if !IsHeap(w) {
		return 0, false
	}
	return uint64(payload(w)), true
}

// --- Booleans ---

const boolPayloadBit = Word(1) << tagBits

var (
	False = Word(tagBool)
	True  = Word(tagBool) | boolPayloadBit
)

// NewBoolWord returns the canonical immediate word for v.
func NewBoolWord(v bool) Word {
	if v {
		return True
	}
	return False
}

// IsBool reports whether w is an immediate boolean.
func IsBool(w Word) bool { return w == False || w == True }

// BoolWordValue returns the boolean value of an immediate boolean word. ok
// is false if w is not a boolean.
func BoolWordValue(w Word) (v, ok bool) {
	switch w {
	case False:
		return false, true
	case True:
		return true, true
	default:
		return false, false
	}
}

// --- Small integers ---

// SmallIntBits is the number of usable payload bits for an immediate
// integer: one machine word minus the tag, "encoding half the pointer
// range" per spec.md §3.
const SmallIntBits = 61

const (
	smallIntMax = int64(1)<<(SmallIntBits-1) - 1
	smallIntMin = -(int64(1) << (SmallIntBits - 1))
)

// TryNewIntWord returns the immediate word for v and true if v fits the
// reduced range; otherwise ok is false and the caller must box v on the
// heap (pkg/heap.Runtime.NewIntWord does this).
func TryNewIntWord(v int64) (w Word, ok bool) {
	if v < smallIntMin || v > smallIntMax {
		return 0, false
	}
	return Word(uint64(v)<<tagBits) | tagSmallInt, true
}

// IsSmallInt reports whether w is an immediate integer.
func IsSmallInt(w Word) bool { return w != Nil && tagOf(w) == tagSmallInt }

// SmallIntValue returns the signed value of an immediate integer word. ok
// is false if w is not an immediate integer.
func SmallIntValue(w Word) (v int64, ok bool) {
	if !IsSmallInt(w) {
		return 0, false
	}
	shifted := int64(w) >> tagBits
	return shifted, true
}

// --- Small floats ---
//
// Small floats store a float32 (restricted exponent/mantissa range) in the
// payload; values that lose precision in that conversion box on the heap.

// TryNewFloatWord returns the immediate word for v if it round-trips
// through float32 without loss, else ok is false.
func TryNewFloatWord(v float64) (w Word, ok bool) {
	f32 := float32(v)
	if float64(f32) != v {
		return 0, false
	}
	bits := uint64(math.Float32bits(f32))
	return Word(bits<<tagBits) | tagSmallFloat, true
}

// IsSmallFloat reports whether w is an immediate float.
func IsSmallFloat(w Word) bool { return w != Nil && tagOf(w) == tagSmallFloat }

// SmallFloatValue returns the value of an immediate float word.
func SmallFloatValue(w Word) (v float64, ok bool) {
	if !IsSmallFloat(w) {
		return 0, false
	}
	bits := uint32(payload(w))
	return float64(math.Float32frombits(bits)), true
}

// --- Characters ---

// CharMax is the highest valid Unicode codepoint (spec.md §6).
const CharMax = 0x10FFFF

// NewCharWord returns the immediate word for codepoint c. Characters always
// fit the payload (21 bits needed, 61 available) so this never boxes.
func NewCharWord(c rune) Word {
	return Word(uint64(uint32(c))<<tagBits) | tagChar
}

// IsChar reports whether w is an immediate character.
func IsChar(w Word) bool { return w != Nil && tagOf(w) == tagChar }

// CharWordValue returns the codepoint of an immediate character word.
func CharWordValue(w Word) (c rune, ok bool) {
	if !IsChar(w) {
		return 0, false
	}
	return rune(uint32(payload(w))), true
}

// CharWidth returns the width in bytes (1, 2 or 4) needed to store c in a
// fixed-width UCS leaf.
func CharWidth(c rune) int {
	switch {
	case c < 0 || c > CharMax:
		return 0
	case c <= 0xFF:
		return 1
	case c <= 0xFFFF:
		return 2
	default:
		return 4
	}
}

// --- Short immutable strings ---

// ShortStringMaxLen is sizeof(Word)-1 Latin-1 bytes (spec.md §3).
const ShortStringMaxLen = 7

const shortStringLenBits = 3

// TryNewShortStringWord returns the immediate word holding the Latin-1
// bytes of s if len(s) <= ShortStringMaxLen and every byte is < 0x100; else
// ok is false.
func TryNewShortStringWord(s []byte) (w Word, ok bool) {
	if len(s) > ShortStringMaxLen {
		return 0, false
	}
	var payloadBits uint64
	for i, b := range s {
		payloadBits |= uint64(b) << (8 * i)
	}
	lenField := uint64(len(s))
	packed := (payloadBits << shortStringLenBits) | lenField
	return Word(packed<<tagBits) | tagShortString, true
}

// IsShortString reports whether w is an immediate short string.
func IsShortString(w Word) bool { return w != Nil && tagOf(w) == tagShortString }

// ShortStringWordValue returns the Latin-1 bytes of an immediate short
// string word.
func ShortStringWordValue(w Word) (s []byte, ok bool) {
	if !IsShortString(w) {
		return nil, false
	}
	p := uint64(payload(w))
	n := p & (1<<shortStringLenBits - 1)
	bits := p >> shortStringLenBits
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(bits >> (8 * uint(i)))
	}
	return out, true
}
