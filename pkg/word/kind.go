package word

// Kind is the type kind carried by a heap word's first cell, drawn from the
// closed set in spec.md §3. Immediate words never need a Kind: their tag
// alone determines their behaviour.
type Kind uint16

const (
	KindCustom Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
	KindRope
	KindVector
	KindMVector
	KindList
	KindMList
	KindMap
	KindIntMap
	KindHashMap
	KindTrieMap
	KindStrBuf
)

func (k Kind) String() string {
	switch k {
	case KindCustom:
		return "CUSTOM"
	case KindBool:
		return "BOOL"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindChar:
		return "CHAR"
	case KindString:
		return "STRING"
	case KindRope:
		return "ROPE"
	case KindVector:
		return "VECTOR"
	case KindMVector:
		return "MVECTOR"
	case KindList:
		return "LIST"
	case KindMList:
		return "MLIST"
	case KindMap:
		return "MAP"
	case KindIntMap:
		return "INTMAP"
	case KindHashMap:
		return "HASHMAP"
	case KindTrieMap:
		return "TRIEMAP"
	case KindStrBuf:
		return "STRBUF"
	default:
		return "UNKNOWN"
	}
}

// TypeFlag is a bitmask of the flags WordType() reports; several flags may
// apply to one word, e.g. a hash map answers MAP|HASHMAP and a flat string
// rope leaf answers STRING|ROPE (spec.md §3).
type TypeFlag uint32

const (
	FlagCustom TypeFlag = 1 << iota
	FlagBool
	FlagInt
	FlagFloat
	FlagChar
	FlagString
	FlagRope
	FlagVector
	FlagMVector
	FlagList
	FlagMList
	FlagMap
	FlagIntMap
	FlagHashMap
	FlagTrieMap
	FlagStrBuf
)

// ImmediateTypeFlags returns the flags for an immediate (non-heap) word.
func ImmediateTypeFlags(w Word) TypeFlag {
	switch {
	case IsNil(w):
		return 0
	case IsBool(w):
		return FlagBool
	case IsSmallInt(w):
		return FlagInt
	case IsSmallFloat(w):
		return FlagFloat
	case IsChar(w):
		return FlagChar | FlagString | FlagRope
	case IsShortString(w):
		return FlagString | FlagRope
	case w == EmptyRope:
		return FlagString | FlagRope
	default:
		return 0
	}
}
