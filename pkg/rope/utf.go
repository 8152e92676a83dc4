package rope

import (
	"unicode/utf16"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
)

// utf16Codec is wired to decode/encode UTF-16 leaves with explicit
// byte-order handling rather than hand-rolled surrogate pairing, matching
// the rest of the pack's encoding/unicode usage (UTF-16 is otherwise fiddly
// to get right around the BOM and surrogate pairs).
var utf16Codec = xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM)

func decodeUTF(l *utfLeaf) []rune {
	switch l.format {
	case FormatUTF8:
		runes := make([]rune, 0, l.length)
		for i := 0; i < len(l.data); {
			r, size := utf8.DecodeRune(l.data[i:])
			runes = append(runes, r)
			i += size
		}
		return runes
	case FormatUTF16:
		decoder := utf16Codec.NewDecoder()
		decoded, err := decoder.Bytes(l.data)
		if err != nil {
			return nil
		}
		runes := make([]rune, 0, l.length)
		for i := 0; i < len(decoded); {
			r, size := utf8.DecodeRune(decoded[i:])
			runes = append(runes, r)
			i += size
		}
		return runes
	default:
		return nil
	}
}

func encodeUTF8(runes []rune) []byte {
	buf := make([]byte, 0, len(runes)*2)
	var tmp [utf8.UTFMax]byte
	for _, r := range runes {
		n := utf8.EncodeRune(tmp[:], r)
		buf = append(buf, tmp[:n]...)
	}
	return buf
}

func encodeUTF16(runes []rune) []byte {
	units := utf16.Encode(runes)
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		buf[2*i] = byte(u)
		buf[2*i+1] = byte(u >> 8)
	}
	return buf
}
