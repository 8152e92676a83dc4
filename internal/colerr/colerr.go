// Package colerr implements the error-reporting facade described in
// spec.md §7: a fixed domain of error codes, four severity levels, and a
// settable process-wide handler invoked as (level, code, message).
//
// Typecheck and valuecheck errors are idempotent and safe to ignore: the
// default handler logs and the call returns a harmless zero value. Fatal
// and Error are not: the default handler terminates the process, exactly
// as the original C library's default error proc does.
package colerr

import (
	"fmt"

	"github.com/fredericbonnet/colibri-go/internal/corelog"
)

// Level partitions the possible outcomes of an API call.
type Level int

const (
	// Fatal is unrecoverable: out-of-memory, a broken invariant, an
	// allocation attempted outside a GC pause.
	Fatal Level = iota
	// Error leaves the system in a possibly inconsistent state.
	Error
	// TypecheckLevel means the word passed is not of the expected sub-kind.
	TypecheckLevel
	// ValuecheckLevel means the arguments are well-typed but out of range.
	ValuecheckLevel
)

func (l Level) String() string {
	switch l {
	case Fatal:
		return "FATAL"
	case Error:
		return "ERROR"
	case TypecheckLevel:
		return "TYPECHECK"
	case ValuecheckLevel:
		return "VALUECHECK"
	default:
		return "UNKNOWN"
	}
}

// Code is drawn from the fixed enum in spec.md §7.
type Code int

const (
	GENERIC Code = iota
	ASSERTION
	MEMORY
	GCPROTECT
	BOOL
	INT
	FLOAT
	CUSTOMWORD
	CHAR
	STRING
	ROPE
	ROPEINDEX
	ROPELENGTH_CONCAT
	ROPELENGTH_REPEAT
	ROPEITER
	ROPEITER_END
	VECTOR
	MVECTOR
	VECTORLENGTH
	LIST
	MLIST
	LISTINDEX
	LISTLENGTH_CONCAT
	LISTLENGTH_REPEAT
	LISTITER
	LISTITER_END
	MAP
	WORDMAP
	INTMAP
	HASHMAP
	WORDHASHMAP
	INTHASHMAP
	TRIEMAP
	WORDTRIEMAP
	INTTRIEMAP
	MAPITER
	MAPITER_END
	STRBUF
	STRBUF_FORMAT
)

var codeNames = [...]string{
	"GENERIC", "ASSERTION", "MEMORY", "GCPROTECT", "BOOL", "INT", "FLOAT",
	"CUSTOMWORD", "CHAR", "STRING", "ROPE", "ROPEINDEX", "ROPELENGTH_CONCAT",
	"ROPELENGTH_REPEAT", "ROPEITER", "ROPEITER_END", "VECTOR", "MVECTOR",
	"VECTORLENGTH", "LIST", "MLIST", "LISTINDEX", "LISTLENGTH_CONCAT",
	"LISTLENGTH_REPEAT", "LISTITER", "LISTITER_END", "MAP", "WORDMAP",
	"INTMAP", "HASHMAP", "WORDHASHMAP", "INTHASHMAP", "TRIEMAP",
	"WORDTRIEMAP", "INTTRIEMAP", "MAPITER", "MAPITER_END", "STRBUF",
	"STRBUF_FORMAT",
}

func (c Code) String() string {
	if int(c) < 0 || int(c) >= len(codeNames) {
		return "UNKNOWN"
	}
	return codeNames[c]
}

// Proc is the client-installable error procedure. It mirrors the C API's
// callback receiving (level, domain, code, message). It should return true
// to let the caller continue processing subsequent nested errors, false to
// request that the caller propagate/abort.
type Proc func(level Level, code Code, message string) (cont bool)

var proc Proc = defaultProc

// SetErrorProc installs a client error handler. Passing nil restores the
// default handler.
func SetErrorProc(p Proc) {
	if p == nil {
		proc = defaultProc
		return
	}
	proc = p
}

func defaultProc(level Level, code Code, message string) bool {
	switch level {
	case Fatal:
		corelog.Critf("[%s] %s: %s", level, code, message)
		return false
	case Error:
		corelog.Errorf("[%s] %s: %s", level, code, message)
		return false
	default:
		corelog.Debugf("[%s] %s: %s", level, code, message)
		return true
	}
}

// Report invokes the installed error procedure. A Fatal or Error report
// whose procedure returns false (the default handler does for both) then
// panics, matching the C library's default behaviour; a client procedure
// returning true lets the caller go on.
func Report(level Level, code Code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	cont := proc(level, code, msg)
	if (level == Fatal || level == Error) && !cont {
		panic(fmt.Sprintf("colibri: fatal error [%s] %s: %s", level, code, msg))
	}
}

// Typecheck reports a typecheck error; it never panics, matching the
// idempotent, ignorable contract of spec.md §7.
func Typecheck(code Code, format string, args ...any) {
	Report(TypecheckLevel, code, format, args...)
}

// Valuecheck reports a valuecheck error; it never panics.
func Valuecheck(code Code, format string, args ...any) {
	Report(ValuecheckLevel, code, format, args...)
}
