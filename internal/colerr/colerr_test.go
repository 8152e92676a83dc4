package colerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypecheckIsIdempotent(t *testing.T) {
	var seen []string
	SetErrorProc(func(level Level, code Code, message string) bool {
		seen = append(seen, level.String()+":"+code.String())
		return true
	})
	defer SetErrorProc(nil)

	Typecheck(ROPE, "not a rope: %d", 42)
	Valuecheck(LISTINDEX, "index out of range")

	require.Len(t, seen, 2)
	assert.Equal(t, "TYPECHECK:ROPE", seen[0])
	assert.Equal(t, "VALUECHECK:LISTINDEX", seen[1])
}

func TestFatalPanicsWhenProcReturnsFalse(t *testing.T) {
	SetErrorProc(func(level Level, code Code, message string) bool { return false })
	defer SetErrorProc(nil)

	assert.Panics(t, func() {
		Report(Fatal, MEMORY, "out of memory")
	})
}

func TestDefaultProcContinuesOnTypecheck(t *testing.T) {
	SetErrorProc(nil)
	assert.NotPanics(t, func() {
		Typecheck(BOOL, "word is not a bool")
	})
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "ROPEITER_END", ROPEITER_END.String())
	assert.Equal(t, "UNKNOWN", Code(9999).String())
}
