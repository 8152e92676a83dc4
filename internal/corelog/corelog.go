// Package corelog provides a simple way of logging with different levels.
// Time/date are not logged on purpose because the host process (systemd,
// a test harness, ...) is expected to add them.
//
// Uses these prefixes: https://www.freedesktop.org/software/systemd/man/sd-daemon.html
package corelog

import (
	"fmt"
	"io"
	"log"
	"os"
)

var logDateTime bool

var (
	DebugWriter io.Writer = os.Stderr
	NoteWriter  io.Writer = os.Stderr
	InfoWriter  io.Writer = os.Stderr
	WarnWriter  io.Writer = os.Stderr
	ErrWriter   io.Writer = os.Stderr
	CritWriter  io.Writer = os.Stderr
)

var (
	DebugPrefix = "<7>[DEBUG]    "
	InfoPrefix  = "<6>[INFO]     "
	NotePrefix  = "<5>[NOTICE]   "
	WarnPrefix  = "<4>[WARNING]  "
	ErrPrefix   = "<3>[ERROR]    "
	CritPrefix  = "<2>[CRITICAL] "
)

var (
	debugLog = log.New(DebugWriter, DebugPrefix, 0)
	noteLog  = log.New(NoteWriter, NotePrefix, 0)
	infoLog  = log.New(InfoWriter, InfoPrefix, 0)
	warnLog  = log.New(WarnWriter, WarnPrefix, 0)
	errLog   = log.New(ErrWriter, ErrPrefix, 0)
	critLog  = log.New(CritWriter, CritPrefix, 0)
)

func init() {
	if lvl, ok := os.LookupEnv("COLIBRI_LOGLEVEL"); ok {
		SetLogLevel(lvl)
	}
}

// SetLogLevel discards writers below the given level ("debug", "info",
// "notice", "warn", "err"/"fatal", "crit").
func SetLogLevel(lvl string) {
	switch lvl {
	case "crit":
		ErrWriter = io.Discard
		fallthrough
	case "err", "fatal":
		WarnWriter = io.Discard
		fallthrough
	case "warn":
		NoteWriter = io.Discard
		fallthrough
	case "notice":
		InfoWriter = io.Discard
		fallthrough
	case "info":
		DebugWriter = io.Discard
	case "debug":
		// Nothing to do.
	default:
		fmt.Fprintf(os.Stderr, "corelog: invalid loglevel %q, using \"debug\"\n", lvl)
		SetLogLevel("debug")
		return
	}
	debugLog.SetOutput(DebugWriter)
	noteLog.SetOutput(NoteWriter)
	infoLog.SetOutput(InfoWriter)
	warnLog.SetOutput(WarnWriter)
	errLog.SetOutput(ErrWriter)
	critLog.SetOutput(CritWriter)
}

// SetLogDateTime toggles a timestamp prefix on every line.
func SetLogDateTime(v bool) { logDateTime = v }

func output(l *log.Logger, w io.Writer, s string) {
	if w == io.Discard {
		return
	}
	flags := 0
	if logDateTime {
		flags = log.LstdFlags
	}
	l.SetFlags(flags)
	l.Output(3, s)
}

func Debug(v ...any) { output(debugLog, DebugWriter, fmt.Sprint(v...)) }
func Note(v ...any)  { output(noteLog, NoteWriter, fmt.Sprint(v...)) }
func Info(v ...any)  { output(infoLog, InfoWriter, fmt.Sprint(v...)) }
func Warn(v ...any)  { output(warnLog, WarnWriter, fmt.Sprint(v...)) }
func Error(v ...any) { output(errLog, ErrWriter, fmt.Sprint(v...)) }
func Crit(v ...any)  { output(critLog, CritWriter, fmt.Sprint(v...)) }

// Fatal logs at error level and terminates the process.
func Fatal(v ...any) {
	Error(v...)
	os.Exit(1)
}

func Debugf(format string, v ...any) { output(debugLog, DebugWriter, fmt.Sprintf(format, v...)) }
func Notef(format string, v ...any)  { output(noteLog, NoteWriter, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { output(infoLog, InfoWriter, fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { output(warnLog, WarnWriter, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { output(errLog, ErrWriter, fmt.Sprintf(format, v...)) }
func Critf(format string, v ...any)  { output(critLog, CritWriter, fmt.Sprintf(format, v...)) }

// Fatalf logs a formatted message at error level and terminates the process.
func Fatalf(format string, v ...any) {
	Errorf(format, v...)
	os.Exit(1)
}
