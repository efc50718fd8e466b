package lineecho

import (
	"io"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// GlobalLog is the default logger to use if an Echoer or EchoCmd does not have one set,
// and an EchoCmd has no Stderr to log to.
// It defaults to a no-op logger
var GlobalLog = logr.Discard()

// EchoLogLevel is the verbosity level to log to when a line is read or emitted
var EchoLogLevel = 5

// DebugLogLevel is the verbosity level to log to for internal debugging messages.
// Verbosity for loggers writing to an EchoCmd's Stderr is controlled with stdr.SetVerbosity.
var DebugLogLevel = 10

func writerLog(w io.Writer) logr.Logger {
	return stdr.New(log.New(w, "", log.LstdFlags))
}
