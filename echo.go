package lineecho

import (
	"io"

	"github.com/go-logr/logr"
)

// An Echoer reads a single bounded line and writes it back without its terminator
type Echoer struct {
	// Capacity is the size of the line buffer. If zero, Capacity is used.
	Capacity int
	Log      logr.Logger
}

// WithCapacity sets the buffer capacity for this Echoer
func (e *Echoer) WithCapacity(capacity int) *Echoer {
	e.Capacity = capacity
	return e
}

// WithLog sets a log to use for this Echoer
func (e *Echoer) WithLog(log logr.Logger) *Echoer {
	e.Log = log
	return e
}

func (e *Echoer) log() logr.Logger {
	if e.Log.GetSink() == nil {
		return GlobalLog
	}
	return e.Log
}

func (e *Echoer) capacity() int {
	if e.Capacity == 0 {
		return Capacity
	}
	return e.Capacity
}

// Read reads and normalizes a line from stdin without emitting it
func (e *Echoer) Read(stdin io.Reader) (*Buffer, error) {
	buf, err := ReadLineBounded(stdin, e.capacity())
	if err != nil {
		e.log().V(EchoLogLevel).Info("no line read", "error", err.Error())
		return nil, err
	}
	e.log().V(DebugLogLevel).Info("raw line", "bytes", buf.Len(), "truncated", buf.Truncated())
	StripTrailingTerminator(buf)
	return buf, nil
}

// Echo reads a line from stdin and writes it to stdout. If no line can be read, nothing is written.
func (e *Echoer) Echo(stdin io.Reader, stdout io.Writer) error {
	buf, err := e.Read(stdin)
	if err != nil {
		return err
	}
	return e.emit(stdout, buf)
}

func (e *Echoer) emit(stdout io.Writer, buf *Buffer) error {
	err := Emit(stdout, buf)
	if err != nil {
		e.log().V(EchoLogLevel).Info("emit failed", "error", err.Error())
		return err
	}
	e.log().V(EchoLogLevel).Info("echoed line", "bytes", buf.Len())
	return nil
}

// Echo reads one line of at most Capacity-1 bytes from stdin and writes it, followed by a newline, to stdout
func Echo(stdin io.Reader, stdout io.Writer) error {
	return new(Echoer).Echo(stdin, stdout)
}
