package lineecho

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrKilled is returned from EchoCmd.Wait() if it was killed before its line was emitted
	ErrKilled = errors.New("Killed")

	// ErrNotStarted is returned from EchoCmd.Wait() and EchoCmd.Kill() if Start() was never called
	ErrNotStarted = errors.New("Not Started")

	// ErrAlreadyStarted is returned from EchoCmd.Start() or EchoCmd.Run() if either were already called
	ErrAlreadyStarted = errors.New("Already Started")

	// ErrInvalidCapacity is returned by ReadLineBounded if the capacity cannot hold any payload
	ErrInvalidCapacity = fmt.Errorf("Capacity must be at least %d", MinCapacity)
)

// A ReadFailure indicates that no line could be read, either because the stream ended before any byte was transferred,
// or because the stream reported an error.
type ReadFailure struct {
	// Err is the error reported by the stream, io.EOF if it was empty
	Err error
}

// Error implements error
func (e *ReadFailure) Error() string {
	return fmt.Sprintf("Read failed: %v", e.Err)
}

// Unwrap returns the underlying stream error
func (e *ReadFailure) Unwrap() error {
	return e.Err
}

// A WriteFailure indicates that a line was read, but writing or flushing it failed
type WriteFailure struct {
	Err error
}

// Error implements error
func (e *WriteFailure) Error() string {
	return fmt.Sprintf("Write failed: %v", e.Err)
}

// Unwrap returns the underlying stream error
func (e *WriteFailure) Unwrap() error {
	return e.Err
}

// IsReadFailure returns true if err is or wraps a ReadFailure
func IsReadFailure(err error) bool {
	var failure *ReadFailure
	return errors.As(err, &failure)
}

// ExitCode maps the result of an echo to a process exit status: 0 if a line, possibly empty, was echoed, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// A HookError indicates that one or more functions added with DeferAfter failed, possibly in addition to the echo itself
type HookError struct {
	// Errors are the errors that occurred, starting with the echo's own error, if any
	Errors []error
}

// Error implements error
func (e *HookError) Error() string {
	msg := strings.Builder{}
	msg.WriteString("One or more deferred functions failed: (")
	for _, err := range e.Errors {
		msg.WriteString(err.Error())
		msg.WriteString(", ")
	}
	msg.WriteString(")")
	return msg.String()
}
