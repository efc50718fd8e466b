package lineecho

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// A Commander can be ran, started, killed, and waited for like a process
type Commander interface {
	// Start runs the task in the background and returns immediately. Start should not return an error if the underlying task failed, but only if starting it failed.
	Start() error
	// Wait waits for a task to finish after it has been Start()'ed. If the Commander is Kill()'ed, then Wait must return an error indicating such.
	Wait() error
	// Kill terminates the task. A Kill'ed Commander should still be Wait()'ed.
	Kill() error
	// Run starts the task in the foreground and waits for it to finish
	Run() error
}

// A Pipelineable is a Commander with a single set of standard files, meaning it is something which can be used in a pipeline
type Pipelineable interface {
	Commander
	SetStdin(io.Reader) error
	SetStdout(io.Writer) error
	SetStderr(io.Writer) error
	// DeferBefore adds a function to be called prior to actually starting the command. If it fails, then the command will return the error from Start() or Run(). Functions are called in the order they are added, and functions after the first failed function are not called.
	DeferBefore(func() error)
	// DeferAfter adds a function to called once the command finishes. If any fail, the command will return the errors from Run() or Wait(). Functions are called in the order they are added, but all functions will be called.
	DeferAfter(func() error)
}

// EchoCmd runs a single echo as a Commander/Pipelineable, so it can be started, waited for, and have its streams redirected like a process
type EchoCmd struct {
	Echoer
	Stdin  io.Reader
	Stdout io.Writer
	// Stderr receives the command's log messages if no Log is set. It is never written to by the echo itself.
	Stderr         io.Writer
	ctx            context.Context
	kill           context.CancelFunc
	done           chan error
	waitOnce       sync.Once
	result         error
	deferredBefore []func() error
	deferredAfter  []func() error
}

var (
	_ = Pipelineable(&EchoCmd{})
)

// NewEchoCmd produces an EchoCmd which reads from an empty stdin and discards its output until its streams are set.
// Until Stderr is set, it logs to GlobalLog.
func NewEchoCmd(parentCtx context.Context) *EchoCmd {
	cmd := &EchoCmd{
		Stdin:  strings.NewReader(""),
		Stdout: io.Discard,
	}
	cmd.ctx, cmd.kill = context.WithCancel(parentCtx)
	return cmd
}

// WithCapacity sets the buffer capacity for this command
func (c *EchoCmd) WithCapacity(capacity int) *EchoCmd {
	c.Capacity = capacity
	return c
}

// WithLog sets a log to use for this command
func (c *EchoCmd) WithLog(log logr.Logger) *EchoCmd {
	c.Log = log
	return c
}

// Start implements Commander. If a DeferBefore function fails, the DeferAfter functions are still called.
func (c *EchoCmd) Start() error {
	if c.done != nil {
		return ErrAlreadyStarted
	}
	err := doDeferredBefore(c.deferredBefore)
	if err != nil {
		doDeferredAfter(&err, c.deferredAfter)
		return err
	}
	if c.ctx == nil {
		c.ctx, c.kill = context.WithCancel(context.Background())
	}
	if c.Stdin == nil {
		c.Stdin = strings.NewReader("")
	}
	if c.Stdout == nil {
		c.Stdout = io.Discard
	}
	if c.Log.GetSink() == nil && c.Stderr != nil {
		c.Log = writerLog(c.Stderr)
	}
	c.done = make(chan error, 1)
	c.log().V(DebugLogLevel).Info("starting echo", "capacity", c.capacity())
	go func() {
		defer close(c.done)
		c.done <- c.echo()
	}()
	return nil
}

// echo is Echoer.Echo, except the line is not emitted if the command was killed while reading it
func (c *EchoCmd) echo() error {
	if c.ctx.Err() != nil {
		return ErrKilled
	}
	buf, err := c.Read(c.Stdin)
	if err != nil {
		return err
	}
	if c.ctx.Err() != nil {
		c.log().V(EchoLogLevel).Info("killed before emitting", "bytes", buf.Len())
		return ErrKilled
	}
	return c.emit(c.Stdout, buf)
}

// Wait implements Commander. DeferAfter functions are called once, and later calls return the same result as the first.
func (c *EchoCmd) Wait() error {
	if c.done == nil {
		return ErrNotStarted
	}
	c.waitOnce.Do(func() {
		err := <-c.done
		doDeferredAfter(&err, c.deferredAfter)
		c.result = err
	})
	return c.result
}

// Kill implements Commander. A read which is already blocked on stdin is not interrupted,
// but once it returns, nothing is written and Wait returns ErrKilled.
func (c *EchoCmd) Kill() error {
	if c.done == nil {
		return ErrNotStarted
	}
	c.kill()
	return nil
}

// Run implements Commander
func (c *EchoCmd) Run() error {
	if c.done != nil {
		return ErrAlreadyStarted
	}
	err := c.Start()
	if err != nil {
		return err
	}
	return c.Wait()
}

// DeferBefore implements Pipelineable
func (c *EchoCmd) DeferBefore(fn func() error) {
	c.deferredBefore = append(c.deferredBefore, fn)
}

// DeferAfter implements Pipelineable
func (c *EchoCmd) DeferAfter(fn func() error) {
	c.deferredAfter = append(c.deferredAfter, fn)
}

// SetStdin implements Pipelineable
func (c *EchoCmd) SetStdin(stdin io.Reader) error {
	c.Stdin = stdin
	return nil
}

// SetStdout implements Pipelineable
func (c *EchoCmd) SetStdout(stdout io.Writer) error {
	c.Stdout = stdout
	return nil
}

// SetStderr implements Pipelineable
func (c *EchoCmd) SetStderr(stderr io.Writer) error {
	c.Stderr = stderr
	return nil
}

// WithStreams applies a set of StreamSetters to this command. The first failing setter's error is returned by Start() or Run().
func (c *EchoCmd) WithStreams(fs ...StreamSetter) *EchoCmd {
	for _, fn := range fs {
		if err := fn(c); err != nil {
			c.DeferBefore(func() error { return err })
			break
		}
	}
	return c
}

func doDeferredBefore(deferredBefore []func() error) error {
	for _, f := range deferredBefore {
		err := f()
		if err != nil {
			return err
		}
	}
	return nil
}

func doDeferredAfter(retErr *error, deferredAfter []func() error) {
	origErr := *retErr
	errs := make([]error, 0, len(deferredAfter))
	if origErr != nil {
		errs = append(errs, origErr)
	}
	for _, f := range deferredAfter {
		err := f()
		if err != nil {
			errs = append(errs, err)
		}
	}
	if (origErr == nil && len(errs) > 0) || (origErr != nil && len(errs) > 1) {
		*retErr = &HookError{Errors: errs}
	}
}
