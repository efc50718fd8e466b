package lineecho

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// A PipeSource is a function which can produce input for a command
type PipeSource func(io.Writer) error

// A PipeSink is a function which can process the output of a command
type PipeSink func(io.Reader) error

// A StreamSetter redirects the streams of a Pipelineable
type StreamSetter func(Pipelineable) error

// SaveString returns a PipeSink which records the output in a string
func SaveString(str *string) PipeSink {
	return func(r io.Reader) error {
		out, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		*str = string(out)
		return nil
	}
}

// SaveBytes returns a PipeSink which records the output in a byte slice
func SaveBytes(bytes *[]byte) PipeSink {
	return func(r io.Reader) error {
		out, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		*bytes = out
		return nil
	}
}

// ForwardIn sets a command's stdin to the current process's stdin
func ForwardIn(p Pipelineable) error {
	return p.SetStdin(os.Stdin)
}

// ForwardOut sets a command's stdout to the current process's stdout
func ForwardOut(p Pipelineable) error {
	return p.SetStdout(os.Stdout)
}

// ForwardErr sets a command's stderr to the current process's stderr
func ForwardErr(p Pipelineable) error {
	return p.SetStderr(os.Stderr)
}

// ForwardInOut does both ForwardIn and ForwardOut
func ForwardInOut(p Pipelineable) error {
	err := ForwardIn(p)
	if err != nil {
		return err
	}
	return ForwardOut(p)
}

// ForwardAll does ForwardIn, ForwardOut, and ForwardErr
func ForwardAll(p Pipelineable) error {
	err := ForwardInOut(p)
	if err != nil {
		return err
	}
	return ForwardErr(p)
}

var (
	_ = StreamSetter(ForwardIn)
	_ = StreamSetter(ForwardOut)
	_ = StreamSetter(ForwardErr)
	_ = StreamSetter(ForwardInOut)
	_ = StreamSetter(ForwardAll)
)

// StringIn sets a literal string to be provided as stdin to this command.
func StringIn(in string) StreamSetter {
	return BytesIn([]byte(in))
}

// BytesIn sets a literal byte slice to be provided as stdin to this command.
// Whatever the command does not read is left unread.
func BytesIn(in []byte) StreamSetter {
	return func(p Pipelineable) error {
		return p.SetStdin(bytes.NewReader(in))
	}
}

// FuncIn sets a function to pipe into the stdin of this command.
// Because only one line is read, the function may find the pipe closed before it is done writing; this is not treated as an error.
// Any other failure is returned from Run() or Wait().
func FuncIn(handler PipeSource) StreamSetter {
	return func(p Pipelineable) error {
		errChan := make(chan error, 1)
		var reader *io.PipeReader
		p.DeferBefore(func() error {
			var writer *io.PipeWriter
			reader, writer = io.Pipe()
			err := p.SetStdin(reader)
			if err != nil {
				reader.Close()
				writer.Close()
				reader = nil
				return err
			}
			go func() {
				err := handler(writer)
				writer.CloseWithError(err)
				errChan <- err
			}()
			return nil
		})
		p.DeferAfter(func() error {
			if reader == nil {
				return nil
			}
			reader.Close()
			err := <-errChan
			if errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		})
		return nil
	}
}

// FuncOut sets a function to feed the stdout of this command into. If this processing function fails, it will be returned from Run() or Wait().
func FuncOut(handler PipeSink) StreamSetter {
	return func(p Pipelineable) error {
		errChan := make(chan error, 1)
		var writer *io.PipeWriter
		p.DeferBefore(func() error {
			var reader *io.PipeReader
			reader, writer = io.Pipe()
			err := p.SetStdout(writer)
			if err != nil {
				reader.Close()
				writer.Close()
				writer = nil
				return err
			}
			go func() {
				defer reader.Close()
				errChan <- handler(reader)
			}()
			return nil
		})
		p.DeferAfter(func() error {
			if writer == nil {
				return nil
			}
			writer.Close()
			return <-errChan
		})
		return nil
	}
}

// FileIn sets the path of a file whose contents are to be to redirected to this command's stdin. The file is not opened when FileIn is called, but instead when Run() or Start() is called.
func FileIn(path string) StreamSetter {
	return func(p Pipelineable) error {
		var f *os.File
		p.DeferBefore(func() error {
			var err error
			f, err = os.Open(path)
			if err != nil {
				return err
			}
			return p.SetStdin(f)
		})
		p.DeferAfter(func() error {
			if f == nil {
				return nil
			}
			return f.Close()
		})
		return nil
	}
}

// FileOut sets the path of a file to redirect this command's stdout to. The file is not opened when FileOut is called, but instead when Run() or Start() is called.
func FileOut(path string) StreamSetter {
	return func(p Pipelineable) error {
		var f *os.File
		p.DeferBefore(func() error {
			var err error
			f, err = os.Create(path)
			if err != nil {
				return err
			}
			return p.SetStdout(f)
		})
		p.DeferAfter(func() error {
			if f == nil {
				return nil
			}
			return f.Close()
		})
		return nil
	}
}
