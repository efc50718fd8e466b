package lineecho

import (
	"bytes"
	"errors"
	"io"
)

const (
	// Capacity is the default size of a line buffer, including the end-of-text marker
	Capacity = 16
	// MinCapacity is the smallest buffer that can hold at least one payload byte
	MinCapacity = 2
	// Terminator marks the end of a line
	Terminator byte = '\n'
	// EndOfText marks the end of a Buffer's logical content
	EndOfText byte = 0
)

// maxConsecutiveEmptyReads matches the limit bufio uses before giving up on a reader that never makes progress
const maxConsecutiveEmptyReads = 100

// A Buffer is a fixed-capacity line buffer.
// Its logical content is at most Cap()-1 bytes long, and the byte following it is always EndOfText.
type Buffer struct {
	data      []byte
	n         int
	truncated bool
}

// Cap returns the capacity the buffer was allocated with
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Len returns the length of the logical content
func (b *Buffer) Len() int {
	return b.n
}

// Bytes returns the logical content. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.n]
}

func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Truncated returns true if the read that filled this buffer stopped at its capacity before finding a terminator or the end of the stream
func (b *Buffer) Truncated() bool {
	return b.truncated
}

// ReadLineBounded reads from r until a Terminator is read, capacity-1 bytes have been read, or the stream ends.
// The terminator, if read, is kept in the buffer.
// Bytes are consumed one at a time, so nothing past the terminator or the limit is taken from r.
// A *ReadFailure is returned if r reports an error other than io.EOF, even if some bytes were already read,
// or if r ends before any byte is read.
func ReadLineBounded(r io.Reader, capacity int) (*Buffer, error) {
	if capacity < MinCapacity {
		return nil, ErrInvalidCapacity
	}
	b := &Buffer{data: make([]byte, capacity)}
	limit := capacity - 1
	for b.n < limit {
		c, err := readByte(r)
		if errors.Is(err, io.EOF) && b.n != 0 {
			break
		}
		if err != nil {
			return nil, &ReadFailure{Err: err}
		}
		b.data[b.n] = c
		b.n++
		if c == Terminator {
			break
		}
	}
	b.truncated = b.n == limit && b.data[b.n-1] != Terminator
	b.data[b.n] = EndOfText
	return b, nil
}

func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var c [1]byte
	for ix := 0; ix < maxConsecutiveEmptyReads; ix++ {
		n, err := r.Read(c[:])
		if n == 1 {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			return c[0], err
		}
		if err != nil {
			return 0, err
		}
	}
	return 0, io.ErrNoProgress
}

// textLen returns the length of content up to, but not including, the first EndOfText
func textLen(content []byte) int {
	ix := bytes.IndexByte(content, EndOfText)
	if ix == -1 {
		return len(content)
	}
	return ix
}

// StripTrailingTerminator truncates the logical content of b at the first Terminator or EndOfText, whichever comes first,
// replacing it with EndOfText. Nothing following an EndOfText read from the stream is kept.
func StripTrailingTerminator(b *Buffer) {
	content := b.Bytes()[:textLen(b.Bytes())]
	ix := bytes.IndexByte(content, Terminator)
	if ix == -1 {
		ix = len(content)
	}
	if ix == b.n {
		return
	}
	b.data[ix] = EndOfText
	b.n = ix
}

type flusher interface {
	Flush() error
}

// Emit writes the logical content of b, up to its first EndOfText, followed by a single Terminator to w, then flushes w if it can be flushed.
// Failures are returned as a *WriteFailure.
func Emit(w io.Writer, b *Buffer) error {
	content := b.Bytes()[:textLen(b.Bytes())]
	line := make([]byte, 0, len(content)+1)
	line = append(line, content...)
	line = append(line, Terminator)
	if _, err := w.Write(line); err != nil {
		return &WriteFailure{Err: err}
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return &WriteFailure{Err: err}
		}
	}
	return nil
}
