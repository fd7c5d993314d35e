// Package command is the serial command plane: it frames bytes into lines,
// resolves each line against the command tree and queues one response.
package command

import "powermodule-go/errcode"

// LineSize is the line buffer size; a token carries at most LineSize-1
// bytes plus its terminator.
const LineSize = 64

// Assembler frames a byte stream into CR/LF terminated lines.
type Assembler struct {
	buf [LineSize]byte
	n   int
}

// Feed consumes one byte. It returns a line once a terminator closes a
// non-empty one; the slice is valid until the next Feed. When the buffer
// is already full the byte is dropped, the buffer reset, and
// errcode.LineOverflow returned.
func (a *Assembler) Feed(b byte) ([]byte, bool, error) {
	if a.n >= len(a.buf) {
		a.n = 0
		return nil, false, errcode.LineOverflow
	}
	a.buf[a.n] = b
	a.n++
	if b != '\r' && b != '\n' {
		return nil, false, nil
	}
	n := a.n
	a.n = 0
	if n > 1 {
		return a.buf[:n-1], true, nil
	}
	return nil, false, nil
}

// Pending is the number of buffered bytes of the current line.
func (a *Assembler) Pending() int { return a.n }

func (a *Assembler) Reset() { a.n = 0 }
