// Package shmring is a single-producer single-consumer byte ring with edge
// notifications. The host serial port uses a pair of rings as its wire.
package shmring

import (
	"context"
	"sync/atomic"
)

// Ring indices are monotonic; only the masked value addresses buf.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32
	wr   atomic.Uint32

	readable chan struct{} // pulsed after every write
	writable chan struct{} // pulsed after every read
}

// New returns a ring of size bytes. size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || size&(size-1) != 0 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) Cap() int { return len(r.buf) }

// Available is the number of unread bytes.
func (r *Ring) Available() int { return int(r.wr.Load() - r.rd.Load()) }

// Space is the number of bytes that can be written without overwriting.
func (r *Ring) Space() int { return len(r.buf) - r.Available() }

// WriteFrom copies as much of src as fits and returns the count.
func (r *Ring) WriteFrom(src []byte) int {
	rd, wr := r.rd.Load(), r.wr.Load()
	n := len(r.buf) - int(wr-rd)
	if n > len(src) {
		n = len(src)
	}
	if n <= 0 {
		return 0
	}
	at := wr & r.mask
	k := copy(r.buf[at:], src[:n])
	copy(r.buf, src[k:n])
	r.wr.Store(wr + uint32(n))
	notify(r.readable)
	return n
}

// ReadInto copies up to len(dst) unread bytes and returns the count.
func (r *Ring) ReadInto(dst []byte) int {
	rd, wr := r.rd.Load(), r.wr.Load()
	n := int(wr - rd)
	if n > len(dst) {
		n = len(dst)
	}
	if n <= 0 {
		return 0
	}
	at := rd & r.mask
	end := int(at) + n
	if end > len(r.buf) {
		end = len(r.buf)
	}
	k := copy(dst, r.buf[at:end])
	copy(dst[k:n], r.buf)
	r.rd.Store(rd + uint32(n))
	notify(r.writable)
	return n
}

// ReadContext blocks until at least one byte is read or ctx ends.
func (r *Ring) ReadContext(ctx context.Context, dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	for {
		if n := r.ReadInto(dst); n > 0 {
			return n, nil
		}
		select {
		case <-r.readable:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// WriteContext blocks until all of src is written or ctx ends.
func (r *Ring) WriteContext(ctx context.Context, src []byte) (int, error) {
	total := 0
	for total < len(src) {
		n := r.WriteFrom(src[total:])
		total += n
		if n > 0 {
			continue
		}
		select {
		case <-r.writable:
		case <-ctx.Done():
			return total, ctx.Err()
		}
	}
	return total, nil
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
