package command

import (
	"context"
	"io"
	"time"

	"powermodule-go/errcode"
	"powermodule-go/x/pipe"
	"powermodule-go/x/timex"
)

// Receiver is the read side of the serial transport.
type Receiver interface {
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}

// RX frames incoming bytes, dispatches each line and queues the response.
type RX struct {
	in      Receiver
	d       *Dispatcher
	out     *pipe.Channel[string]
	backoff time.Duration
	asm     Assembler
}

func NewRX(in Receiver, d *Dispatcher, out *pipe.Channel[string], backoff time.Duration) *RX {
	return &RX{in: in, d: d, out: out, backoff: backoff}
}

// Feed processes received bytes and reports how many lines were
// dispatched.
func (r *RX) Feed(p []byte) int {
	lines := 0
	for _, b := range p {
		line, ok, err := r.asm.Feed(b)
		if err != nil {
			println("[cmd] rx buffer overflow, resetting")
			continue
		}
		if !ok {
			continue
		}
		lines++
		resp := r.d.Dispatch(string(line))
		if err := r.out.TrySend(resp); err != nil {
			println("[cmd] response dropped:", string(errcode.Of(err)))
		}
	}
	return lines
}

func (r *RX) Run(ctx context.Context) {
	println("[cmd] rx task started")
	buf := make([]byte, LineSize)
	for {
		n, err := r.in.RecvSomeContext(ctx, buf)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if r.asm.Pending() > 0 {
				println("[cmd] rx fault, dropping partial line")
				r.asm.Reset()
			}
			if !timex.Sleep(ctx, r.backoff) {
				return
			}
			continue
		}
		r.Feed(buf[:n])
	}
}

// TX writes queued responses, pausing gap after each.
type TX struct {
	w   io.Writer
	in  *pipe.Channel[string]
	gap time.Duration
}

func NewTX(w io.Writer, in *pipe.Channel[string], gap time.Duration) *TX {
	return &TX{w: w, in: in, gap: gap}
}

// Write sends one response, logging a failed or short write.
func (t *TX) Write(msg string) error {
	n, err := t.w.Write([]byte(msg))
	if err == nil && n < len(msg) {
		err = io.ErrShortWrite
	}
	if err != nil {
		println("[cmd] tx write error:", err.Error())
		return &errcode.E{C: errcode.Error, Op: "tx", Msg: "write", Err: err}
	}
	return nil
}

func (t *TX) Run(ctx context.Context) {
	println("[cmd] tx task started")
	for {
		msg, err := t.in.Receive(ctx)
		if err != nil {
			return
		}
		_ = t.Write(msg)
		if !timex.Sleep(ctx, t.gap) {
			return
		}
	}
}
