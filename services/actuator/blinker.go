package actuator

import (
	"context"
	"sync/atomic"
	"time"

	"powermodule-go/services/hal"
	"powermodule-go/x/pipe"
	"powermodule-go/x/timex"
)

// Blinker toggles the status LED; the half period comes from the power
// arbiter through a channel and is picked up once per cycle.
type Blinker struct {
	out     hal.Output
	periods *pipe.Channel[uint32]
	half    atomic.Int64 // time.Duration
}

func NewBlinker(out hal.Output, periods *pipe.Channel[uint32], initial time.Duration) *Blinker {
	b := &Blinker{out: out, periods: periods}
	b.half.Store(int64(initial))
	return b
}

func (b *Blinker) HalfPeriod() time.Duration { return time.Duration(b.half.Load()) }

// Tick takes one pending half period, if any, and returns the current one.
func (b *Blinker) Tick() time.Duration {
	if ms, ok := b.periods.TryReceive(); ok && ms > 0 {
		b.half.Store(int64(time.Duration(ms) * time.Millisecond))
		println("[blink] half period", ms, "ms")
	}
	return b.HalfPeriod()
}

func (b *Blinker) Run(ctx context.Context) {
	for {
		half := b.Tick()
		b.out.Set(true)
		if !timex.Sleep(ctx, half) {
			return
		}
		b.out.Set(false)
		if !timex.Sleep(ctx, half) {
			return
		}
	}
}
