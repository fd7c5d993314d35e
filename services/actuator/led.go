// Package actuator drives the user LED, the cooling output, the PWM duty
// and the status-LED blinker from their command queues.
package actuator

import (
	"context"
	"time"

	"powermodule-go/services/hal"
	"powermodule-go/types"
	"powermodule-go/x/pipe"
	"powermodule-go/x/timex"
)

// LED applies at most one queued command per tick.
type LED struct {
	out    hal.Output
	cmds   *pipe.Channel[types.LedCommand]
	status *pipe.Signal[bool]
	tick   time.Duration
	on     bool
}

func NewLED(out hal.Output, cmds *pipe.Channel[types.LedCommand], status *pipe.Signal[bool], tick time.Duration) *LED {
	out.Set(false)
	return &LED{out: out, cmds: cmds, status: status, tick: tick}
}

func (l *LED) On() bool { return l.on }

// Tick reports whether a command was applied.
func (l *LED) Tick() bool {
	c, ok := l.cmds.TryReceive()
	if !ok {
		return false
	}
	switch c {
	case types.LedOn:
		l.on = true
	case types.LedOff:
		l.on = false
	case types.LedToggle:
		l.on = !l.on
	default:
		println("[led] unknown command", uint8(c))
		return false
	}
	l.out.Set(l.on)
	println("[led]", c.String(), "->", l.on)
	l.status.Signal(l.on)
	return true
}

func (l *LED) Run(ctx context.Context) {
	for {
		l.Tick()
		if !timex.Sleep(ctx, l.tick) {
			return
		}
	}
}
