package actuator

import (
	"context"
	"time"

	"powermodule-go/services/hal"
	"powermodule-go/types"
	"powermodule-go/x/mathx"
	"powermodule-go/x/pipe"
	"powermodule-go/x/timex"
)

type CoolingPorts struct {
	State       *pipe.Channel[types.CoolingState] // in
	Speed       *pipe.Channel[uint16]             // in, percent
	StateStatus *pipe.Signal[types.CoolingState]  // out
	SpeedStatus *pipe.Signal[uint16]              // out
	Duty        *pipe.Signal[uint16]              // out, 0..top
}

// Cooling owns the cooling enable output and converts speed into duty.
// Each tick applies at most one state command, then one speed command.
type Cooling struct {
	out  hal.Output
	p    CoolingPorts
	top  uint16
	tick time.Duration

	state     types.CoolingState
	speed     uint16
	haveSpeed bool
}

func NewCooling(out hal.Output, p CoolingPorts, pwmTop uint16, tick time.Duration) *Cooling {
	out.Set(false)
	return &Cooling{out: out, p: p, top: pwmTop, tick: tick}
}

func (c *Cooling) State() types.CoolingState { return c.state }
func (c *Cooling) Speed() uint16             { return c.speed }

func (c *Cooling) duty() uint16 { return mathx.Scale(c.speed, types.MaxSpeed, c.top) }

func (c *Cooling) Tick() {
	if cmd, ok := c.p.State.TryReceive(); ok {
		switch cmd {
		case types.CoolingOn:
			c.out.Set(true)
			c.state = types.CoolingOn
			if c.haveSpeed {
				c.p.Duty.Signal(c.duty())
			}
			println("[cooling] ON")
		default:
			c.out.Set(false)
			c.state = types.CoolingOff
			c.speed = 0
			if n := c.p.Speed.Drain(); n > 0 {
				println("[cooling] discarded", n, "stale speed commands")
			}
			c.p.Duty.Signal(0)
			c.p.SpeedStatus.Signal(c.speed)
			println("[cooling] OFF, speed reset")
		}
		c.p.StateStatus.Signal(c.state)
	}

	if v, ok := c.p.Speed.TryReceive(); ok {
		c.speed = mathx.Min(v, types.MaxSpeed)
		c.haveSpeed = true
		if c.state == types.CoolingOn {
			c.p.Duty.Signal(c.duty())
			println("[cooling] speed", c.speed)
		}
		c.p.SpeedStatus.Signal(c.speed)
	}
}

func (c *Cooling) Run(ctx context.Context) {
	for {
		c.Tick()
		if !timex.Sleep(ctx, c.tick) {
			return
		}
	}
}
