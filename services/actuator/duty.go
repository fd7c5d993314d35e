package actuator

import (
	"context"
	"time"

	"powermodule-go/services/hal"
	"powermodule-go/x/mathx"
	"powermodule-go/x/pipe"
	"powermodule-go/x/ramp"
	"powermodule-go/x/timex"
)

// Duty writes the latest requested level to the PWM channel. Values
// superseded before they are taken are never applied.
type Duty struct {
	pwm   hal.PWM
	in    *pipe.Signal[uint16]
	hold  time.Duration
	steps uint16
	level uint16
}

// NewDuty returns a controller that settles for hold after each change,
// spreading the change over steps increments when steps > 1.
func NewDuty(pwm hal.PWM, in *pipe.Signal[uint16], hold time.Duration, steps uint16) *Duty {
	return &Duty{pwm: pwm, in: in, hold: hold, steps: steps}
}

func (d *Duty) Level() uint16 { return d.level }

// Tick applies a pending level at once and reports it.
func (d *Duty) Tick() (uint16, bool) {
	v, ok := d.in.TryTake()
	if !ok {
		return d.level, false
	}
	d.set(v)
	return d.level, true
}

func (d *Duty) set(v uint16) {
	d.level = mathx.Min(v, d.pwm.Top())
	d.pwm.Set(d.level)
}

func (d *Duty) Run(ctx context.Context) {
	for {
		v, err := d.in.Wait(ctx)
		if err != nil {
			return
		}
		to := mathx.Min(v, d.pwm.Top())
		println("[pwm] duty", d.level, "->", to)
		if d.steps > 1 {
			gap := d.hold / time.Duration(d.steps)
			if !ramp.Linear(d.level, to, d.steps, func() bool { return timex.Sleep(ctx, gap) }, d.set) {
				return
			}
			if !timex.Sleep(ctx, gap) {
				return
			}
			continue
		}
		d.set(to)
		if !timex.Sleep(ctx, d.hold) {
			return
		}
	}
}
