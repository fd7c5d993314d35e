// Package power selects the power source from the sensed voltage and the
// latest override, and drives the two source-enable outputs.
package power

import (
	"context"
	"time"

	"powermodule-go/errcode"
	"powermodule-go/services/hal"
	"powermodule-go/types"
	"powermodule-go/x/pipe"
	"powermodule-go/x/strconvx"
)

// DetermineState is the pure selection rule. Force codes win; any other
// code falls back to the threshold, which is exclusive (760 mV is DCDC).
func DetermineState(o types.Override, mv uint32) types.PowerState {
	switch o {
	case types.ForceDCDC:
		return types.PowerDCDC
	case types.ForceACDC:
		return types.PowerACDC
	case types.ForceOFF:
		return types.PowerOFF
	}
	if mv > types.ACDCThresholdMv {
		return types.PowerACDC
	}
	return types.PowerDCDC
}

// Ports are the arbiter's links to the other tasks.
type Ports struct {
	Overrides *pipe.Channel[types.Override]  // in
	Volts     *pipe.Signal[uint32]           // in, millivolts
	Blink     *pipe.Channel[uint32]          // out, status LED half period in ms
	Status    *pipe.Signal[types.PowerState] // out, applied state
}

type Arbiter struct {
	p          Ports
	acdc, dcdc hal.Output
	poll       time.Duration

	override  types.Override
	mv        uint32
	haveVolts bool
	applied   types.PowerState
}

func New(acdc, dcdc hal.Output, p Ports, poll time.Duration) *Arbiter {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	return &Arbiter{p: p, acdc: acdc, dcdc: dcdc, poll: poll}
}

// Applied is the state last written to the outputs (PowerNone before the
// first evaluation).
func (a *Arbiter) Applied() types.PowerState { return a.applied }

// Tick runs one evaluation. It reports the applied state and whether the
// outputs were written.
func (a *Arbiter) Tick() (types.PowerState, bool) {
	for {
		o, ok := a.p.Overrides.TryReceive()
		if !ok {
			break
		}
		a.override = o
	}
	if mv, ok := a.p.Volts.TryTake(); ok {
		a.mv, a.haveVolts = mv, true
	}
	if !a.haveVolts {
		return a.applied, false
	}

	s := DetermineState(a.override, a.mv)
	if s == a.applied {
		return s, false
	}
	a.apply(s)
	return s, true
}

func (a *Arbiter) apply(s types.PowerState) {
	switch s {
	case types.PowerACDC:
		a.acdc.Set(false)
		a.dcdc.Set(true)
	case types.PowerDCDC:
		a.acdc.Set(true)
		a.dcdc.Set(false)
	default:
		a.acdc.Set(false)
		a.dcdc.Set(false)
	}
	a.applied = s
	println("[power]", s.String(), "at", strconvx.FormatUint(uint64(a.mv)), "mV, override", a.override.String())

	if err := a.p.Blink.TrySend(s.BlinkHalfPeriodMs()); err != nil {
		println("[power] blink period dropped:", string(errcode.Of(err)))
	}
	a.p.Status.Signal(s)
}

// Run ticks every poll period until ctx ends.
func (a *Arbiter) Run(ctx context.Context) {
	t := time.NewTicker(a.poll)
	defer t.Stop()
	for {
		a.Tick()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
