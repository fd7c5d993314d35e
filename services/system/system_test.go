package system

import (
	"context"
	"strings"
	"testing"
	"time"

	"powermodule-go/errcode"
	"powermodule-go/services/hal"
	"powermodule-go/setups"
	"powermodule-go/types"
)

func fastPlan() setups.Plan {
	p := setups.Selected
	p.ADC.Samples = 4
	p.Times = setups.Periods{
		PowerPoll:    time.Millisecond,
		ActuatorTick: time.Millisecond,
		DutyHold:     time.Millisecond,
		RxBackoff:    time.Millisecond,
		TxGap:        time.Millisecond,
		SampleGap:    time.Microsecond,
	}
	p.PWM.RampSteps = 0
	return p
}

type harness struct {
	t    *testing.T
	sys  *System
	host *hal.Host
	line *hal.Loopback
	ctx  context.Context
}

func start(t *testing.T, senseRaw uint16) *harness {
	t.Helper()
	plan := fastPlan()
	host := hal.NewHost()
	host.ADC(plan.ADC.Ref).Set(1200)
	host.ADC(plan.ADC.Sense).Set(senseRaw)

	sys, err := New(host, plan)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		sys.Wait()
	})
	sys.Start(ctx)
	return &harness{t: t, sys: sys, host: host, line: host.Serial(plan.UART.ID), ctx: ctx}
}

// ask sends one command line and returns the framed reply.
func (h *harness) ask(cmd string) string {
	h.t.Helper()
	h.line.Inject([]byte(cmd + "\r\n"))
	ctx, cancel := context.WithTimeout(h.ctx, time.Second)
	defer cancel()
	var got []byte
	buf := make([]byte, 64)
	for !strings.HasSuffix(string(got), "\r\n") {
		n, err := h.line.ReadContext(ctx, buf)
		if err != nil {
			h.t.Fatalf("%q: no reply (%v), got %q", cmd, err, got)
		}
		got = append(got, buf[:n]...)
	}
	return string(got)
}

func (h *harness) eventually(what string, cond func() bool) {
	h.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			h.t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestIdentifyOverSerial(t *testing.T) {
	h := start(t, 0)
	if got := h.ask("*IDN?"); got != "PowerModule version 0.1.0\r\n" {
		t.Fatalf("got %q", got)
	}
	if got := h.ask("FOO:BAR"); got != "ERR\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestThresholdSelectsACDC(t *testing.T) {
	h := start(t, 900)
	plan := h.sys.Plan
	h.eventually("ACDC applied", func() bool {
		s, _ := h.sys.Hub.PowerStatus.Load()
		return s == types.PowerACDC
	})
	if h.host.Output(plan.Pins.ACDC).Get() || !h.host.Output(plan.Pins.DCDC).Get() {
		t.Fatalf("ACDC pin levels wrong")
	}
	if got := h.ask("POWEr?"); got != "ACDC\r\n" {
		t.Fatalf("POWEr? -> %q", got)
	}
	if got := h.ask("POWE:ACDC:VAL?"); got != "900\r\n" {
		t.Fatalf("VAL? -> %q", got)
	}
	h.eventually("blinker at 500ms", func() bool {
		return h.sys.Blinker.HalfPeriod() == 500*time.Millisecond
	})
}

func TestOverrideAndAuto(t *testing.T) {
	h := start(t, 900)
	plan := h.sys.Plan
	h.eventually("first evaluation", func() bool {
		_, ok := h.sys.Hub.PowerStatus.Load()
		return ok
	})

	if got := h.ask("POWE:DCDC:ON"); got != "\r\n" {
		t.Fatalf("got %q", got)
	}
	h.eventually("DCDC forced", func() bool {
		return h.host.Output(plan.Pins.ACDC).Get() && !h.host.Output(plan.Pins.DCDC).Get()
	})

	h.ask("POWEr:OFF")
	h.eventually("OFF", func() bool {
		s, _ := h.sys.Hub.PowerStatus.Load()
		return s == types.PowerOFF
	})
	if h.host.Output(plan.Pins.ACDC).Get() || h.host.Output(plan.Pins.DCDC).Get() {
		t.Fatalf("OFF must drive both enables low")
	}

	h.ask("POWEr:AUTO")
	h.eventually("threshold mode", func() bool {
		s, _ := h.sys.Hub.PowerStatus.Load()
		return s == types.PowerACDC
	})
}

func TestLEDAndCoolingOverSerial(t *testing.T) {
	h := start(t, 0)
	plan := h.sys.Plan

	h.ask("LED:ON")
	h.eventually("LED on", func() bool { return h.host.Output(plan.Pins.LED).Get() })
	if got := h.ask("LED?"); got != "ON\r\n" {
		t.Fatalf("LED? -> %q", got)
	}

	h.ask("SPEEd:ON")
	h.ask("SPEEd 50")
	h.eventually("duty 127", func() bool { return h.host.PWM(plan.PWM.Pin).Level() == 127 })
	if !h.host.Output(plan.Pins.Cooling).Get() {
		t.Fatalf("cooling output low")
	}
	if got := h.ask("SPEEd?"); got != "ON,50\r\n" {
		t.Fatalf("SPEEd? -> %q", got)
	}

	h.ask("SPEEd:OFF")
	h.eventually("duty 0", func() bool { return h.host.PWM(plan.PWM.Pin).Level() == 0 })
	if got := h.ask("SPEEd?"); got != "OFF,0\r\n" {
		t.Fatalf("SPEEd? -> %q", got)
	}
}

func TestInitialDutyApplied(t *testing.T) {
	h := start(t, 0)
	h.eventually("initial duty", func() bool {
		return h.host.PWM(h.sys.Plan.PWM.Pin).Level() == h.sys.Plan.InitialDuty
	})
}

func TestPinAliasRejected(t *testing.T) {
	plan := fastPlan()
	plan.Pins.Cooling = plan.Pins.LED
	if _, err := New(hal.NewHost(), plan); errcode.Of(err) != errcode.PinInUse {
		t.Fatalf("New: got %v want pin_in_use", err)
	}
}

func TestSnapshot(t *testing.T) {
	h := NewHub()
	h.Volts.Signal(812)
	h.PowerStatus.Signal(types.PowerACDC)
	h.SpeedStatus.Signal(30)
	s := h.Snapshot()
	if s.MilliV != 812 || !s.HaveVolts || s.Power != types.PowerACDC || s.Speed != 30 {
		t.Fatalf("snapshot=%+v", s)
	}
	if _, ok := h.Volts.TryTake(); !ok {
		t.Fatalf("snapshot consumed the voltage")
	}
}
