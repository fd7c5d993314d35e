package actuator

import (
	"context"
	"testing"
	"time"

	"powermodule-go/services/hal"
	"powermodule-go/types"
	"powermodule-go/x/pipe"
)

func TestLEDOneCommandPerTick(t *testing.T) {
	h := hal.NewHost()
	out, _ := h.ClaimOutput("led", 15, true)
	cmds := pipe.NewChannel[types.LedCommand](0)
	status := pipe.NewSignal[bool]()
	l := NewLED(out, cmds, status, 0)
	if h.Output(15).Get() {
		t.Fatalf("LED not driven low at start")
	}

	_ = cmds.TrySend(types.LedOn)
	_ = cmds.TrySend(types.LedToggle)
	_ = cmds.TrySend(types.LedToggle)

	steps := []bool{true, false, true}
	for i, want := range steps {
		if !l.Tick() {
			t.Fatalf("tick %d applied nothing", i)
		}
		if got := h.Output(15).Get(); got != want {
			t.Fatalf("tick %d: level=%v want %v", i, got, want)
		}
		if s, _ := status.TryTake(); s != want {
			t.Fatalf("tick %d: status=%v want %v", i, s, want)
		}
		if l.On() != want {
			t.Fatalf("tick %d: cached=%v want %v", i, l.On(), want)
		}
	}
	if l.Tick() {
		t.Fatalf("empty queue applied a command")
	}
}

type coolingRig struct {
	c   *Cooling
	p   CoolingPorts
	out *hal.FakeOutput
}

func newCooling(t *testing.T) *coolingRig {
	t.Helper()
	h := hal.NewHost()
	out, err := h.ClaimOutput("cooling", 14, false)
	if err != nil {
		t.Fatal(err)
	}
	p := CoolingPorts{
		State:       pipe.NewChannel[types.CoolingState](0),
		Speed:       pipe.NewChannel[uint16](0),
		StateStatus: pipe.NewSignal[types.CoolingState](),
		SpeedStatus: pipe.NewSignal[uint16](),
		Duty:        pipe.NewSignal[uint16](),
	}
	return &coolingRig{c: NewCooling(out, p, 255, 0), p: p, out: h.Output(14)}
}

func TestCoolingOnAppliesStoredSpeed(t *testing.T) {
	r := newCooling(t)
	_ = r.p.Speed.TrySend(40)
	r.c.Tick()
	if _, ok := r.p.Duty.TryTake(); ok {
		t.Fatalf("duty published while cooling is off")
	}
	if s, _ := r.p.SpeedStatus.Load(); s != 40 {
		t.Fatalf("speed status=%d", s)
	}

	_ = r.p.State.TrySend(types.CoolingOn)
	r.c.Tick()
	if !r.out.Get() {
		t.Fatalf("cooling output low after On")
	}
	if d, ok := r.p.Duty.TryTake(); !ok || d != 102 {
		t.Fatalf("duty=(%d,%v) want 102", d, ok)
	}
	if s, _ := r.p.StateStatus.Load(); s != types.CoolingOn {
		t.Fatalf("state status=%s", s)
	}
}

func TestCoolingOffResetsSpeedAndDiscardsQueue(t *testing.T) {
	r := newCooling(t)
	_ = r.p.State.TrySend(types.CoolingOn)
	_ = r.p.Speed.TrySend(80)
	r.c.Tick()
	if r.c.Speed() != 80 || r.c.State() != types.CoolingOn {
		t.Fatalf("speed=%d state=%s", r.c.Speed(), r.c.State())
	}

	_ = r.p.Speed.TrySend(10)
	_ = r.p.Speed.TrySend(20)
	_ = r.p.State.TrySend(types.CoolingOff)
	// state is handled before speed, so the queued speeds are stale
	r.p.Duty.TryTake()
	r.c.Tick()
	if r.out.Get() || r.c.State() != types.CoolingOff {
		t.Fatalf("cooling output high after Off")
	}
	if r.c.Speed() != 0 || r.p.Speed.Len() != 0 {
		t.Fatalf("speed=%d queued=%d", r.c.Speed(), r.p.Speed.Len())
	}
	if d, ok := r.p.Duty.TryTake(); !ok || d != 0 {
		t.Fatalf("duty=(%d,%v) want 0", d, ok)
	}
}

func TestCoolingSpeedClamped(t *testing.T) {
	r := newCooling(t)
	_ = r.p.State.TrySend(types.CoolingOn)
	_ = r.p.Speed.TrySend(250)
	r.c.Tick()
	if r.c.Speed() != 100 {
		t.Fatalf("speed=%d want 100", r.c.Speed())
	}
	if d, _ := r.p.Duty.TryTake(); d != 255 {
		t.Fatalf("duty=%d want 255", d)
	}
}

func TestDutyLatestWins(t *testing.T) {
	h := hal.NewHost()
	pwm, _ := h.ClaimPWM("duty", 18, 1000, 255)
	in := pipe.NewSignal[uint16]()
	d := NewDuty(pwm, in, 0, 0)

	in.Signal(10)
	in.Signal(20)
	in.Signal(300)
	if lvl, ok := d.Tick(); !ok || lvl != 255 {
		t.Fatalf("Tick=(%d,%v) want clamp to 255", lvl, ok)
	}
	if h.PWM(18).Writes() != 1 {
		t.Fatalf("superseded values reached the PWM: writes=%d", h.PWM(18).Writes())
	}
	if _, ok := d.Tick(); ok {
		t.Fatalf("applied without a new value")
	}
}

func TestDutyRunRamps(t *testing.T) {
	h := hal.NewHost()
	pwm, _ := h.ClaimPWM("duty", 18, 1000, 100)
	in := pipe.NewSignal[uint16]()
	d := NewDuty(pwm, in, 20*time.Millisecond, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)
	in.Signal(80)

	deadline := time.Now().Add(time.Second)
	for h.PWM(18).Level() != 80 {
		if time.Now().After(deadline) {
			t.Fatalf("level=%d never reached 80", h.PWM(18).Level())
		}
		time.Sleep(time.Millisecond)
	}
	if w := h.PWM(18).Writes(); w != 4 {
		t.Fatalf("writes=%d want 4 ramp steps", w)
	}
}

func TestBlinkerTakesOnePeriodPerCycle(t *testing.T) {
	h := hal.NewHost()
	out, _ := h.ClaimOutput("blink", 25, false)
	periods := pipe.NewChannel[uint32](0)
	b := NewBlinker(out, periods, 10*time.Millisecond)

	if got := b.Tick(); got != 10*time.Millisecond {
		t.Fatalf("initial half=%v", got)
	}
	_ = periods.TrySend(500)
	_ = periods.TrySend(100)
	if got := b.Tick(); got != 500*time.Millisecond {
		t.Fatalf("half=%v want 500ms", got)
	}
	if got := b.Tick(); got != 100*time.Millisecond {
		t.Fatalf("half=%v want 100ms", got)
	}
}

func TestBlinkerRunToggles(t *testing.T) {
	h := hal.NewHost()
	out, _ := h.ClaimOutput("blink", 25, false)
	b := NewBlinker(out, pipe.NewChannel[uint32](0), time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	b.Run(ctx)
	if h.Output(25).Writes() < 4 {
		t.Fatalf("writes=%d, expected several toggles", h.Output(25).Writes())
	}
}
