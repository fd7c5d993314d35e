//go:build !rp2040

package hal

import (
	"context"
	"sync"
	"sync/atomic"

	"powermodule-go/errcode"
	"powermodule-go/x/mathx"
	"powermodule-go/x/shmring"
)

// Host is an in-memory provider for tests and the simulator console.
// Test code reaches the far side of each resource through the accessors.
type Host struct {
	c *claims

	mu      sync.Mutex
	outputs map[int]*FakeOutput
	pwms    map[int]*FakePWM
	adcs    map[int]*FakeADC
	serials map[string]*Loopback
}

var _ Provider = (*Host)(nil)

// NewProvider returns the provider for the current build.
func NewProvider() Provider { return NewHost() }

func NewHost() *Host {
	return &Host{
		c:       newClaims(),
		outputs: map[int]*FakeOutput{},
		pwms:    map[int]*FakePWM{},
		adcs:    map[int]*FakeADC{},
		serials: map[string]*Loopback{},
	}
}

func (h *Host) ClaimOutput(owner string, pin int, initial bool) (Output, error) {
	if err := h.c.pin(owner, pin); err != nil {
		return nil, err
	}
	o := &FakeOutput{n: pin}
	o.level.Store(initial)
	h.mu.Lock()
	h.outputs[pin] = o
	h.mu.Unlock()
	return o, nil
}

func (h *Host) ClaimPWM(owner string, pin int, freqHz uint64, top uint16) (PWM, error) {
	if err := h.c.pin(owner, pin); err != nil {
		return nil, err
	}
	p := &FakePWM{freq: freqHz, top: mathx.Max(top, 1)}
	h.mu.Lock()
	h.pwms[pin] = p
	h.mu.Unlock()
	return p, nil
}

func (h *Host) ClaimADC(owner string, pin int) (ADC, error) {
	if err := h.c.pin(owner, pin); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	a := h.adcs[pin]
	if a == nil {
		a = &FakeADC{}
		h.adcs[pin] = a
	}
	return a, nil
}

func (h *Host) ClaimSerial(owner string, cfg SerialConfig) (SerialPort, error) {
	if cfg.ID != "uart0" && cfg.ID != "uart1" {
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "claim", Msg: cfg.ID}
	}
	if err := h.c.bus(owner, cfg.ID); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	l := h.serials[cfg.ID]
	if l == nil {
		l = NewLoopback(1024)
		h.serials[cfg.ID] = l
	}
	return l.Device(), nil
}

// Output returns the fake behind a claimed output pin, or nil.
func (h *Host) Output(pin int) *FakeOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outputs[pin]
}

func (h *Host) PWM(pin int) *FakePWM {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pwms[pin]
}

// ADC returns the fake for pin, creating it so values can be staged
// before the input is claimed.
func (h *Host) ADC(pin int) *FakeADC {
	h.mu.Lock()
	defer h.mu.Unlock()
	a := h.adcs[pin]
	if a == nil {
		a = &FakeADC{}
		h.adcs[pin] = a
	}
	return a
}

// Serial returns the loopback for a claimed port, or nil.
func (h *Host) Serial(id string) *Loopback {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.serials[id]
}

// Owner reports which task claimed pin.
func (h *Host) Owner(pin int) (string, bool) { return h.c.owner(pin) }

// -----------------------------------------------------------------------------
// Fakes
// -----------------------------------------------------------------------------

// FakeOutput records its level and how many times it was driven.
type FakeOutput struct {
	n      int
	level  atomic.Bool
	writes atomic.Uint32
}

func (o *FakeOutput) Number() int { return o.n }
func (o *FakeOutput) Set(on bool) { o.level.Store(on); o.writes.Add(1) }
func (o *FakeOutput) Get() bool   { return o.level.Load() }
func (o *FakeOutput) Toggle()     { o.Set(!o.Get()) }

// Writes is the number of Set/Toggle calls since the claim.
func (o *FakeOutput) Writes() uint32 { return o.writes.Load() }

type FakePWM struct {
	freq   uint64
	top    uint16
	level  atomic.Uint32
	writes atomic.Uint32
}

func (p *FakePWM) Top() uint16 { return p.top }
func (p *FakePWM) Set(level uint16) {
	p.level.Store(uint32(mathx.Min(level, p.top)))
	p.writes.Add(1)
}
func (p *FakePWM) Level() uint16  { return uint16(p.level.Load()) }
func (p *FakePWM) Writes() uint32 { return p.writes.Load() }
func (p *FakePWM) FreqHz() uint64 { return p.freq }

// FakeADC returns a staged 12-bit value, or a staged error.
type FakeADC struct {
	mu    sync.Mutex
	value uint16
	err   error
	reads uint32
}

func (a *FakeADC) Read() (uint16, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reads++
	if a.err != nil {
		return 0, a.err
	}
	return a.value, nil
}

// Set stages v (masked to 12 bits).
func (a *FakeADC) Set(v uint16) {
	a.mu.Lock()
	a.value = v & 0x0FFF
	a.mu.Unlock()
}

func (a *FakeADC) SetErr(err error) {
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
}

func (a *FakeADC) Reads() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reads
}

// -----------------------------------------------------------------------------
// Loopback serial
// -----------------------------------------------------------------------------

// Loopback is a serial line backed by two rings: one toward the device and
// one back from it.
type Loopback struct {
	toDev   *shmring.Ring
	fromDev *shmring.Ring
}

func NewLoopback(size int) *Loopback {
	return &Loopback{toDev: shmring.New(size), fromDev: shmring.New(size)}
}

// Device is the port the firmware side reads and writes.
func (l *Loopback) Device() SerialPort { return devicePort{l} }

// Inject queues bytes for the device to receive; it returns how many fit.
func (l *Loopback) Inject(p []byte) int { return l.toDev.WriteFrom(p) }

// ReadContext reads bytes the device has written.
func (l *Loopback) ReadContext(ctx context.Context, buf []byte) (int, error) {
	return l.fromDev.ReadContext(ctx, buf)
}

// Discard drops bytes the device wrote that nobody read and reports how many.
func (l *Loopback) Discard() int {
	var buf [64]byte
	total := 0
	for {
		n := l.fromDev.ReadInto(buf[:])
		if n == 0 {
			return total
		}
		total += n
	}
}

type devicePort struct{ l *Loopback }

func (d devicePort) Write(p []byte) (int, error) {
	return d.l.fromDev.WriteContext(context.Background(), p)
}

func (d devicePort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return d.l.toDev.ReadContext(ctx, buf)
}
