//go:build rp2040

package hal

import (
	"context"
	"machine"
	"sync"

	"powermodule-go/errcode"
	"powermodule-go/x/mathx"
	"powermodule-go/x/timex"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// RP2 hands out RP2040 peripherals.
type RP2 struct {
	c       *claims
	adcOnce sync.Once
}

var _ Provider = (*RP2)(nil)

// NewProvider returns the provider for the current build.
func NewProvider() Provider { return NewRP2() }

func NewRP2() *RP2 { return &RP2{c: newClaims()} }

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

type rp2Output struct {
	p machine.Pin
	n int
}

func (o *rp2Output) Number() int { return o.n }
func (o *rp2Output) Set(on bool) { o.p.Set(on) }
func (o *rp2Output) Get() bool   { return o.p.Get() }
func (o *rp2Output) Toggle() {
	if o.p.Get() {
		o.p.Low()
	} else {
		o.p.High()
	}
}

func (r *RP2) ClaimOutput(owner string, pin int, initial bool) (Output, error) {
	if err := r.c.pin(owner, pin); err != nil {
		return nil, err
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Set(initial)
	return &rp2Output{p: p, n: pin}, nil
}

// -----------------------------------------------------------------------------
// PWM
// -----------------------------------------------------------------------------

// pwmCtrl avoids depending on machine's unexported slice type.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type rp2PWM struct {
	ctrl  pwmCtrl
	ch    uint8  // 0 => A, 1 => B
	top   uint16 // logical
	hwTop uint32
}

func (p *rp2PWM) Top() uint16 { return p.top }

func (p *rp2PWM) Set(level uint16) {
	level = mathx.Min(level, p.top)
	p.ctrl.Set(p.ch, uint32(level)*p.hwTop/uint32(p.top))
}

func (r *RP2) ClaimPWM(owner string, pin int, freqHz uint64, top uint16) (PWM, error) {
	if err := r.c.pin(owner, pin); err != nil {
		return nil, err
	}
	slice, err := machine.PWMPeripheral(machine.Pin(pin))
	if err != nil {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "pwm", Msg: owner, Err: err}
	}
	ctrl := pwmGroupBySlice(slice)
	period := timex.PeriodFromHz(freqHz)
	if err := ctrl.Configure(machine.PWMConfig{Period: period}); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "pwm", Msg: owner, Err: err}
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinPWM})
	return &rp2PWM{ctrl: ctrl, ch: uint8(pin & 1), top: mathx.Max(top, 1), hwTop: ctrl.Top()}, nil
}

// -----------------------------------------------------------------------------
// ADC
// -----------------------------------------------------------------------------

type rp2ADC struct{ a machine.ADC }

// Read scales machine's 16-bit reading back to the converter's 12 bits.
func (a *rp2ADC) Read() (uint16, error) { return a.a.Get() >> 4, nil }

func (r *RP2) ClaimADC(owner string, pin int) (ADC, error) {
	if pin < 26 || pin > 29 {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "adc", Msg: owner}
	}
	if err := r.c.pin(owner, pin); err != nil {
		return nil, err
	}
	r.adcOnce.Do(machine.InitADC)
	a := machine.ADC{Pin: machine.Pin(pin)}
	a.Configure(machine.ADCConfig{})
	return &rp2ADC{a: a}, nil
}

// -----------------------------------------------------------------------------
// UART
// -----------------------------------------------------------------------------

type rp2Serial struct{ u *uartx.UART }

func (p *rp2Serial) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2Serial) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

func (r *RP2) ClaimSerial(owner string, cfg SerialConfig) (SerialPort, error) {
	var hw *uartx.UART
	switch cfg.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "claim", Msg: cfg.ID}
	}
	if err := r.c.bus(owner, cfg.ID); err != nil {
		return nil, err
	}
	for _, n := range []int{cfg.TX, cfg.RX} {
		if err := r.c.pin(owner, n); err != nil {
			return nil, err
		}
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TX),
		RX:       machine.Pin(cfg.RX),
	}); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "uart", Msg: cfg.ID, Err: err}
	}
	return &rp2Serial{u: hw}, nil
}
