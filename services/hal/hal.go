// Package hal is the hardware boundary of the power module. Tasks see only
// the small interfaces below; a build-tagged provider supplies them.
package hal

import (
	"context"
	"sync"

	"powermodule-go/errcode"
)

// GPIO range valid on the RP2040 and mirrored by the host provider.
const (
	GPIOMin = 0
	GPIOMax = 29
)

// Output is a claimed digital output.
type Output interface {
	Number() int
	Set(on bool)
	Get() bool
	Toggle()
}

// PWM is a claimed PWM channel with logical levels 0..Top.
type PWM interface {
	Top() uint16
	Set(level uint16)
}

// ADC is one analog input. Read returns a 12-bit sample.
type ADC interface {
	Read() (uint16, error)
}

// SerialPort is a byte stream with independent read and write sides.
type SerialPort interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}

type SerialConfig struct {
	ID   string
	TX   int
	RX   int
	Baud uint32
}

// Provider hands out hardware. Every resource is claimed exactly once;
// a second claim fails with errcode.PinInUse or errcode.BusInUse.
type Provider interface {
	ClaimOutput(owner string, pin int, initial bool) (Output, error)
	ClaimPWM(owner string, pin int, freqHz uint64, top uint16) (PWM, error)
	ClaimADC(owner string, pin int) (ADC, error)
	ClaimSerial(owner string, cfg SerialConfig) (SerialPort, error)
}

// claims records resource ownership for a provider.
type claims struct {
	mu    sync.Mutex
	pins  map[int]string
	buses map[string]string
}

func newClaims() *claims {
	return &claims{pins: map[int]string{}, buses: map[string]string{}}
}

func (c *claims) pin(owner string, n int) error {
	if n < GPIOMin || n > GPIOMax {
		return &errcode.E{C: errcode.UnknownPin, Op: "claim", Msg: owner}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, taken := c.pins[n]; taken {
		return &errcode.E{C: errcode.PinInUse, Op: "claim", Msg: owner + " (held by " + prev + ")"}
	}
	c.pins[n] = owner
	return nil
}

func (c *claims) bus(owner, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, taken := c.buses[id]; taken {
		return &errcode.E{C: errcode.BusInUse, Op: "claim", Msg: owner + " (held by " + prev + ")"}
	}
	c.buses[id] = owner
	return nil
}

// Owner reports who holds pin n.
func (c *claims) owner(n int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.pins[n]
	return o, ok
}
