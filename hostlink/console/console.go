// Package console drives a host-side System through its serial loopback
// from an interactive shell.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"powermodule-go/errcode"
	"powermodule-go/services/hal"
	"powermodule-go/services/system"
	"powermodule-go/x/mathx"
)

const consoleKey = "$console"

// Console owns the host end of the command line.
type Console struct {
	Host       *hal.Host
	Sys        *system.System
	Timeout    time.Duration
	OutputJSON bool

	mu   sync.Mutex
	line *hal.Loopback
}

func New(host *hal.Host, sys *system.System) *Console {
	return &Console{
		Host:    host,
		Sys:     sys,
		Timeout: time.Second,
		line:    host.Serial(sys.Plan.UART.ID),
	}
}

// Exchange writes one command line and waits for its framed reply.
// Lines are serialized so replies are never interleaved.
func (c *Console) Exchange(line string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A reply that arrived after an earlier timeout belongs to that line.
	if n := c.line.Discard(); n > 0 {
		glog.Warningf("console: dropped %d stale reply bytes", n)
	}
	msg := []byte(line + "\r\n")
	if n := c.line.Inject(msg); n != len(msg) {
		return "", errcode.Wrap(errcode.QueueFull, "console", "line not accepted")
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	var got []byte
	buf := make([]byte, 64)
	for !strings.HasSuffix(string(got), "\r\n") {
		n, err := c.line.ReadContext(ctx, buf)
		if err != nil {
			return string(got), fmt.Errorf("%q: no reply: %w", line, err)
		}
		got = append(got, buf[:n]...)
	}
	return string(got), nil
}

// SetMillivolts stages the sense input so the next batches read mv.
func (c *Console) SetMillivolts(mv uint32) uint16 {
	adc := c.Sys.Plan.ADC
	ref, _ := c.Host.ADC(adc.Ref).Read()
	raw := uint16(mathx.Min(mv*uint32(ref)/adc.RefMillivolts, 0x0FFF))
	c.Host.ADC(adc.Sense).Set(raw)
	return raw
}

// Shell builds an ishell bound to c.
func (c *Console) Shell() *ishell.Shell {
	sh := ishell.New()
	sh.Set(consoleKey, c)
	sh.SetPrompt("powermodule > ")
	for _, cmd := range []*ishell.Cmd{&SendCmd, &VoltsCmd, &StatusCmd, &PinsCmd} {
		sh.AddCmd(cmd)
	}
	return sh
}

func from(c *ishell.Context) *Console {
	return c.Get(consoleKey).(*Console)
}

var (
	// SendCmd sends a raw command line.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "LINE",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("command line expected"))
				return
			}
			reply, err := from(c).Exchange(strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(strings.TrimRight(reply, "\r\n"))
		},
	}

	// VoltsCmd stages the sensed voltage.
	VoltsCmd = ishell.Cmd{
		Name:    "volts",
		Aliases: []string{"v"},
		Help:    "MILLIVOLTS",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("millivolts expected"))
				return
			}
			mv, err := strconv.ParseUint(c.Args[0], 10, 32)
			if err != nil {
				c.Err(err)
				return
			}
			raw := from(c).SetMillivolts(uint32(mv))
			c.Printf("sense raw %d\n", raw)
		},
	}

	// StatusCmd prints the device snapshot.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			con := from(c)
			snap := con.Sys.Hub.Snapshot()
			if con.OutputJSON {
				out, err := json.Marshal(snap)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			c.Printf("power   %s\n", snap.Power)
			if snap.HaveVolts {
				c.Printf("volts   %d mV\n", snap.MilliV)
			} else {
				c.Println("volts   -")
			}
			c.Printf("led     %v\n", snap.LED)
			c.Printf("cooling %s speed %d\n", snap.Cooling, snap.Speed)
		},
	}

	// PinsCmd prints the output levels and the duty.
	PinsCmd = ishell.Cmd{
		Name: "pins",
		Help: "",
		Func: func(c *ishell.Context) {
			con := from(c)
			p := con.Sys.Plan
			for _, pin := range []struct {
				name string
				n    int
			}{
				{"status", p.Pins.StatusLED},
				{"led", p.Pins.LED},
				{"cooling", p.Pins.Cooling},
				{"acdc", p.Pins.ACDC},
				{"dcdc", p.Pins.DCDC},
			} {
				c.Printf("%-8s GP%-2d %v\n", pin.name, pin.n, con.Host.Output(pin.n).Get())
			}
			c.Printf("%-8s GP%-2d %d/%d\n", "duty", p.PWM.Pin, con.Host.PWM(p.PWM.Pin).Level(), p.PWM.Top)
		},
	}
)
