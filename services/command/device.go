package command

import (
	"powermodule-go/errcode"
	"powermodule-go/types"
	"powermodule-go/x/pipe"
	"powermodule-go/x/strconvx"
)

// Links connects the command tree to the other tasks. Channels carry
// commands out; signals are only read, never consumed.
type Links struct {
	IDN string

	LED       *pipe.Channel[types.LedCommand]
	LEDStatus *pipe.Signal[bool]

	Power       *pipe.Channel[types.Override]
	PowerStatus *pipe.Signal[types.PowerState]
	Volts       *pipe.Signal[uint32]

	Cooling       *pipe.Channel[types.CoolingState]
	Speed         *pipe.Channel[uint16]
	CoolingStatus *pipe.Signal[types.CoolingState]
	SpeedStatus   *pipe.Signal[uint16]
}

// NewTree builds the device command tree.
func NewTree(l Links) *Node {
	return &Node{Children: []*Node{
		{Mnemonic: "*IDN", Query: reply(func() string { return l.IDN })},
		{
			Mnemonic: "LED",
			Default:  "TOGGle",
			Query: reply(func() string {
				if on, _ := l.LEDStatus.Load(); on {
					return "ON"
				}
				return "OFF"
			}),
			Children: []*Node{
				{Mnemonic: "TOGGle", Event: send(l.LED, types.LedToggle)},
				{Mnemonic: "ON", Event: send(l.LED, types.LedOn)},
				{Mnemonic: "OFF", Event: send(l.LED, types.LedOff)},
			},
		},
		{
			Mnemonic: "POWEr",
			Default:  "ON",
			Query: reply(func() string {
				s, _ := l.PowerStatus.Load()
				return s.String()
			}),
			Children: []*Node{
				{Mnemonic: "ON", Event: send(l.Power, types.ForceACDC)},
				{Mnemonic: "OFF", Event: send(l.Power, types.ForceOFF)},
				{Mnemonic: "AUTO", Event: send(l.Power, types.OverrideNone)},
				source(l, "DCDC", types.PowerDCDC, types.ForceDCDC),
				source(l, "ACDC", types.PowerACDC, types.ForceACDC),
			},
		},
		{
			Mnemonic: "SPEEd",
			Event:    speed(l.Speed),
			Query: reply(func() string {
				st, _ := l.CoolingStatus.Load()
				sp, _ := l.SpeedStatus.Load()
				return st.String() + "," + strconvx.FormatUint(uint64(sp))
			}),
			Children: []*Node{
				{Mnemonic: "ON", Event: send(l.Cooling, types.CoolingOn)},
				{Mnemonic: "OFF", Event: send(l.Cooling, types.CoolingOff)},
			},
		},
	}}
}

// source is the POWEr:DCDC / POWEr:ACDC branch.
func source(l Links, name string, state types.PowerState, force types.Override) *Node {
	return &Node{
		Mnemonic: name,
		Default:  "ON",
		Query: reply(func() string {
			if s, _ := l.PowerStatus.Load(); s == state {
				return "1"
			}
			return "0"
		}),
		Children: []*Node{
			{Mnemonic: "ON", Event: send(l.Power, force)},
			{Mnemonic: "OFF", Event: send(l.Power, types.ForceOFF)},
			{Mnemonic: "VAL", Query: reply(func() string {
				mv, _ := l.Volts.Load()
				return strconvx.FormatUint(uint64(mv))
			})},
		},
	}
}

// send queues v without blocking; a full queue fails the command.
func send[T any](ch *pipe.Channel[T], v T) func([]string) error {
	return func(params []string) error {
		if len(params) != 0 {
			return errcode.Wrap(errcode.InvalidParams, "event", "unexpected parameter")
		}
		return ch.TrySend(v)
	}
}

func reply(f func() string) func([]string) (string, error) {
	return func(params []string) (string, error) {
		if len(params) != 0 {
			return "", errcode.Wrap(errcode.InvalidParams, "query", "unexpected parameter")
		}
		return f(), nil
	}
}

// speed handles "SPEEd <percent>".
func speed(ch *pipe.Channel[uint16]) func([]string) error {
	return func(params []string) error {
		if len(params) != 1 {
			return errcode.Wrap(errcode.InvalidParams, "speed", "want one value")
		}
		v, err := strconvx.ParseUint(params[0], 16)
		if err != nil || v > uint64(types.MaxSpeed) {
			return errcode.Wrap(errcode.InvalidParams, "speed", params[0])
		}
		return ch.TrySend(uint16(v))
	}
}
