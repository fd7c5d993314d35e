// Package system builds the shared channels and signals once at boot and
// wires every task to its hardware and peers.
package system

import (
	"powermodule-go/services/actuator"
	"powermodule-go/services/command"
	"powermodule-go/services/power"
	"powermodule-go/types"
	"powermodule-go/x/pipe"
)

// Hub holds every cross-task channel and signal. It is created once and
// handed out; nothing is ever replaced.
type Hub struct {
	// Command queues
	LED       *pipe.Channel[types.LedCommand]
	Power     *pipe.Channel[types.Override]
	Cooling   *pipe.Channel[types.CoolingState]
	Speed     *pipe.Channel[uint16]
	Blink     *pipe.Channel[uint32]
	Responses *pipe.Channel[string]

	// Latest-value cells
	Volts         *pipe.Signal[uint32]
	Duty          *pipe.Signal[uint16]
	PowerStatus   *pipe.Signal[types.PowerState]
	LEDStatus     *pipe.Signal[bool]
	CoolingStatus *pipe.Signal[types.CoolingState]
	SpeedStatus   *pipe.Signal[uint16]
}

func NewHub() *Hub {
	return &Hub{
		LED:       pipe.NewChannel[types.LedCommand](pipe.DefaultCapacity),
		Power:     pipe.NewChannel[types.Override](pipe.DefaultCapacity),
		Cooling:   pipe.NewChannel[types.CoolingState](pipe.DefaultCapacity),
		Speed:     pipe.NewChannel[uint16](pipe.DefaultCapacity),
		Blink:     pipe.NewChannel[uint32](pipe.DefaultCapacity),
		Responses: pipe.NewChannel[string](pipe.DefaultCapacity),

		Volts:         pipe.NewSignal[uint32](),
		Duty:          pipe.NewSignal[uint16](),
		PowerStatus:   pipe.NewSignal[types.PowerState](),
		LEDStatus:     pipe.NewSignal[bool](),
		CoolingStatus: pipe.NewSignal[types.CoolingState](),
		SpeedStatus:   pipe.NewSignal[uint16](),
	}
}

func (h *Hub) PowerPorts() power.Ports {
	return power.Ports{
		Overrides: h.Power,
		Volts:     h.Volts,
		Blink:     h.Blink,
		Status:    h.PowerStatus,
	}
}

func (h *Hub) CoolingPorts() actuator.CoolingPorts {
	return actuator.CoolingPorts{
		State:       h.Cooling,
		Speed:       h.Speed,
		StateStatus: h.CoolingStatus,
		SpeedStatus: h.SpeedStatus,
		Duty:        h.Duty,
	}
}

func (h *Hub) CommandLinks(idn string) command.Links {
	return command.Links{
		IDN:           idn,
		LED:           h.LED,
		LEDStatus:     h.LEDStatus,
		Power:         h.Power,
		PowerStatus:   h.PowerStatus,
		Volts:         h.Volts,
		Cooling:       h.Cooling,
		Speed:         h.Speed,
		CoolingStatus: h.CoolingStatus,
		SpeedStatus:   h.SpeedStatus,
	}
}

// Snapshot is a non-consuming read of every status cell.
type Snapshot struct {
	Power     types.PowerState
	MilliV    uint32
	HaveVolts bool
	LED       bool
	Cooling   types.CoolingState
	Speed     uint16
}

func (h *Hub) Snapshot() Snapshot {
	var s Snapshot
	s.Power, _ = h.PowerStatus.Load()
	s.MilliV, s.HaveVolts = h.Volts.Load()
	s.LED, _ = h.LEDStatus.Load()
	s.Cooling, _ = h.CoolingStatus.Load()
	s.Speed, _ = h.SpeedStatus.Load()
	return s
}
