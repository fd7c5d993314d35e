package system

import (
	"context"
	"sync"

	"powermodule-go/services/actuator"
	"powermodule-go/services/command"
	"powermodule-go/services/hal"
	"powermodule-go/services/power"
	"powermodule-go/services/voltage"
	"powermodule-go/setups"
)

// System is the assembled firmware: one task per component, all bound to
// a single Hub.
type System struct {
	Hub  *Hub
	Plan setups.Plan

	Monitor *voltage.Monitor
	Arbiter *power.Arbiter
	LED     *actuator.LED
	Cooling *actuator.Cooling
	Duty    *actuator.Duty
	Blinker *actuator.Blinker
	RX      *command.RX
	TX      *command.TX

	wg sync.WaitGroup
}

// New claims every resource the plan names from p and builds the tasks.
// It fails on the first claim error.
func New(p hal.Provider, plan setups.Plan) (*System, error) {
	h := NewHub()
	s := &System{Hub: h, Plan: plan}
	t := plan.Times

	claim := func(owner string, pin int) (hal.Output, error) {
		return p.ClaimOutput(owner, pin, false)
	}

	sense, err := p.ClaimADC("voltage", plan.ADC.Sense)
	if err != nil {
		return nil, err
	}
	ref, err := p.ClaimADC("voltage", plan.ADC.Ref)
	if err != nil {
		return nil, err
	}
	s.Monitor = voltage.New(voltage.Steady(sense), voltage.Steady(ref), h.Volts, voltage.Config{
		Samples:       plan.ADC.Samples,
		RefMillivolts: plan.ADC.RefMillivolts,
		SampleGap:     t.SampleGap,
	})

	acdc, err := claim("power", plan.Pins.ACDC)
	if err != nil {
		return nil, err
	}
	dcdc, err := claim("power", plan.Pins.DCDC)
	if err != nil {
		return nil, err
	}
	s.Arbiter = power.New(acdc, dcdc, h.PowerPorts(), t.PowerPoll)

	led, err := claim("led", plan.Pins.LED)
	if err != nil {
		return nil, err
	}
	s.LED = actuator.NewLED(led, h.LED, h.LEDStatus, t.ActuatorTick)

	cool, err := claim("cooling", plan.Pins.Cooling)
	if err != nil {
		return nil, err
	}
	s.Cooling = actuator.NewCooling(cool, h.CoolingPorts(), plan.PWM.Top, t.ActuatorTick)

	pwm, err := p.ClaimPWM("duty", plan.PWM.Pin, plan.PWM.FreqHz, plan.PWM.Top)
	if err != nil {
		return nil, err
	}
	s.Duty = actuator.NewDuty(pwm, h.Duty, t.DutyHold, plan.PWM.RampSteps)

	status, err := p.ClaimOutput("blink", plan.Pins.StatusLED, true)
	if err != nil {
		return nil, err
	}
	s.Blinker = actuator.NewBlinker(status, h.Blink, plan.InitialBlink)

	port, err := p.ClaimSerial("command", hal.SerialConfig{
		ID:   plan.UART.ID,
		TX:   plan.UART.TX,
		RX:   plan.UART.RX,
		Baud: plan.UART.Baud,
	})
	if err != nil {
		return nil, err
	}
	d := command.NewDispatcher(command.NewTree(h.CommandLinks(plan.IDN)))
	s.RX = command.NewRX(port, d, h.Responses, t.RxBackoff)
	s.TX = command.NewTX(port, h.Responses, t.TxGap)

	return s, nil
}

// Start seeds the initial duty and launches every task.
func (s *System) Start(ctx context.Context) {
	s.Hub.Duty.Signal(s.Plan.InitialDuty)
	for _, run := range []func(context.Context){
		s.Blinker.Run,
		s.Duty.Run,
		s.Monitor.Run,
		s.Arbiter.Run,
		s.LED.Run,
		s.Cooling.Run,
		s.RX.Run,
		s.TX.Run,
	} {
		s.wg.Add(1)
		go func(run func(context.Context)) {
			defer s.wg.Done()
			run(ctx)
		}(run)
	}
	println("[system] started")
}

// Wait blocks until every task has returned.
func (s *System) Wait() { s.wg.Wait() }
