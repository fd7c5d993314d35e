// Package setups holds the board plan selected at build time.
package setups

import "time"

// Plan specifies wiring and operating parameters for one board.
// Tasks and the hal provider consume it; nothing reads pins from elsewhere.
type Plan struct {
	Pins  PinPlan
	PWM   PWMPlan
	ADC   ADCPlan
	UART  UARTPlan
	Times Periods

	IDN          string        // *IDN? reply
	InitialDuty  uint16        // duty applied at boot, 0..PWM.Top
	InitialBlink time.Duration // status LED half period before the first power decision
}

type PinPlan struct {
	StatusLED int // blinker output
	LED       int // user LED
	Cooling   int // cooling enable
	ACDC      int // ACDC source enable
	DCDC      int // DCDC source enable
}

type PWMPlan struct {
	Pin    int
	FreqHz uint64
	Top    uint16 // logical resolution (0..Top)

	// RampSteps spreads each duty change across Times.DutyHold.
	// 0 applies the new duty at once.
	RampSteps uint16
}

type ADCPlan struct {
	Sense         int    // measured input
	Ref           int    // reference input
	Samples       int    // samples per batch
	RefMillivolts uint32 // voltage of the reference input
}

type UARTPlan struct {
	ID   string // "uart0" | "uart1"
	TX   int
	RX   int
	Baud uint32
}

type Periods struct {
	PowerPoll    time.Duration
	ActuatorTick time.Duration
	DutyHold     time.Duration // settle after each duty change
	RxBackoff    time.Duration
	TxGap        time.Duration
	SampleGap    time.Duration
}

// Defaults are the timings and constants shared by every board.
func Defaults() Plan {
	return Plan{
		ADC: ADCPlan{Samples: 300, RefMillivolts: 1200},
		Times: Periods{
			PowerPoll:    100 * time.Millisecond,
			ActuatorTick: 10 * time.Millisecond,
			DutyHold:     100 * time.Millisecond,
			RxBackoff:    100 * time.Millisecond,
			TxGap:        100 * time.Millisecond,
			SampleGap:    time.Microsecond,
		},
		IDN:          "PowerModule version 0.1.0",
		InitialDuty:  50,
		InitialBlink: 10 * time.Millisecond,
	}
}
