package setups

// PicoPowerModule is the power module board: a Pico with the enables on
// GP16/GP17 and the command UART on GP0/GP1.
func PicoPowerModule() Plan {
	p := Defaults()
	p.Pins = PinPlan{StatusLED: 25, LED: 15, Cooling: 14, ACDC: 16, DCDC: 17}
	p.PWM = PWMPlan{Pin: 18, FreqHz: 1_000, Top: 255, RampSteps: 10}
	p.ADC.Sense = 26
	p.ADC.Ref = 27
	p.UART = UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115_200}
	return p
}
