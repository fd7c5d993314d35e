package types

// Sample is one 12-bit ADC conversion (0..4095).
type Sample = uint16

// ACDCThresholdMv is the sensed voltage above which the ACDC source is
// selected when no override is active. Exactly 760 selects DCDC.
const ACDCThresholdMv uint32 = 760

// PowerState is the applied power-source selection.
type PowerState uint8

const (
	PowerNone PowerState = iota // nothing applied yet
	PowerDCDC
	PowerACDC
	PowerOFF
)

func (s PowerState) String() string {
	switch s {
	case PowerDCDC:
		return "DCDC"
	case PowerACDC:
		return "ACDC"
	case PowerOFF:
		return "OFF"
	}
	return "NONE"
}

// BlinkHalfPeriodMs is the status-LED half period advertised for s.
func (s PowerState) BlinkHalfPeriodMs() uint32 {
	switch s {
	case PowerACDC:
		return 500
	case PowerDCDC:
		return 100
	}
	return 1000
}

// Override is the numeric override code carried on the power channel.
// OverrideNone means threshold mode.
type Override uint8

const (
	OverrideNone Override = 0
	ForceDCDC    Override = 1
	ForceACDC    Override = 2
	ForceOFF     Override = 3
)

func (o Override) String() string {
	switch o {
	case OverrideNone:
		return "auto"
	case ForceDCDC:
		return "force-dcdc"
	case ForceACDC:
		return "force-acdc"
	case ForceOFF:
		return "force-off"
	}
	return "unknown"
}
