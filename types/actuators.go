package types

type LedCommand uint8

const (
	LedOn LedCommand = iota
	LedOff
	LedToggle
)

func (c LedCommand) String() string {
	switch c {
	case LedOn:
		return "on"
	case LedOff:
		return "off"
	case LedToggle:
		return "toggle"
	}
	return "?"
}

type CoolingState uint8

const (
	CoolingOff CoolingState = iota
	CoolingOn
)

func (c CoolingState) String() string {
	if c == CoolingOn {
		return "ON"
	}
	return "OFF"
}

// MaxSpeed is the upper bound of a cooling speed in percent.
const MaxSpeed uint16 = 100
