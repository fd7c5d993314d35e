package types

// ------------------------
// Retained telemetry (bus topic "status/<name>")
// ------------------------

type PowerStatus struct {
	State     string `json:"state"`   // "DCDC" | "ACDC" | "OFF" | "NONE"
	MilliV    uint32 `json:"mV"`      // latest sensed voltage
	HaveVolts bool   `json:"have_mV"` // false until first measurement
	TS        int64  `json:"ts_ns"`   // publish Unix ns
}

type LEDStatus struct {
	On bool  `json:"on"`
	TS int64 `json:"ts_ns"`
}

type CoolingStatus struct {
	On    bool   `json:"on"`
	Speed uint16 `json:"speed"` // percent
	TS    int64  `json:"ts_ns"`
}

type Heartbeat struct {
	Uptime int64  `json:"uptime_ns"`
	Seq    uint32 `json:"seq"`
}
