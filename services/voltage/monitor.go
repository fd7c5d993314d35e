// Package voltage samples the sense input against a reference input and
// publishes the mean in millivolts.
package voltage

import (
	"context"
	"sync/atomic"
	"time"

	"powermodule-go/errcode"
	"powermodule-go/x/mathx"
	"powermodule-go/x/pipe"

	"tinygo.org/x/drivers"
)

type Config struct {
	Samples       int           // per batch, >0
	RefMillivolts uint32        // voltage present on the reference input
	SampleGap     time.Duration // pause between consecutive samples
}

// Monitor is a drivers.Sensor reporting drivers.Voltage.
type Monitor struct {
	sense, ref Sampler
	out        *pipe.Signal[uint32]
	cfg        Config

	reference uint32 // calibrated mean of ref, >= 1 once set
	mv        atomic.Uint32

	sleep func(time.Duration)
}

var _ drivers.Sensor = (*Monitor)(nil)

func New(sense, ref Sampler, out *pipe.Signal[uint32], cfg Config) *Monitor {
	if cfg.Samples <= 0 {
		cfg.Samples = 1
	}
	return &Monitor{sense: sense, ref: ref, out: out, cfg: cfg, sleep: time.Sleep}
}

// Calibrate measures the reference input and stores the clamped mean.
func (m *Monitor) Calibrate() uint32 {
	m.reference = mathx.Max(m.mean(m.ref), 1)
	println("[voltage] calibration sample:", m.reference)
	return m.reference
}

// Reference is the stored calibration value, 0 before Calibrate.
func (m *Monitor) Reference() uint32 { return m.reference }

// Measure takes one batch from the sense input and converts it.
func (m *Monitor) Measure() uint32 {
	if m.reference == 0 {
		m.Calibrate()
	}
	return m.mean(m.sense) * m.cfg.RefMillivolts / m.reference
}

// Update implements drivers.Sensor. It measures and publishes one batch.
func (m *Monitor) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return errcode.Unsupported
	}
	mv := m.Measure()
	m.mv.Store(mv)
	if m.out != nil {
		m.out.Signal(mv)
	}
	return nil
}

// Voltage is the last published value in millivolts.
func (m *Monitor) Voltage() uint32 { return m.mv.Load() }

// Run calibrates once, then publishes batches until ctx ends.
func (m *Monitor) Run(ctx context.Context) {
	m.Calibrate()
	for ctx.Err() == nil {
		_ = m.Update(drivers.Voltage)
	}
}

func (m *Monitor) mean(s Sampler) uint32 {
	var sum uint32
	n := m.cfg.Samples
	for i := 0; i < n; i++ {
		sum += uint32(s.Sample())
		if m.cfg.SampleGap > 0 {
			m.sleep(m.cfg.SampleGap)
		}
	}
	return mathx.FloorMean(sum, uint32(n))
}
