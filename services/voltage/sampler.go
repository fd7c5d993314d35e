package voltage

// Sampler yields one 12-bit sample per call.
type Sampler interface {
	Sample() uint16
}

type SamplerFunc func() uint16

func (f SamplerFunc) Sample() uint16 { return f() }

// FallibleSampler is a converter that can report a failed read.
// hal.ADC satisfies it.
type FallibleSampler interface {
	Read() (uint16, error)
}

// Steady turns read failures into a repeat of the last good value
// (zero before the first success).
func Steady(s FallibleSampler) Sampler {
	var last uint16
	return SamplerFunc(func() uint16 {
		if v, err := s.Read(); err == nil {
			last = v
		}
		return last
	})
}
