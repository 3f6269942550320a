package saa

import "math"

// HighpassCutoff is the corner frequency of the output DC blocker in Hz.
const HighpassCutoff = 5.0

// HighpassFilter is a one-pole DC blocker on one output channel. The chip
// output is unipolar, so without it every channel sits on a large offset.
type HighpassFilter struct {
	// Coefficients: z tracks the input with gain a and decay b.
	a, b float64

	// State of filter.
	z  float64
	vo float64

	enabled bool
}

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewHighpassFilter(sampleRate uint32) *HighpassFilter {
	f := &HighpassFilter{}
	f.Reset()
	f.EnableFilter(true)
	f.SetSamplingParameter(sampleRate)
	return f
}

func (f *HighpassFilter) Reset() {
	f.z = 0
	f.vo = 0
}

func (f *HighpassFilter) EnableFilter(enable bool) {
	f.enabled = enable
}

func (f *HighpassFilter) Enabled() bool {
	return f.enabled
}

// ----------------------------------------------------------------------------
// Setup of the filter coefficients for a sample rate.
// ----------------------------------------------------------------------------
func (f *HighpassFilter) SetSamplingParameter(sampleRate uint32) {
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	// b = 0.99928787 at 44.1 kHz
	f.b = math.Exp(-2.0 * math.Pi * HighpassCutoff / float64(sampleRate))
	f.a = 1.0 - f.b
}

// Clock runs one sample through the filter.
func (f *HighpassFilter) Clock(vi float64) {
	if !f.enabled {
		f.vo = vi
		return
	}

	f.z = f.a*vi + f.b*f.z
	f.vo = vi - f.z
}

func (f *HighpassFilter) Output() float64 {
	return f.vo
}
