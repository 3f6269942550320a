package saa

// Bus is the register side of the chip: an address latch and a data port.
// The SAA1099 is write only, so nothing on the bus returns a value.
type Bus interface {
	WriteAddress(reg uint8)
	WriteData(data uint8)
	WriteAddressData(reg uint8, data uint8)
}

// AmpModel selects how an amplitude nibble and an envelope level combine.
type AmpModel byte

// NoiseModel selects the noise generator feedback rule.
type NoiseModel byte

const (
	// Pulse-density lookup, matches real hardware.
	AmpPDM AmpModel = iota

	// Plain product of envelope and amplitude, as older emulators did it.
	AmpProduct
)

const (
	// Shift left, feed back a 1 when bits 30 and 2 differ.
	NoiseShiftTap NoiseModel = iota

	// Multiplicative congruential generator of the early emulators.
	NoiseCongruential
)

const (
	DefaultClockRate  uint32 = 8000000
	DefaultSampleRate uint32 = 44100
	DefaultOversample uint   = 6
	MaxOversample     uint   = 10
	DefaultNoiseSeed  uint32 = 0xffffffff
)

// Counters carry 12 bits of fraction.
const fracBits = 12

// Register addresses with a meaning on the chip.
const (
	RegAmplitude0   = 0x00
	RegFreqOffset0  = 0x08
	RegFreqOctave01 = 0x10
	RegFreqOctave23 = 0x11
	RegFreqOctave45 = 0x12
	RegToneMixer    = 0x14
	RegNoiseMixer   = 0x15
	RegNoiseSource  = 0x16
	RegEnvelope0    = 0x18
	RegEnvelope1    = 0x19
	RegControl      = 0x1c
)

// Options configures a Device. Zero values select the defaults.
type Options struct {
	ClockRate  uint32
	SampleRate uint32

	// Oversample is the log2 of the number of internal ticks per output
	// sample. Use NoOversample for a single tick.
	Oversample   uint
	NoOversample bool

	DisableHighpass bool
	Format          Format
	AmpModel        AmpModel
	NoiseModel      NoiseModel

	// NoiseSeed seeds both noise generators. Zero selects DefaultNoiseSeed
	// since an all zero register never leaves zero.
	NoiseSeed uint32
}

func (o Options) withDefaults() Options {
	if o.ClockRate == 0 {
		o.ClockRate = DefaultClockRate
	}
	if o.SampleRate == 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.NoOversample {
		o.Oversample = 0
	} else if o.Oversample == 0 {
		o.Oversample = DefaultOversample
	}
	if o.Oversample > MaxOversample {
		o.Oversample = MaxOversample
	}
	o.Format = o.Format.normalize()
	if o.NoiseSeed == 0 {
		o.NoiseSeed = DefaultNoiseSeed
	}
	return o
}
