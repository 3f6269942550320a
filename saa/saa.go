package saa

// Device is a complete SAA1099: six tone channels, two noise generators
// and two envelope generators wired as on the chip, behind an address
// latch and a data port.
//
//	channel  oscillator clocks  noise  envelope
//	0        noise 0            0      -
//	1        envelope 0         0      -
//	2        -                  0      0
//	3        noise 1            1      -
//	4        envelope 1         1      -
//	5        -                  1      1
//
// A Device is not safe for concurrent use. Register writes and sample
// generation must come from one goroutine, or be serialized by the
// caller.
type Device struct {
	freq  [6]*FreqGenerator
	noise [2]*NoiseGenerator
	env   [2]*EnvelopeGenerator
	amp   [6]*Amplifier

	hpLeft  *HighpassFilter
	hpRight *HighpassFilter

	latch uint8
	regs  [32]uint8

	outputEnabled bool
	sync          bool

	clockRate  uint32
	sampleRate uint32
	oversample uint
	format     Format
	ampModel   AmpModel
	noiseModel NoiseModel
	noiseSeed  uint32

	// Partial frame carried between Read calls on a Stream.
	pending []byte
}

// New builds a device from opts and runs the reset sequence, leaving it
// silent and muted.
func New(opts Options) *Device {
	opts = opts.withDefaults()

	d := &Device{
		ampModel:   opts.AmpModel,
		noiseModel: opts.NoiseModel,
		noiseSeed:  opts.NoiseSeed,
		format:     opts.Format,
		clockRate:  opts.ClockRate,
		sampleRate: opts.SampleRate,
		oversample: opts.Oversample,
	}

	d.noise[0] = NewNoiseGenerator(d.noiseSeed, d.noiseModel)
	d.noise[1] = NewNoiseGenerator(d.noiseSeed, d.noiseModel)
	d.env[0] = NewEnvelopeGenerator()
	d.env[1] = NewEnvelopeGenerator()

	d.freq[0] = NewFreqGenerator(d.noise[0], nil)
	d.freq[1] = NewFreqGenerator(nil, d.env[0])
	d.freq[2] = NewFreqGenerator(nil, nil)
	d.freq[3] = NewFreqGenerator(d.noise[1], nil)
	d.freq[4] = NewFreqGenerator(nil, d.env[1])
	d.freq[5] = NewFreqGenerator(nil, nil)

	d.amp[0] = NewAmplifier(d.freq[0], d.noise[0], nil, d.ampModel)
	d.amp[1] = NewAmplifier(d.freq[1], d.noise[0], nil, d.ampModel)
	d.amp[2] = NewAmplifier(d.freq[2], d.noise[0], d.env[0], d.ampModel)
	d.amp[3] = NewAmplifier(d.freq[3], d.noise[1], nil, d.ampModel)
	d.amp[4] = NewAmplifier(d.freq[4], d.noise[1], nil, d.ampModel)
	d.amp[5] = NewAmplifier(d.freq[5], d.noise[1], d.env[1], d.ampModel)

	d.hpLeft = NewHighpassFilter(d.sampleRate)
	d.hpRight = NewHighpassFilter(d.sampleRate)
	d.EnableHighpass(!opts.DisableHighpass)

	d.applyClockRate()
	d.applyThreshold()

	d.Clear()
	return d
}

// Reset returns every generator to its power-on state, reseeds the noise
// generators and runs the reset sequence. Configuration is kept.
func (d *Device) Reset() {
	for _, f := range d.freq {
		f.Reset()
	}
	for _, n := range d.noise {
		n.Reset(d.noiseSeed)
	}
	for _, e := range d.env {
		e.Reset()
	}
	for _, a := range d.amp {
		a.Reset()
	}
	d.hpLeft.Reset()
	d.hpRight.Reset()
	d.regs = [32]uint8{}
	d.latch = 0
	d.outputEnabled = false
	d.sync = false
	d.pending = d.pending[:0]
	d.Clear()
}

// Clear runs the reset sequence through the register port.
func (d *Device) Clear() {
	Clear(d)
}

// Clear writes the chip's reset sequence to a bus: hold everything in
// sync, zero every register, release sync with the output disabled and
// select register 0.
func Clear(bus Bus) {
	bus.WriteAddressData(RegControl, 0x02)
	for reg := 31; reg >= 0; reg-- {
		if reg != RegControl {
			bus.WriteAddressData(uint8(reg), 0)
		}
	}
	bus.WriteAddressData(RegControl, 0)
	bus.WriteAddress(0)
}

// ----------------------------------------------------------------------------
// Register port.
// ----------------------------------------------------------------------------

// WriteAddress loads the register latch. Selecting an envelope control
// register clocks that envelope when it runs on the external clock.
func (d *Device) WriteAddress(reg uint8) {
	d.latch = reg & 0x1f
	switch d.latch {
	case RegEnvelope0:
		d.env[0].ExternalClock()
	case RegEnvelope1:
		d.env[1].ExternalClock()
	}
}

// WriteData writes to the latched register. Unused registers ignore it.
func (d *Device) WriteData(data uint8) {
	d.regs[d.latch] = data

	switch reg := d.latch; reg {
	case 0x00, 0x01, 0x02, 0x03, 0x04, 0x05:
		d.amp[reg-RegAmplitude0].SetAmpLevel(data)
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d:
		d.freq[reg-RegFreqOffset0].SetOffset(data)
	case RegFreqOctave01, RegFreqOctave23, RegFreqOctave45:
		i := (reg - RegFreqOctave01) * 2
		d.freq[i].SetOctave(data & 0x07)
		d.freq[i+1].SetOctave((data >> 4) & 0x07)
	case RegToneMixer:
		for i, a := range d.amp {
			a.SetToneMixer(data&(1<<i) != 0)
		}
	case RegNoiseMixer:
		for i, a := range d.amp {
			a.SetNoiseMixer(data&(1<<i) != 0)
		}
	case RegNoiseSource:
		d.noise[0].SetSource(data & 0x03)
		d.noise[1].SetSource((data >> 4) & 0x03)
	case RegEnvelope0:
		d.env[0].SetEnvControl(data)
	case RegEnvelope1:
		d.env[1].SetEnvControl(data)
	case RegControl:
		d.writeControl(data)
	}
}

func (d *Device) WriteAddressData(reg uint8, data uint8) {
	d.WriteAddress(reg)
	d.WriteData(data)
}

// writeControl handles register 28: bit 1 syncs every generator, bit 0
// enables the output. Each half only acts on a change.
func (d *Device) writeControl(data uint8) {
	sync := data&0x02 != 0
	if sync != d.sync {
		for _, f := range d.freq {
			f.Sync(sync)
		}
		for _, n := range d.noise {
			n.Sync(sync)
		}
		for _, a := range d.amp {
			a.Sync(sync)
		}
		d.sync = sync
	}

	enabled := data&0x01 != 0
	if enabled != d.outputEnabled {
		for _, a := range d.amp {
			a.Mute(!enabled)
		}
		d.outputEnabled = enabled
	}
}

// ReadAddress returns the register latch. The chip has no read port; this
// is for debuggers.
func (d *Device) ReadAddress() uint8 {
	return d.latch
}

// ReadData returns the last byte written to the latched register.
func (d *Device) ReadData() uint8 {
	return d.regs[d.latch]
}

// OutputEnabled reports register 28 bit 0.
func (d *Device) OutputEnabled() bool {
	return d.outputEnabled
}

// Synced reports register 28 bit 1.
func (d *Device) Synced() bool {
	return d.sync
}

// ----------------------------------------------------------------------------
// Configuration. Safe between GenerateSamples calls.
// ----------------------------------------------------------------------------

func (d *Device) SetClockRate(hz uint32) {
	if hz == 0 {
		hz = DefaultClockRate
	}
	d.clockRate = hz
	d.applyClockRate()
}

func (d *Device) SetSampleRate(hz uint32) {
	if hz == 0 {
		hz = DefaultSampleRate
	}
	d.sampleRate = hz
	d.hpLeft.SetSamplingParameter(hz)
	d.hpRight.SetSamplingParameter(hz)
	d.applyThreshold()
}

// SetOversample sets the log2 of the internal ticks per output sample,
// clamped to MaxOversample.
func (d *Device) SetOversample(n uint) {
	if n > MaxOversample {
		n = MaxOversample
	}
	d.oversample = n
	d.applyThreshold()
}

func (d *Device) EnableHighpass(enable bool) {
	d.hpLeft.EnableFilter(enable)
	d.hpRight.EnableFilter(enable)
}

// SetFormat changes the sample layout produced by GenerateSamples.
func (d *Device) SetFormat(f Format) {
	d.format = f.normalize()
	d.pending = d.pending[:0]
}

func (d *Device) ClockRate() uint32  { return d.clockRate }
func (d *Device) SampleRate() uint32 { return d.sampleRate }
func (d *Device) Oversample() uint   { return d.oversample }
func (d *Device) Format() Format     { return d.format }

func (d *Device) applyClockRate() {
	table := newFreqTable(d.clockRate)
	for _, f := range d.freq {
		f.setTable(table)
	}
	for _, n := range d.noise {
		n.setClockRate(d.clockRate)
	}
}

func (d *Device) applyThreshold() {
	threshold := sampleThreshold(d.sampleRate, d.oversample)
	for _, f := range d.freq {
		f.setThreshold(threshold)
	}
	for _, n := range d.noise {
		n.setThreshold(threshold)
	}
}

// ----------------------------------------------------------------------------
// Component access for inspection.
// ----------------------------------------------------------------------------

func (d *Device) Oscillator(i int) *FreqGenerator   { return d.freq[i] }
func (d *Device) Noise(i int) *NoiseGenerator       { return d.noise[i] }
func (d *Device) Envelope(i int) *EnvelopeGenerator { return d.env[i] }
func (d *Device) Amplifier(i int) *Amplifier        { return d.amp[i] }
