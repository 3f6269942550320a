package saa

// Stereo is one output contribution, left and right.
type Stereo struct {
	Left  uint16
	Right uint16
}

// Amplifier mixes one channel's tone with its noise generator and scales
// the result by the channel volume, or by the envelope when one is wired
// in and running.
type Amplifier struct {
	tone  *FreqGenerator
	noise *NoiseGenerator
	env   *EnvelopeGenerator
	model AmpModel

	levelByte uint8

	// Volume in the shapes the output stage needs: the nibble times 16
	// and 32, and with bit 0 dropped for the envelope path.
	left16, left32   uint16
	right16, right32 uint16
	leftVol          uint8
	rightVol         uint8

	// bit 0 tone, bit 1 noise
	mixMode uint8

	// 0, 1 or 2
	intermediate uint8

	mute bool
	sync bool
}

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewAmplifier(tone *FreqGenerator, noise *NoiseGenerator, env *EnvelopeGenerator, model AmpModel) *Amplifier {
	a := &Amplifier{
		tone:  tone,
		noise: noise,
		env:   env,
		model: model,
	}
	a.Reset()
	return a
}

func (a *Amplifier) Reset() {
	a.mixMode = 0
	a.intermediate = 0
	a.mute = true
	a.sync = false
	a.setLevels(0)
}

// SetAmpLevel takes the amplitude register: right volume in the high
// nibble, left in the low.
func (a *Amplifier) SetAmpLevel(level uint8) {
	if level != a.levelByte {
		a.setLevels(level)
	}
}

func (a *Amplifier) setLevels(level uint8) {
	a.levelByte = level
	a.left16 = uint16(level&0x0f) << 4
	a.left32 = a.left16 << 1
	a.right16 = uint16(level & 0xf0)
	a.right32 = a.right16 << 1
	a.leftVol = level & 0x0e
	a.rightVol = (level >> 4) & 0x0e
}

func (a *Amplifier) SetToneMixer(enabled bool) {
	if enabled {
		a.mixMode |= 0x01
	} else {
		a.mixMode &^= 0x01
	}
}

func (a *Amplifier) SetNoiseMixer(enabled bool) {
	if enabled {
		a.mixMode |= 0x02
	} else {
		a.mixMode &^= 0x02
	}
}

func (a *Amplifier) Mute(mute bool) {
	a.mute = mute
}

func (a *Amplifier) Sync(sync bool) {
	a.sync = sync
}

// Tick steps the oscillator whatever the mix mode, so that its triggers
// keep firing, and latches the mixed intermediate level.
func (a *Amplifier) Tick() {
	tone := a.tone.Tick()

	switch a.mixMode {
	case 0:
		a.intermediate = 0
	case 1:
		a.intermediate = tone
	case 2:
		a.intermediate = a.noise.LevelTimesTwo()
	case 3:
		a.intermediate = mixToneNoise(tone, a.noise.Level())
	}
}

// mixToneNoise gives full level for tone high with noise low, half for
// both high and nothing while the tone is low.
func mixToneNoise(tone, noise uint8) uint8 {
	if tone == 2 && noise == 1 {
		return 1
	}
	return tone
}

// Intermediate is the last mixed level, 0, 1 or 2.
func (a *Amplifier) Intermediate() uint8 {
	return a.intermediate
}

// Output is the contribution for the last mixed level.
func (a *Amplifier) Output() Stereo {
	if a.mute || a.sync {
		return Stereo{}
	}

	if a.env != nil && a.env.IsActive() {
		var scale uint16
		switch a.intermediate {
		case 0:
			scale = 2
		case 1:
			scale = 1
		default:
			return Stereo{}
		}
		return Stereo{
			Left:  effectiveAmplitude(a.model, a.env.LeftLevel(), a.leftVol) * scale,
			Right: effectiveAmplitude(a.model, a.env.RightLevel(), a.rightVol) * scale,
		}
	}

	switch a.intermediate {
	case 1:
		return Stereo{Left: a.left16, Right: a.right16}
	case 2:
		return Stereo{Left: a.left32, Right: a.right32}
	}
	return Stereo{}
}

// TickStereo is one sub-tick of the channel. A synced channel neither
// moves nor sounds.
func (a *Amplifier) TickStereo() Stereo {
	if a.sync {
		return Stereo{}
	}
	a.Tick()
	return a.Output()
}
