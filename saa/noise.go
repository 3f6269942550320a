package saa

// NoiseGenerator is a 32 bit pseudo-random bit source. Sources 0-2 run it
// from the internal clock at clock/256, clock/512 and clock/1024; source
// 3 steps it once per half-cycle of the oscillator wired to it.
type NoiseGenerator struct {
	counter   uint64
	add       uint64
	base      uint64
	threshold uint64

	source uint8
	rand   uint32
	bit    uint8
	model  NoiseModel
	sync   bool
}

const noiseSourceTriggered = 3

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewNoiseGenerator(seed uint32, model NoiseModel) *NoiseGenerator {
	n := &NoiseGenerator{model: model}
	n.Seed(seed)
	n.setClockRate(DefaultClockRate)
	n.threshold = sampleThreshold(DefaultSampleRate, DefaultOversample)
	return n
}

func (n *NoiseGenerator) Reset(seed uint32) {
	n.counter = 0
	n.sync = false
	n.SetSource(0)
	n.Seed(seed)
}

// Seed reloads the generator register.
func (n *NoiseGenerator) Seed(seed uint32) {
	n.rand = seed
	n.bit = 0
	if n.model == NoiseShiftTap {
		n.bit = uint8(seed & 0x01)
	}
}

// SetSource selects the clock source (0-3).
func (n *NoiseGenerator) SetSource(source uint8) {
	n.source = source & 0x03
	n.add = n.base >> n.source
}

// Trigger steps the generator when it is clocked by its oscillator.
func (n *NoiseGenerator) Trigger() {
	if n.source == noiseSourceTriggered {
		n.step()
	}
}

// Tick advances the internal clock by one sub-tick and returns the
// output bit.
func (n *NoiseGenerator) Tick() uint8 {
	if !n.sync && n.source != noiseSourceTriggered {
		n.counter += n.add
		for n.counter >= n.threshold {
			n.counter -= n.threshold
			n.step()
		}
	}
	return n.Level()
}

// Sync holds the internal clock at zero.
func (n *NoiseGenerator) Sync(sync bool) {
	if sync {
		n.counter = 0
	}
	n.sync = sync
}

// Level is the current output bit, 0 or 1.
func (n *NoiseGenerator) Level() uint8 {
	return n.bit
}

// LevelTimesTwo is Level scaled to the oscillator's 0/2 range.
func (n *NoiseGenerator) LevelTimesTwo() uint8 {
	return n.bit << 1
}

func (n *NoiseGenerator) step() {
	switch n.model {
	case NoiseCongruential:
		// The output is sampled before the register moves on.
		n.bit = 0
		if n.rand > 0x80000000 {
			n.bit = 1
		}
		n.rand = n.rand*110351245 + 12345
	default:
		// Taps at bits 30 and 2.
		t := n.rand & 0x40000004
		if t != 0 && t != 0x40000004 {
			n.rand = n.rand<<1 | 1
		} else {
			n.rand <<= 1
		}
		n.bit = uint8(n.rand & 0x01)
	}
}

func (n *NoiseGenerator) setClockRate(clockRate uint32) {
	n.base = (uint64(clockRate) << fracBits) / 256
	n.add = n.base >> n.source
}

func (n *NoiseGenerator) setThreshold(threshold uint64) {
	n.counter = rescale(n.counter, n.threshold, threshold)
	n.threshold = threshold
}
