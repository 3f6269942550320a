package saa

import "math/bits"

// FreqGenerator is one of the six tone oscillators. Its output is a
// square wave at level 0 or 2. Oscillators 0 and 3 clock a noise
// generator and oscillators 1 and 4 clock an envelope generator on every
// half-cycle.
type FreqGenerator struct {
	counter   uint64
	add       uint64
	threshold uint64
	level     uint8

	curOffset  uint8
	curOctave  uint8
	nextOffset uint8
	nextOctave uint8

	newOffset bool
	newOctave bool

	// Offset written after a still pending octave: it waits one more
	// half-cycle.
	ignoreOffset bool

	sync bool

	table *freqTable
	noise *NoiseGenerator
	env   *EnvelopeGenerator
}

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewFreqGenerator(noise *NoiseGenerator, env *EnvelopeGenerator) *FreqGenerator {
	f := &FreqGenerator{
		noise: noise,
		env:   env,
	}
	f.table = newFreqTable(DefaultClockRate)
	f.threshold = sampleThreshold(DefaultSampleRate, DefaultOversample)
	f.setAdd()
	return f
}

func (f *FreqGenerator) Reset() {
	f.counter = 0
	f.level = 0
	f.curOffset = 0
	f.curOctave = 0
	f.nextOffset = 0
	f.nextOctave = 0
	f.newOffset = false
	f.newOctave = false
	f.ignoreOffset = false
	f.sync = false
	f.setAdd()
}

// SetOffset queues a new frequency offset. It takes effect at the next
// half-cycle, or one half-cycle later when it follows a new octave that
// has not been applied yet.
func (f *FreqGenerator) SetOffset(offset uint8) {
	f.nextOffset = offset
	f.newOffset = true
	f.ignoreOffset = f.newOctave

	if f.sync {
		f.applyPending()
	}
}

// SetOctave queues a new octave (0-7). An offset that was already queued
// is applied together with it.
func (f *FreqGenerator) SetOctave(octave uint8) {
	f.nextOctave = octave & 0x07
	f.newOctave = true
	if f.newOffset {
		f.ignoreOffset = false
	}

	if f.sync {
		f.applyPending()
	}
}

// Sync holds the counter at zero and the level where it is. Queued
// frequency writes apply when it is asserted, and later writes apply at
// once while it is held.
func (f *FreqGenerator) Sync(sync bool) {
	if sync {
		f.counter = 0
		f.applyPending()
	}
	f.sync = sync
}

func (f *FreqGenerator) Level() uint8 {
	return f.level
}

// Tick advances the oscillator by one sub-tick and returns its level.
func (f *FreqGenerator) Tick() uint8 {
	if f.sync {
		return f.level
	}

	f.counter += f.add
	for f.counter >= f.threshold {
		f.counter -= f.threshold
		f.level ^= 0x02

		switch {
		case f.noise != nil:
			f.noise.Trigger()
		case f.env != nil:
			f.env.InternalClock()
		}

		if f.newOctave || f.newOffset {
			f.halfCycle()
		}
	}

	return f.level
}

// halfCycle moves queued octave/offset data into use.
func (f *FreqGenerator) halfCycle() {
	switch {
	case f.newOctave && f.newOffset && f.ignoreOffset:
		// Octave first, offset on the following half-cycle.
		f.curOctave = f.nextOctave
		f.newOctave = false
		f.ignoreOffset = false
	case f.newOctave:
		f.curOctave = f.nextOctave
		if f.newOffset {
			f.curOffset = f.nextOffset
		}
		f.newOctave = false
		f.newOffset = false
	default:
		f.curOffset = f.nextOffset
		f.newOffset = false
	}
	f.setAdd()
}

func (f *FreqGenerator) applyPending() {
	if f.newOctave {
		f.curOctave = f.nextOctave
	}
	if f.newOffset {
		f.curOffset = f.nextOffset
	}
	f.newOctave = false
	f.newOffset = false
	f.ignoreOffset = false
	f.setAdd()
}

func (f *FreqGenerator) setAdd() {
	f.add = f.table.add(f.curOctave, f.curOffset)
}

func (f *FreqGenerator) setTable(t *freqTable) {
	f.table = t
	f.setAdd()
}

// setThreshold changes the sub-tick period, rescaling the counter so the
// oscillator keeps its phase.
func (f *FreqGenerator) setThreshold(threshold uint64) {
	f.counter = rescale(f.counter, f.threshold, threshold)
	f.threshold = threshold
}

// rescale returns v*to/from without overflowing. v must be below from.
func rescale(v, from, to uint64) uint64 {
	if from == 0 || from == to {
		return v
	}
	if v >= from {
		v %= from
	}
	hi, lo := bits.Mul64(v, to)
	q, _ := bits.Div64(hi, lo, from)
	return q
}
