package saa

// freqTable holds the per-tick counter increment for every octave/offset
// pair, indexed by octave<<8 | offset.
//
// The SAA1099 tone frequency is
//
//	f = (clock / 512) * 2^octave / (511 - offset)
//
// and the counter has to cross its threshold twice per period, so each
// entry is the half-cycle rate 2f, scaled by 2^fracBits:
//
//	add = (clock << (fracBits + octave)) / (256 * (511 - offset))
//
// At the default 8 MHz clock this runs from 61 Hz (octave 0, offset 0)
// up to 7.8 kHz (octave 7, offset 255).
type freqTable [2048]uint64

func newFreqTable(clockRate uint32) *freqTable {
	t := &freqTable{}
	for octave := 0; octave < 8; octave++ {
		for offset := 0; offset < 256; offset++ {
			t[octave<<8|offset] = (uint64(clockRate) << (fracBits + octave)) / uint64(256*(511-offset))
		}
	}
	return t
}

func (t *freqTable) add(octave, offset uint8) uint64 {
	return t[int(octave&0x07)<<8|int(offset)]
}

// sampleThreshold is the counter value that marks one output sub-tick
// period elapsed: the sample rate multiplied by the oversample factor,
// in the same fixed point as the table.
func sampleThreshold(sampleRate uint32, oversample uint) uint64 {
	return uint64(sampleRate) << (fracBits + oversample)
}
