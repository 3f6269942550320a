package saa

import (
	"encoding/binary"
	"errors"
	"math"
)

const serializeVersion = 1

var (
	ErrStateTooSmall = errors.New("saa: state buffer too small")
	ErrStateVersion  = errors.New("saa: unsupported state version")
)

// SerializeSize returns the number of bytes Serialize writes.
func (d *Device) SerializeSize() int {
	return len(d.appendState(nil))
}

// Serialize writes the chip state into buf. Configuration (clock, sample
// rate, oversample, format and models) is not included; restore into a
// device built with the same Options. Counters are rescaled on restore if
// the sample rate or oversample differ.
func (d *Device) Serialize(buf []byte) error {
	state := d.appendState(make([]byte, 0, len(buf)))
	if len(buf) < len(state) {
		return ErrStateTooSmall
	}
	copy(buf, state)
	return nil
}

// Deserialize restores state produced by Serialize.
func (d *Device) Deserialize(buf []byte) error {
	if len(buf) < d.SerializeSize() {
		return ErrStateTooSmall
	}
	if buf[0] != serializeVersion {
		return ErrStateVersion
	}

	r := stateReader{buf: buf, pos: 1}
	d.latch = r.u8() & 0x1f
	for i := range d.regs {
		d.regs[i] = r.u8()
	}
	d.outputEnabled = r.flag()
	d.sync = r.flag()

	for _, f := range d.freq {
		f.readState(&r)
	}
	for _, n := range d.noise {
		n.readState(&r)
	}
	for _, e := range d.env {
		e.readState(&r)
	}
	for _, a := range d.amp {
		a.readState(&r)
	}
	for _, h := range []*HighpassFilter{d.hpLeft, d.hpRight} {
		h.z = r.f64()
		h.vo = r.f64()
	}
	d.pending = d.pending[:0]
	return nil
}

func (d *Device) appendState(b []byte) []byte {
	b = append(b, serializeVersion, d.latch)
	b = append(b, d.regs[:]...)
	b = append(b, boolByte(d.outputEnabled), boolByte(d.sync))

	for _, f := range d.freq {
		b = f.appendState(b)
	}
	for _, n := range d.noise {
		b = n.appendState(b)
	}
	for _, e := range d.env {
		b = e.appendState(b)
	}
	for _, a := range d.amp {
		b = a.appendState(b)
	}
	for _, h := range []*HighpassFilter{d.hpLeft, d.hpRight} {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(h.z))
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(h.vo))
	}
	return b
}

func (f *FreqGenerator) appendState(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, f.counter)
	b = binary.LittleEndian.AppendUint64(b, f.threshold)
	return append(b,
		f.level,
		f.curOffset, f.curOctave,
		f.nextOffset, f.nextOctave,
		packFlags(f.newOffset, f.newOctave, f.ignoreOffset, f.sync),
	)
}

func (f *FreqGenerator) readState(r *stateReader) {
	counter, threshold := r.u64(), r.u64()
	f.counter = rescale(counter, threshold, f.threshold)
	f.level = r.u8() & 0x02
	f.curOffset = r.u8()
	f.curOctave = r.u8() & 0x07
	f.nextOffset = r.u8()
	f.nextOctave = r.u8() & 0x07
	flags := r.u8()
	f.newOffset = flags&0x01 != 0
	f.newOctave = flags&0x02 != 0
	f.ignoreOffset = flags&0x04 != 0
	f.sync = flags&0x08 != 0
	f.setAdd()
}

func (n *NoiseGenerator) appendState(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, n.counter)
	b = binary.LittleEndian.AppendUint64(b, n.threshold)
	b = binary.LittleEndian.AppendUint32(b, n.rand)
	return append(b, n.source, n.bit, boolByte(n.sync))
}

func (n *NoiseGenerator) readState(r *stateReader) {
	counter, threshold := r.u64(), r.u64()
	n.counter = rescale(counter, threshold, n.threshold)
	n.rand = r.u32()
	n.SetSource(r.u8())
	n.bit = r.u8() & 0x01
	n.sync = r.flag()
}

func (e *EnvelopeGenerator) appendState(b []byte) []byte {
	return append(b,
		packFlags(e.enabled, e.ended, e.external, e.invert, e.okForNewData, e.newData),
		e.shape, e.step, e.phase, e.position,
		e.nextData, e.left, e.right,
	)
}

func (e *EnvelopeGenerator) readState(r *stateReader) {
	flags := r.u8()
	e.enabled = flags&0x01 != 0
	e.ended = flags&0x02 != 0
	e.external = flags&0x04 != 0
	e.invert = flags&0x08 != 0
	e.okForNewData = flags&0x10 != 0
	e.newData = flags&0x20 != 0
	e.shape = r.u8() & 0x07
	e.step = r.u8()
	if e.step != 2 {
		e.step = 1
	}
	// Only a sustaining waveform may sit one past its last phase.
	shape := &envShapes[e.shape]
	sustain := e.ended && !shape.looping
	e.phase = r.u8()
	if e.phase > shape.phases || (e.phase == shape.phases && !sustain) {
		e.phase = 0
	}
	e.position = r.u8() & 0x0f
	if e.step == 2 {
		e.position &^= 0x01
	}
	e.nextData = r.u8()
	e.left = r.u8() & 0x0f
	e.right = r.u8() & 0x0f
}

func (a *Amplifier) appendState(b []byte) []byte {
	return append(b, a.levelByte, a.mixMode, a.intermediate, packFlags(a.mute, a.sync))
}

func (a *Amplifier) readState(r *stateReader) {
	a.setLevels(r.u8())
	a.mixMode = r.u8() & 0x03
	a.intermediate = r.u8()
	if a.intermediate > 2 {
		a.intermediate = 0
	}
	flags := r.u8()
	a.mute = flags&0x01 != 0
	a.sync = flags&0x02 != 0
}

// stateReader walks a buffer already checked for length.
type stateReader struct {
	buf []byte
	pos int
}

func (r *stateReader) u8() uint8 {
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *stateReader) flag() bool {
	return r.u8() != 0
}

func (r *stateReader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *stateReader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v
}

func (r *stateReader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func packFlags(flags ...bool) uint8 {
	var v uint8
	for i, f := range flags {
		if f {
			v |= 1 << i
		}
	}
	return v
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
