package saa

import (
	"encoding/binary"
	"io"
)

// Format is the PCM layout produced by GenerateSamples.
type Format struct {
	// 8 for unsigned 8 bit, 16 for signed 16 bit little endian.
	Bits int

	// 1 for mono, 2 for interleaved left/right.
	Channels int
}

var (
	Stereo16 = Format{Bits: 16, Channels: 2}
	Mono16   = Format{Bits: 16, Channels: 1}
	Stereo8  = Format{Bits: 8, Channels: 2}
	Mono8    = Format{Bits: 8, Channels: 1}
)

// normalize maps anything unsupported onto the nearest supported layout,
// and the zero value onto Stereo16.
func (f Format) normalize() Format {
	if f.Bits != 8 {
		f.Bits = 16
	}
	if f.Channels != 1 {
		f.Channels = 2
	}
	return f
}

// BytesPerSample is the size of one sample frame across all channels.
func (f Format) BytesPerSample() int {
	f = f.normalize()
	return f.Bits / 8 * f.Channels
}

// outputGain scales the oversample average into the 16 bit range. Six
// channels at full volume average 2880.
const outputGain = 10

// nextSample renders one output frame, left and right.
func (d *Device) nextSample() (int16, int16) {
	var accLeft, accRight uint32

	for i := 1 << d.oversample; i > 0; i-- {
		d.noise[0].Tick()
		d.noise[1].Tick()
		for _, a := range d.amp {
			s := a.TickStereo()
			accLeft += uint32(s.Left)
			accRight += uint32(s.Right)
		}
	}

	ticks := float64(uint32(1) << d.oversample)
	left := float64(accLeft) / ticks * outputGain
	right := float64(accRight) / ticks * outputGain

	d.hpLeft.Clock(left)
	d.hpRight.Clock(right)

	return clampInt16(d.hpLeft.Output()), clampInt16(d.hpRight.Output())
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// GenerateSamples renders count sample frames into buf in the configured
// format and returns the number of bytes written. It stops early when buf
// is too small for the next whole frame.
func (d *Device) GenerateSamples(buf []byte, count int) int {
	size := d.format.BytesPerSample()
	n := 0
	for ; count > 0 && n+size <= len(buf); count-- {
		left, right := d.nextSample()
		d.format.put(buf[n:], left, right)
		n += size
	}
	return n
}

// GenerateStereo renders len(out) frames as 16 bit pairs, skipping the
// byte encoding. Hosts that mix in the integer domain use this.
func (d *Device) GenerateStereo(out [][2]int16) {
	for i := range out {
		out[i][0], out[i][1] = d.nextSample()
	}
}

func (f Format) put(b []byte, left, right int16) {
	switch {
	case f.Bits == 8 && f.Channels == 1:
		b[0] = to8(mono(left, right))
	case f.Bits == 8:
		b[0] = to8(left)
		b[1] = to8(right)
	case f.Channels == 1:
		binary.LittleEndian.PutUint16(b, uint16(mono(left, right)))
	default:
		binary.LittleEndian.PutUint16(b, uint16(left))
		binary.LittleEndian.PutUint16(b[2:], uint16(right))
	}
}

func mono(left, right int16) int16 {
	return int16((int32(left) + int32(right)) / 2)
}

// to8 converts to unsigned 8 bit with 0x80 as silence.
func to8(s int16) byte {
	return byte(0x80 + int(s>>8))
}

// ----------------------------------------------------------------------------
// Stream.
// ----------------------------------------------------------------------------

// Stream reads an endless PCM stream from a device. Writes made to the
// device between Reads are heard from the next rendered frame.
type Stream struct {
	d *Device
}

var _ io.Reader = (*Stream)(nil)

func NewStream(d *Device) *Stream {
	return &Stream{d: d}
}

// Read fills p with PCM. A frame split across two calls is carried over,
// so any buffer size works.
func (s *Stream) Read(p []byte) (int, error) {
	d := s.d
	n := copy(p, d.pending)
	d.pending = d.pending[:copy(d.pending, d.pending[n:])]
	if n == len(p) {
		return n, nil
	}

	size := d.format.BytesPerSample()
	whole := (len(p) - n) / size
	n += d.GenerateSamples(p[n:], whole)

	if n < len(p) {
		var frame [4]byte
		d.GenerateSamples(frame[:size], 1)
		c := copy(p[n:], frame[:size])
		d.pending = append(d.pending, frame[c:size]...)
		n += c
	}
	return n, nil
}
