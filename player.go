package main

import (
	"io"
	"sync/atomic"
	"time"

	"yasaa/app/saa"
	"yasaa/app/trace"
)

// Sequencer feeds register writes to the chip.
type Sequencer interface {
	// Step performs the writes due at output sample pos and returns the
	// number of samples to render before the next call. done means
	// nothing more will be written.
	Step(bus saa.Bus, pos uint64) (samples uint64, done bool)
}

// Rendering continues this long after a sequence ends so the last
// writes are heard.
const endTail = time.Second

type Player struct {
	chip *saa.Device
	bus  saa.Bus
	rec  *trace.Recorder
	seq  Sequencer
	tee  io.Writer

	pos   uint64 // samples rendered
	due   uint64 // sample of the next Step
	limit uint64 // 0 renders until stopped
	ended bool

	frame   []byte
	pending []byte

	finished atomic.Bool
	teeErr   error
}

func NewPlayer(chip *saa.Device, seq Sequencer) *Player {
	return &Player{
		chip:  chip,
		bus:   chip,
		seq:   seq,
		frame: make([]byte, chip.Format().BytesPerSample()),
	}
}

// SetRecorder routes register writes through rec. rec must forward to
// the player's chip.
func (p *Player) SetRecorder(rec *trace.Recorder) {
	p.rec = rec
	p.bus = rec
}

// SetDuration stops rendering after d. Zero plays until stopped.
func (p *Player) SetDuration(d time.Duration) {
	p.limit = p.samplesIn(d)
}

// Tee copies everything rendered to w. The first write error stops the
// copy and is returned by TeeErr.
func (p *Player) Tee(w io.Writer) {
	p.tee = w
}

func (p *Player) TeeErr() error {
	return p.teeErr
}

func (p *Player) samplesIn(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d.Seconds() * float64(p.chip.SampleRate()))
}

// Position is the playing time rendered so far.
func (p *Player) Position() time.Duration {
	return time.Duration(float64(p.pos) / float64(p.chip.SampleRate()) * float64(time.Second))
}

func (p *Player) Finished() bool {
	return p.finished.Load()
}

// Stop ends playback. The next Read returns io.EOF. Safe to call from
// another goroutine than the reader.
func (p *Player) Stop() {
	p.finished.Store(true)
}

func (p *Player) step() {
	if p.rec != nil {
		p.rec.SetSample(p.pos)
	}
	samples, done := p.seq.Step(p.bus, p.pos)
	if done {
		p.ended = true
		tail := p.pos + p.samplesIn(endTail)
		if p.limit == 0 || tail < p.limit {
			p.limit = tail
		}
		return
	}
	if samples == 0 {
		samples = 1
	}
	p.due = p.pos + samples
}

func (p *Player) copyOut(b []byte) {
	if p.tee == nil || p.teeErr != nil {
		return
	}
	_, p.teeErr = p.tee.Write(b)
}

// Read renders PCM in the chip's format. Frames that do not fit b are
// carried into the next call.
func (p *Player) Read(b []byte) (int, error) {
	bps := len(p.frame)
	n := 0

	for n < len(b) {
		if len(p.pending) > 0 {
			c := copy(b[n:], p.pending)
			p.pending = p.pending[c:]
			n += c
			continue
		}
		if p.finished.Load() {
			break
		}
		if !p.ended && p.pos >= p.due {
			p.step()
		}
		if p.limit > 0 && p.pos >= p.limit {
			p.finished.Store(true)
			break
		}

		frames := uint64((len(b) - n) / bps)
		if !p.ended && p.due-p.pos < frames {
			frames = p.due - p.pos
		}
		if p.limit > 0 && p.limit-p.pos < frames {
			frames = p.limit - p.pos
		}

		if frames == 0 {
			w := p.chip.GenerateSamples(p.frame, 1)
			p.copyOut(p.frame[:w])
			p.pending = p.frame[:w]
			p.pos++
			continue
		}

		w := p.chip.GenerateSamples(b[n:], int(frames))
		p.copyOut(b[n : n+w])
		p.pos += frames
		n += w
	}

	if n == 0 && p.finished.Load() {
		return 0, io.EOF
	}
	return n, nil
}
