package saa

// EnvelopeGenerator steps through one of eight amplitude contours and
// produces a left/right level pair. It is clocked either by its
// oscillator (internal) or by the host selecting its control register
// (external).
//
// A control write arriving mid-waveform is held back until the current
// waveform reaches a point where new data is accepted: the end of a
// non-looping waveform or the loop point of a looping one. The enable
// and resolution bits always act at once.
type EnvelopeGenerator struct {
	enabled  bool
	ended    bool
	external bool
	invert   bool

	shape    uint8
	step     uint8 // 1 for 4 bit resolution, 2 for 3 bit
	phase    uint8
	position uint8

	okForNewData bool
	newData      bool
	nextData     uint8

	left  uint8
	right uint8
}

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewEnvelopeGenerator() *EnvelopeGenerator {
	e := &EnvelopeGenerator{}
	e.Reset()
	return e
}

func (e *EnvelopeGenerator) Reset() {
	e.newData = false
	e.nextData = 0
	e.load(0)
}

// InternalClock is the pulse from the oscillator. It only steps an
// enabled envelope on the internal clock.
func (e *EnvelopeGenerator) InternalClock() {
	if e.enabled && !e.external {
		e.tick()
	}
}

// ExternalClock is the pulse from an address write naming the control
// register. It only steps an enabled envelope on the external clock.
func (e *EnvelopeGenerator) ExternalClock() {
	if e.enabled && e.external {
		e.tick()
	}
}

// SetEnvControl handles a write to the control register:
//
//	bit 7   enable
//	bit 5   external clock
//	bit 4   3 bit resolution
//	bit 3-1 waveform
//	bit 0   invert right channel
func (e *EnvelopeGenerator) SetEnvControl(data uint8) {
	enabled := data&0x80 != 0
	if !enabled && !e.enabled {
		return
	}
	e.enabled = enabled
	if !enabled {
		// Further control writes are taken at once.
		e.ended = true
		e.okForNewData = true
		return
	}

	e.step = resolutionStep(data)

	if e.okForNewData {
		e.load(data)
		e.newData = false
		return
	}

	// The resolution change may move the current level.
	e.setLevels()
	e.newData = true
	e.nextData = data
}

func (e *EnvelopeGenerator) LeftLevel() uint8 {
	return e.left
}

func (e *EnvelopeGenerator) RightLevel() uint8 {
	return e.right
}

func (e *EnvelopeGenerator) IsActive() bool {
	return e.enabled
}

// Ended reports whether the envelope has stopped at its sustain point.
func (e *EnvelopeGenerator) Ended() bool {
	return e.ended
}

// ReadyForNewData reports whether a control write would take effect
// immediately.
func (e *EnvelopeGenerator) ReadyForNewData() bool {
	return e.okForNewData
}

func (e *EnvelopeGenerator) tick() {
	if !e.enabled {
		e.ended = true
		e.phase = 0
		e.position = 0
		e.okForNewData = true
		return
	}

	// Hold the sustain point. phase and position stay put for setLevels.
	if e.ended {
		return
	}

	shape := &envShapes[e.shape]

	e.position += e.step
	if e.position >= 16 {
		e.phase++
		e.position -= 16

		if e.phase == shape.phases {
			e.okForNewData = true
			if shape.looping {
				e.phase = 0
			} else {
				e.ended = true
			}
		} else {
			// Mid-way through a two phase waveform.
			e.okForNewData = false
		}
	} else {
		e.okForNewData = false
	}

	if e.newData && e.okForNewData {
		e.newData = false
		e.load(e.nextData)
		return
	}
	e.setLevels()
}

// load starts the waveform described by a control byte from its first
// position.
func (e *EnvelopeGenerator) load(data uint8) {
	e.phase = 0
	e.position = 0
	e.shape = (data >> 1) & 0x07
	e.invert = data&0x01 != 0
	e.external = data&0x20 != 0
	e.step = resolutionStep(data)
	e.enabled = data&0x80 != 0

	if e.enabled {
		e.ended = false
	} else {
		e.ended = true
		e.okForNewData = true
	}
	e.setLevels()
}

func (e *EnvelopeGenerator) setLevels() {
	shape := &envShapes[e.shape]

	res, top := 0, uint8(15)
	if e.step == 2 {
		res, top = 1, 14
	}

	// Every non-looping waveform sustains at zero.
	if e.ended && !shape.looping {
		e.left = 0
	} else {
		e.left = shape.levels[res][e.phase][e.position]
	}

	if e.invert {
		e.right = top - e.left
	} else {
		e.right = e.left
	}
}

func resolutionStep(data uint8) uint8 {
	if data&0x10 != 0 {
		return 2
	}
	return 1
}
