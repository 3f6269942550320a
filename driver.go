package main

import (
	"log"

	"yasaa/app/saa"
	"yasaa/app/tune"

	"github.com/beevik/go6502/cpu"
)

// The chip's two ports as seen by the driver's 6502.
const (
	saaDataPort    uint16 = 0xD500
	saaAddressPort uint16 = 0xD501
)

const maxInstructions = 0xFFFF

// Driver runs a tune's 6502 init routine once and its play routine once
// per frame, turning port writes into chip bus accesses.
type Driver struct {
	tune *tune.Tune
	mem  *FlatMemoryWithNotification
	cpu  *cpu.CPU
	bus  saa.Bus

	song            int
	samplesPerFrame uint64
	initialized     bool
	playAddress     uint16
}

// NewDriver loads t into a fresh machine. song counts from zero; a
// negative value selects the tune's start song.
func NewDriver(t *tune.Tune, song int, sampleRate uint32) *Driver {
	if song < 0 || song >= int(t.Songs) {
		song = int(t.StartSong) - 1
	}
	d := &Driver{
		tune:        t,
		song:        song,
		playAddress: t.PlayAddress,
	}
	d.mem = NewFlatMemoryWithNotification()
	d.mem.AttachWriteNotifier(d)
	d.cpu = cpu.NewCPU(cpu.NMOS, d.mem)
	t.LoadData(d.cpu)

	d.samplesPerFrame = uint64(sampleRate) / uint64(t.FrameRate(song))
	if d.samplesPerFrame == 0 {
		d.samplesPerFrame = 1
	}
	return d
}

func (d *Driver) Song() int { return d.song }

func (d *Driver) SamplesPerFrame() uint64 { return d.samplesPerFrame }

// Step runs init on the first call and the play routine after that.
func (d *Driver) Step(bus saa.Bus, pos uint64) (uint64, bool) {
	d.bus = bus
	if !d.initialized {
		d.initialized = true
		d.start()
	} else {
		d.play()
	}
	return d.samplesPerFrame, false
}

func (d *Driver) start() {
	d.initCPU(d.tune.InitAddress, uint8(d.song), 0, 0)
	if !d.runRoutine() {
		log.Println("Warning: CPU executed a high number of instructions in init, breaking")
	}

	if d.playAddress == 0 {
		d.playAddress = d.mem.LoadAddress(0xFFFE)
		log.Printf("Warning: tune has play address 0, using IRQ vector $%04X", d.playAddress)
	}
}

func (d *Driver) play() {
	if d.playAddress == 0 {
		return
	}
	d.initCPU(d.playAddress, 0, 0, 0)
	if !d.runRoutine() {
		log.Println("Warning: CPU executed a high number of instructions in play, breaking")
	}
}

func (d *Driver) initCPU(newpc uint16, newa uint8, newx uint8, newy uint8) {
	d.cpu.SetPC(newpc)
	d.cpu.Reg.SP = 0xFF
	d.cpu.Reg.X = newx
	d.cpu.Reg.Y = newy
	d.cpu.Reg.A = newa
}

// runRoutine steps until the routine returns. It reports false when the
// instruction limit cut it short.
func (d *Driver) runRoutine() bool {
	for instr := 0; instr <= maxInstructions; instr++ {
		if d.runCPU() {
			return true
		}
	}
	return false
}

// Run CPU one step. Returns true if the routine
// completed for this iteration. False otherwise.
func (d *Driver) runCPU() bool {
	// A routine that is nothing but a return ends before it starts.
	opcode := d.cpu.Mem.LoadByte(d.cpu.Reg.PC)
	if isReturn(d.cpu, opcode) {
		return true
	}

	d.cpu.Step()

	// Peek at the next opcode at the current PC
	return isReturn(d.cpu, d.cpu.Mem.LoadByte(d.cpu.Reg.PC))
}

func isReturn(c *cpu.CPU, opcode byte) bool {
	inst := c.InstSet.Lookup(opcode)

	switch {
	case inst.Opcode == 0x00:
		return true
	case inst.Opcode == 0x40 && c.Reg.SP == 0xFF:
		return true
	case inst.Opcode == 0x60 && c.Reg.SP == 0xFF:
		return true
	default:
		return false
	}
}

// OnWrite is called when the CPU has written to a memory location.
func (d *Driver) OnWrite(addr uint16, v byte) {
	if d.bus == nil {
		return
	}
	switch addr {
	case saaDataPort:
		d.bus.WriteData(v)
	case saaAddressPort:
		d.bus.WriteAddress(v)
	}
}

type WriteNotification interface {
	OnWrite(addr uint16, v byte)
}

// FlatMemoryWithNotification represents an entire 16-bit address space
// as a singular 64K buffer and reports stores to a notifier.
type FlatMemoryWithNotification struct {
	b           [64 * 1024]byte
	writeNotify WriteNotification
}

// AttachWriteNotifier attaches a handler that is called whenever a store
// to memory operation is happening.
func (m *FlatMemoryWithNotification) AttachWriteNotifier(handler WriteNotification) {
	m.writeNotify = handler
}

func NewFlatMemoryWithNotification() *FlatMemoryWithNotification {
	return &FlatMemoryWithNotification{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemoryWithNotification) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadBytes loads multiple bytes from the address, zero past the top of
// memory.
func (m *FlatMemoryWithNotification) LoadBytes(addr uint16, b []byte) {
	n := copy(b, m.b[addr:])
	clear(b[n:])
}

// LoadAddress loads a 16-bit address value from the requested address and
// returns it.
//
// When the address spans 2 pages (i.e., address ends in 0xff), the high
// byte comes from the start of the same page, as on the NMOS 6502.
func (m *FlatMemoryWithNotification) LoadAddress(addr uint16) uint16 {
	if (addr & 0xff) == 0xff {
		return uint16(m.b[addr]) | uint16(m.b[addr-0xff])<<8
	}
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemoryWithNotification) StoreByte(addr uint16, v byte) {
	m.b[addr] = v

	if m.writeNotify != nil {
		m.writeNotify.OnWrite(addr, v)
	}
}

// StoreBytes stores multiple bytes without notification; it is used for
// loading images.
func (m *FlatMemoryWithNotification) StoreBytes(addr uint16, b []byte) {
	copy(m.b[addr:], b)
}

// StoreAddress stores a 16-bit address value to the requested address.
func (m *FlatMemoryWithNotification) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v & 0xff)
	if (addr & 0xff) == 0xff {
		m.b[addr-0xff] = byte(v >> 8)
	} else {
		m.b[addr+1] = byte(v >> 8)
	}
}
