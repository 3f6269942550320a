package main

import (
	"testing"

	"yasaa/app/saa"
	"yasaa/app/tune"
)

type busLog struct {
	selects []uint8
	data    []uint8
}

func (b *busLog) WriteAddress(reg uint8) { b.selects = append(b.selects, reg) }
func (b *busLog) WriteData(data uint8)   { b.data = append(b.data, data) }
func (b *busLog) WriteAddressData(reg uint8, data uint8) {
	b.WriteAddress(reg)
	b.WriteData(data)
}

// Init saves A at $30 and enables the chip. Play counts in $20 and
// writes the count to amplitude register 0.
var driverCode = []byte{
	0x85, 0x30, //       STA $30
	0xA9, 0x1C, //       LDA #$1C
	0x8D, 0x01, 0xD5, // STA $D501
	0xA9, 0x01, //       LDA #$01
	0x8D, 0x00, 0xD5, // STA $D500
	0x60, //             RTS

	0xA9, 0x00, //       LDA #$00   ($100D)
	0x8D, 0x01, 0xD5, // STA $D501
	0xE6, 0x20, //       INC $20
	0xA5, 0x20, //       LDA $20
	0x8D, 0x00, 0xD5, // STA $D500
	0x60, //             RTS
}

func driverTune(play uint16) *tune.Tune {
	return &tune.Tune{
		Header: tune.Header{
			LoadAddress: 0x1000,
			InitAddress: 0x1000,
			PlayAddress: play,
			Songs:       4,
			StartSong:   3,
			Speed:       0x2,
		},
		Data: driverCode,
	}
}

func TestDriverInitAndPlay(t *testing.T) {
	d := NewDriver(driverTune(0x100D), -1, 44100)
	if d.Song() != 2 {
		t.Errorf("song: got %d, want 2", d.Song())
	}
	if d.SamplesPerFrame() != 882 {
		t.Errorf("samples per frame: got %d, want 882", d.SamplesPerFrame())
	}

	var bus busLog
	for i := 0; i < 3; i++ {
		samples, done := d.Step(&bus, uint64(i)*882)
		if samples != 882 || done {
			t.Fatalf("step %d: got %d/%v, want 882/false", i, samples, done)
		}
	}

	if got := d.mem.LoadByte(0x30); got != 2 {
		t.Errorf("init A: got %d, want 2", got)
	}
	wantSel := []uint8{saa.RegControl, saa.RegAmplitude0, saa.RegAmplitude0}
	wantData := []uint8{0x01, 1, 2}
	if len(bus.selects) != 3 || len(bus.data) != 3 {
		t.Fatalf("accesses: got %v / %v", bus.selects, bus.data)
	}
	for i := range wantSel {
		if bus.selects[i] != wantSel[i] || bus.data[i] != wantData[i] {
			t.Errorf("access %d: got %d:%d, want %d:%d", i, bus.selects[i], bus.data[i], wantSel[i], wantData[i])
		}
	}
}

func TestDriverNTSCFrame(t *testing.T) {
	d := NewDriver(driverTune(0x100D), 1, 48000)
	if d.SamplesPerFrame() != 800 {
		t.Errorf("samples per frame: got %d, want 800", d.SamplesPerFrame())
	}
}

func TestDriverPlayFromIRQVector(t *testing.T) {
	d := NewDriver(driverTune(0), 0, 44100)
	d.mem.StoreAddress(0xFFFE, 0x100D)

	var bus busLog
	d.Step(&bus, 0)
	d.Step(&bus, 882)
	if len(bus.data) != 2 || bus.data[1] != 1 {
		t.Errorf("play via IRQ vector: got %v", bus.data)
	}
}

func TestDriverRunawayRoutine(t *testing.T) {
	tn := driverTune(0x1003)
	tn.Data = []byte{0xEA, 0xEA, 0x60, 0x4C, 0x03, 0x10} // init NOP NOP RTS, play JMP $1003

	d := NewDriver(tn, 0, 44100)
	var bus busLog
	d.Step(&bus, 0)
	if samples, done := d.Step(&bus, 882); samples != 882 || done {
		t.Errorf("runaway play: got %d/%v", samples, done)
	}
}

func TestFlatMemoryNotifies(t *testing.T) {
	m := NewFlatMemoryWithNotification()
	d := &Driver{}
	var bus busLog
	d.bus = &bus
	m.AttachWriteNotifier(d)

	m.StoreByte(saaAddressPort, 0x18)
	m.StoreByte(saaDataPort, 0x82)
	m.StoreByte(0xD502, 0xff)
	m.StoreBytes(saaDataPort, []byte{0x11})

	if len(bus.selects) != 1 || bus.selects[0] != 0x18 {
		t.Errorf("selects: got %v", bus.selects)
	}
	if len(bus.data) != 1 || bus.data[0] != 0x82 {
		t.Errorf("data: got %v", bus.data)
	}
}

func TestFlatMemoryPageWrap(t *testing.T) {
	m := NewFlatMemoryWithNotification()
	m.StoreAddress(0x12FF, 0xABCD)
	if m.LoadByte(0x12FF) != 0xCD || m.LoadByte(0x1200) != 0xAB {
		t.Errorf("store across page: got %02X %02X", m.LoadByte(0x12FF), m.LoadByte(0x1200))
	}
	if got := m.LoadAddress(0x12FF); got != 0xABCD {
		t.Errorf("load across page: got %04X, want ABCD", got)
	}

	b := []byte{1, 2, 3, 4}
	m.StoreByte(0xFFFF, 9)
	m.LoadBytes(0xFFFF, b)
	if b[0] != 9 || b[1] != 0 || b[3] != 0 {
		t.Errorf("load past top: got %v", b)
	}
}
