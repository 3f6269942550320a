package tune

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/go6502/cpu"
)

type flatMemory [0x10000]byte

func (m *flatMemory) LoadByte(addr uint16) byte { return m[addr] }
func (m *flatMemory) LoadBytes(addr uint16, b []byte) {
	copy(b, m[addr:])
}
func (m *flatMemory) LoadAddress(addr uint16) uint16 {
	return uint16(m[addr]) | uint16(m[addr+1])<<8
}
func (m *flatMemory) StoreByte(addr uint16, v byte) { m[addr] = v }
func (m *flatMemory) StoreBytes(addr uint16, b []byte) {
	copy(m[addr:], b)
}
func (m *flatMemory) StoreAddress(addr uint16, v uint16) {
	m[addr] = byte(v)
	m[addr+1] = byte(v >> 8)
}

func sampleTune() *Tune {
	t := &Tune{
		Header: Header{
			LoadAddress: 0x1000,
			InitAddress: 0x1000,
			PlayAddress: 0x1003,
			Songs:       3,
			StartSong:   2,
			Speed:       0x02,
		},
		Data: []byte{0x60, 0xea, 0xea, 0x60},
	}
	t.SetText("Test Tune", "Nobody", "2026")
	return t
}

func encode(t *testing.T, tn *Tune) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := tn.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadRoundTrip(t *testing.T) {
	raw := encode(t, sampleTune())
	if len(raw) != HeaderSize+4 {
		t.Fatalf("encoded size: got %d, want %d", len(raw), HeaderSize+4)
	}

	tn, err := Load(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if tn.LoadAddress != 0x1000 || tn.InitAddress != 0x1000 || tn.PlayAddress != 0x1003 {
		t.Errorf("addresses: got %04X/%04X/%04X", tn.LoadAddress, tn.InitAddress, tn.PlayAddress)
	}
	if tn.Songs != 3 || tn.StartSong != 2 {
		t.Errorf("songs: got %d start %d, want 3 start 2", tn.Songs, tn.StartSong)
	}
	if !bytes.Equal(tn.Data, []byte{0x60, 0xea, 0xea, 0x60}) {
		t.Errorf("data: got % x", tn.Data)
	}
	if tn.NameString() != "Test Tune" || tn.AuthorString() != "Nobody" || tn.ReleasedString() != "2026" {
		t.Errorf("text: got %q %q %q", tn.NameString(), tn.AuthorString(), tn.ReleasedString())
	}
}

func TestLoadAddressFromData(t *testing.T) {
	tn := sampleTune()
	tn.LoadAddress = 0
	tn.Data = append([]byte{0x00, 0x20}, tn.Data...)

	got, err := Load(bytes.NewReader(encode(t, tn)))
	if err != nil {
		t.Fatal(err)
	}
	if got.LoadAddress != 0x2000 {
		t.Errorf("load address: got %04X, want 2000", got.LoadAddress)
	}
	if len(got.Data) != 4 {
		t.Errorf("data length: got %d, want 4", len(got.Data))
	}
}

func TestLoadErrors(t *testing.T) {
	good := encode(t, sampleTune())

	badMagic := append([]byte(nil), good...)
	copy(badMagic, "PSID")

	badOffset := append([]byte(nil), good...)
	binary.BigEndian.PutUint16(badOffset[6:], 0x10)

	tooLarge := sampleTune()
	tooLarge.LoadAddress = 0xfffe

	empty := sampleTune()
	empty.Data = nil

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"short", good[:20], ErrNotTune},
		{"magic", badMagic, ErrNotTune},
		{"offset", badOffset, ErrNotTune},
		{"too large", encode(t, tooLarge), ErrTooLarge},
		{"empty", encode(t, empty), ErrNoData},
	}
	for _, tc := range tests {
		if _, err := Load(bytes.NewReader(tc.raw)); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tune.saat")
	if err := os.WriteFile(name, encode(t, sampleTune()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(name); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(name + ".missing"); err == nil {
		t.Errorf("missing file loaded")
	}
}

func TestLoadData(t *testing.T) {
	mem := &flatMemory{}
	c := cpu.NewCPU(cpu.NMOS, mem)

	sampleTune().LoadData(c)
	if !bytes.Equal(mem[0x1000:0x1004], []byte{0x60, 0xea, 0xea, 0x60}) {
		t.Errorf("memory: got % x", mem[0x1000:0x1004])
	}
}

func TestFrameRate(t *testing.T) {
	tn := sampleTune()
	tests := []struct {
		song, want int
	}{
		{0, PALFrameRate},
		{1, NTSCFrameRate},
		{2, PALFrameRate},
		{40, PALFrameRate},
	}
	for _, tc := range tests {
		if got := tn.FrameRate(tc.song); got != tc.want {
			t.Errorf("song %d: got %d, want %d", tc.song, got, tc.want)
		}
	}
}
