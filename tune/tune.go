package tune

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/go6502/cpu"
)

// Magic is the first four bytes of a driver tune file.
var Magic = [4]byte{'S', 'A', 'A', 'T'}

const (
	// HeaderSize is the size of a version 1 header on disk.
	HeaderSize = 0x76

	// Frame rates selected by the Speed bits.
	PALFrameRate  = 50
	NTSCFrameRate = 60
)

var (
	ErrNotTune  = errors.New("not a valid SAAT tune file")
	ErrTooLarge = errors.New("tune data continues past end of 6502 memory")
	ErrNoData   = errors.New("tune has no data")
)

// Header is the big endian file header of a driver tune. It follows the
// PSID v1 layout: the tune's 6502 code is loaded at LoadAddress, InitAddress
// is called once with the song number in A and PlayAddress once per frame.
type Header struct {
	MagicID     [4]byte
	Version     uint16
	DataOffset  uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16
	Speed       uint32
	Name        [32]byte
	Author      [32]byte
	Released    [32]byte
}

// Tune is a loaded driver tune: header and the 6502 image.
type Tune struct {
	Header
	Data []byte
}

// Load reads a tune from r. When the header's LoadAddress is zero the
// first two data bytes carry it, little endian.
func Load(r io.ReadSeeker) (*Tune, error) {
	t := &Tune{}

	if err := binary.Read(r, binary.BigEndian, &t.Header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNotTune
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if t.MagicID != Magic {
		return nil, ErrNotTune
	}
	if t.DataOffset < HeaderSize {
		return nil, fmt.Errorf("%w: data offset 0x%X inside header", ErrNotTune, t.DataOffset)
	}

	if _, err := r.Seek(int64(t.DataOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to data: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	if t.LoadAddress == 0 {
		if len(data) < 2 {
			return nil, ErrNoData
		}
		t.LoadAddress = uint16(data[0]) | uint16(data[1])<<8
		data = data[2:]
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}
	if int(t.LoadAddress)+len(data) > 0x10000 {
		return nil, ErrTooLarge
	}
	t.Data = data

	if t.Songs == 0 {
		t.Songs = 1
	}
	if t.StartSong == 0 || t.StartSong > t.Songs {
		t.StartSong = 1
	}
	return t, nil
}

// LoadFile opens and loads a tune file.
func LoadFile(name string) (*Tune, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// LoadData copies the tune image into the CPU's memory.
func (t *Tune) LoadData(c *cpu.CPU) {
	c.Mem.StoreBytes(t.LoadAddress, t.Data)
}

// FrameRate returns the play routine rate in Hz for a song numbered
// from zero. Songs past 31 share the last bit.
func (t *Tune) FrameRate(song int) int {
	if song > 31 {
		song = 31
	}
	if song >= 0 && t.Speed&(1<<uint(song)) != 0 {
		return NTSCFrameRate
	}
	return PALFrameRate
}

// Encode writes t in file form with the data directly after the header.
func (t *Tune) Encode(w io.Writer) error {
	h := t.Header
	h.MagicID = Magic
	if h.Version == 0 {
		h.Version = 1
	}
	h.DataOffset = HeaderSize

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, &h); err != nil {
		return err
	}
	buf.Write(t.Data)
	_, err := buf.WriteTo(w)
	return err
}

func (h *Header) NameString() string     { return cString(h.Name[:]) }
func (h *Header) AuthorString() string   { return cString(h.Author[:]) }
func (h *Header) ReleasedString() string { return cString(h.Released[:]) }

// SetText fills the fixed size text fields, truncating to 32 bytes.
func (h *Header) SetText(name, author, released string) {
	h.Name = [32]byte{}
	h.Author = [32]byte{}
	h.Released = [32]byte{}
	copy(h.Name[:], name)
	copy(h.Author[:], author)
	copy(h.Released[:], released)
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
