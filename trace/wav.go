package trace

import (
	"encoding/binary"
	"errors"
	"io"

	"yasaa/app/saa"
)

const wavHeaderSize = 44

var ErrClosed = errors.New("pcm writer closed")

// PCMWriter dumps raw sample frames and counts what it wrote.
type PCMWriter struct {
	w      io.Writer
	n      int64
	closed bool
}

func NewPCMWriter(w io.Writer) *PCMWriter {
	return &PCMWriter{w: w}
}

func (p *PCMWriter) Write(b []byte) (int, error) {
	if p.closed {
		return 0, ErrClosed
	}
	n, err := p.w.Write(b)
	p.n += int64(n)
	return n, err
}

// Written is the number of PCM bytes written so far.
func (p *PCMWriter) Written() int64 {
	return p.n
}

// Close stops further writes. The underlying writer is left open.
func (p *PCMWriter) Close() error {
	p.closed = true
	return nil
}

// WAVWriter writes a canonical 44 byte RIFF/WAVE header followed by PCM
// data. The size fields are filled in on Close.
type WAVWriter struct {
	PCMWriter
	ws io.WriteSeeker
}

// NewWAVWriter writes a placeholder header for the given format.
func NewWAVWriter(ws io.WriteSeeker, format saa.Format, sampleRate uint32) (*WAVWriter, error) {
	if format.Bits != 8 {
		format.Bits = 16
	}
	if format.Channels != 1 {
		format.Channels = 2
	}
	w := &WAVWriter{
		PCMWriter: PCMWriter{w: ws},
		ws:        ws,
	}
	if err := writeWAVHeader(ws, format, sampleRate, 0); err != nil {
		return nil, err
	}
	return w, nil
}

func writeWAVHeader(w io.Writer, format saa.Format, sampleRate uint32, dataSize uint32) error {
	blockAlign := uint16(format.BytesPerSample())
	fields := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(wavHeaderSize - 8 + dataSize),
		[4]byte{'W', 'A', 'V', 'E'},

		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(format.Channels),
		sampleRate,
		sampleRate * uint32(blockAlign),
		blockAlign,
		uint16(format.Bits),

		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// Close patches the RIFF and data chunk sizes. The underlying writer is
// left open.
func (w *WAVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	size := uint32(w.n)
	if _, err := w.ws.Seek(4, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, uint32(wavHeaderSize-8)+size); err != nil {
		return err
	}
	if _, err := w.ws.Seek(40, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, size); err != nil {
		return err
	}
	_, err := w.ws.Seek(0, io.SeekEnd)
	return err
}
