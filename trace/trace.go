// Package trace records and replays SAA1099 register traffic.
//
// A register log is plain text, one bus access per line, stamped with
// the output sample at which it happened:
//
//	<sample> <reg>:          address select
//	<sample> <reg>:<!ENV0!>  address select of an envelope control register
//	<sample> <reg>:<data>    data write to the latched register
//
// Registers are decimal, data is two hex digits.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"yasaa/app/saa"
)

var ErrSyntax = errors.New("malformed register log line")

// Event is one bus access.
type Event struct {
	Sample uint64
	Reg    uint8

	// Select marks an address write; Data is unused then.
	Select bool
	Data   uint8
}

// Apply performs the access on bus.
func (e Event) Apply(bus saa.Bus) {
	if e.Select {
		bus.WriteAddress(e.Reg)
	} else {
		bus.WriteData(e.Data)
	}
}

// ----------------------------------------------------------------------------
// Recorder.
// ----------------------------------------------------------------------------

// Recorder is a saa.Bus that logs every access before passing it on.
type Recorder struct {
	bus   saa.Bus
	w     *bufio.Writer
	latch uint8

	sample uint64
	err    error
}

var _ saa.Bus = (*Recorder)(nil)

// NewRecorder logs to w and forwards to bus, which may be nil.
func NewRecorder(w io.Writer, bus saa.Bus) *Recorder {
	return &Recorder{
		bus: bus,
		w:   bufio.NewWriter(w),
	}
}

// SetSample sets the stamp for the accesses that follow.
func (r *Recorder) SetSample(n uint64) {
	r.sample = n
}

func (r *Recorder) WriteAddress(reg uint8) {
	r.latch = reg & 0x1f
	var marker string
	switch r.latch {
	case saa.RegEnvelope0:
		marker = "<!ENV0!>"
	case saa.RegEnvelope1:
		marker = "<!ENV1!>"
	}
	r.printf("%d %02d:%s\n", r.sample, reg, marker)

	if r.bus != nil {
		r.bus.WriteAddress(reg)
	}
}

func (r *Recorder) WriteData(data uint8) {
	r.printf("%d %02d:%02x\n", r.sample, r.latch, data)

	if r.bus != nil {
		r.bus.WriteData(data)
	}
}

func (r *Recorder) WriteAddressData(reg uint8, data uint8) {
	r.WriteAddress(reg)
	r.WriteData(data)
}

func (r *Recorder) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Flush writes out buffered lines and reports the first write error.
func (r *Recorder) Flush() error {
	if r.err != nil {
		return r.err
	}
	r.err = r.w.Flush()
	return r.err
}

// ----------------------------------------------------------------------------
// Parsing.
// ----------------------------------------------------------------------------

// Parse reads a register log. Blank lines and lines starting with '#'
// are skipped. Samples must not go backwards.
func Parse(r io.Reader) ([]Event, error) {
	var events []Event
	var last uint64

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		e, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if e.Sample < last {
			return nil, fmt.Errorf("line %d: %w: sample %d before %d", line, ErrSyntax, e.Sample, last)
		}
		last = e.Sample
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func parseLine(text string) (Event, error) {
	var e Event

	stamp, rest, ok := strings.Cut(text, " ")
	if !ok {
		return e, ErrSyntax
	}
	sample, err := strconv.ParseUint(stamp, 10, 64)
	if err != nil {
		return e, fmt.Errorf("%w: sample %q", ErrSyntax, stamp)
	}
	e.Sample = sample

	reg, data, ok := strings.Cut(strings.TrimSpace(rest), ":")
	if !ok {
		return e, ErrSyntax
	}
	r, err := strconv.ParseUint(reg, 10, 8)
	if err != nil {
		return e, fmt.Errorf("%w: register %q", ErrSyntax, reg)
	}
	e.Reg = uint8(r)

	if data == "" || strings.HasPrefix(data, "<") {
		e.Select = true
		return e, nil
	}
	d, err := strconv.ParseUint(data, 16, 8)
	if err != nil {
		return e, fmt.Errorf("%w: data %q", ErrSyntax, data)
	}
	e.Data = uint8(d)
	e.Reg &= 0x1f
	return e, nil
}
