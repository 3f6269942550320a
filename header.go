package main

import (
	"fmt"
	"io"
	"strings"

	"yasaa/app/saa"
	"yasaa/app/tune"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	warn  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		value: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		warn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}

type header struct {
	st    styles
	lines []string
}

func newHeader(title string) *header {
	h := &header{st: newStyles()}
	h.lines = append(h.lines, h.st.title.Render(" "+title+" "))
	return h
}

func (h *header) field(label, format string, args ...any) {
	h.lines = append(h.lines, h.st.label.Render(fmt.Sprintf("%-12s", label))+h.st.value.Render(fmt.Sprintf(format, args...)))
}

func (h *header) warning(msg string) {
	h.lines = append(h.lines, h.st.warn.Render(msg))
}

func (h *header) print(w io.Writer) {
	fmt.Fprintln(w, strings.Join(h.lines, "\n"))
}

// PrintTuneHeader shows a driver tune's header fields.
func PrintTuneHeader(w io.Writer, t *tune.Tune, song int) {
	h := newHeader("SAAT tune")
	h.field("Name", "%s", t.NameString())
	h.field("Author", "%s", t.AuthorString())
	h.field("Released", "%s", t.ReleasedString())
	h.field("LoadAddress", "$%04X-$%04X", t.LoadAddress, int(t.LoadAddress)+len(t.Data)-1)
	h.field("InitAddress", "$%04X", t.InitAddress)
	h.field("PlayAddress", "$%04X", t.PlayAddress)
	h.field("Songs", "%d (start %d)", t.Songs, t.StartSong)
	h.field("Subtune", "%d at %d Hz", song, t.FrameRate(song))
	if t.PlayAddress == 0 {
		h.warning("play address 0, using IRQ vector")
	}
	h.print(w)
}

// PrintSession shows how the chip is configured.
func PrintSession(w io.Writer, source string, chip *saa.Device, backend string) {
	h := newHeader("SAA1099")
	h.field("Source", "%s", source)
	h.field("Clock", "%d Hz", chip.ClockRate())
	h.field("Output", "%d Hz, %d bit, %s", chip.SampleRate(), chip.Format().Bits, channelName(chip.Format()))
	h.field("Oversample", "x%d", 1<<chip.Oversample())
	h.field("Backend", "%s", backend)
	h.print(w)
}

func channelName(f saa.Format) string {
	if f.Channels == 1 {
		return "mono"
	}
	return "stereo"
}
