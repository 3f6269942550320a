package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"yasaa/app/saa"
)

type PlayerSettings struct {
	Backend    string
	SampleRate int
	ClockRate  int
	Oversample int
	NoHighpass bool
	Bits       int
	Channels   int
	AmpModel   string
	NoiseModel string
	Subtune    int
	Duration   time.Duration
	WavOut     string
	RegLog     string
	PCMOut     string
	Quiet      bool
	Usage      bool
}

func NewPlayerSettings() *PlayerSettings {
	opt := &PlayerSettings{}
	return opt
}

func (opt *PlayerSettings) ParseArgs(fs *flag.FlagSet, args []string) error {
	fs.StringVar(&opt.Backend, "b", "sdl", "Audio backend: sdl, oto or none")
	fs.IntVar(&opt.SampleRate, "r", int(saa.DefaultSampleRate), "Output sample rate in Hz")
	fs.IntVar(&opt.ClockRate, "c", int(saa.DefaultClockRate), "Chip clock in Hz")
	fs.IntVar(&opt.Oversample, "o", int(saa.DefaultOversample), "Oversample factor as a power of two, 0-10")
	fs.BoolVar(&opt.NoHighpass, "nohp", false, "Disable the DC blocking highpass filter")
	fs.IntVar(&opt.Bits, "bits", 16, "Sample size: 8 or 16")
	fs.IntVar(&opt.Channels, "ch", 2, "Channels: 1 or 2")
	fs.StringVar(&opt.AmpModel, "amp", "pdm", "Amplitude model: pdm or product")
	fs.StringVar(&opt.NoiseModel, "noise", "shift", "Noise model: shift or lcg")
	fs.IntVar(&opt.Subtune, "a", -1, "Subtune number, starting from 0 (default is the tune's start song)")
	fs.DurationVar(&opt.Duration, "t", 0, "Stop after this long, e.g. 90s (0 plays until stopped)")
	fs.StringVar(&opt.WavOut, "w", "", "Write output to a WAV file")
	fs.StringVar(&opt.RegLog, "log", "", "Write a register log")
	fs.StringVar(&opt.PCMOut, "pcm", "", "Dump raw PCM output")
	fs.BoolVar(&opt.Quiet, "q", false, "No status output")
	fs.BoolVar(&opt.Usage, "h", false, "Display usage information")
	return fs.Parse(args)
}

// Options maps the flags onto engine options.
func (opt *PlayerSettings) Options() (saa.Options, error) {
	o := saa.Options{
		ClockRate:       uint32(opt.ClockRate),
		SampleRate:      uint32(opt.SampleRate),
		Oversample:      uint(opt.Oversample),
		NoOversample:    opt.Oversample == 0,
		DisableHighpass: opt.NoHighpass,
		Format:          saa.Format{Bits: opt.Bits, Channels: opt.Channels},
		NoiseSeed:       saa.DefaultNoiseSeed,
	}
	if opt.SampleRate <= 0 || opt.ClockRate <= 0 {
		return o, fmt.Errorf("sample rate and clock must be positive")
	}
	if opt.Oversample < 0 || opt.Oversample > int(saa.MaxOversample) {
		return o, fmt.Errorf("oversample %d out of range 0-%d", opt.Oversample, saa.MaxOversample)
	}
	if opt.Bits != 8 && opt.Bits != 16 {
		return o, fmt.Errorf("unsupported sample size %d", opt.Bits)
	}
	if opt.Channels != 1 && opt.Channels != 2 {
		return o, fmt.Errorf("unsupported channel count %d", opt.Channels)
	}

	switch strings.ToLower(opt.AmpModel) {
	case "pdm":
		o.AmpModel = saa.AmpPDM
	case "product":
		o.AmpModel = saa.AmpProduct
	default:
		return o, fmt.Errorf("unknown amplitude model %q", opt.AmpModel)
	}

	switch strings.ToLower(opt.NoiseModel) {
	case "shift":
		o.NoiseModel = saa.NoiseShiftTap
	case "lcg":
		o.NoiseModel = saa.NoiseCongruential
	default:
		return o, fmt.Errorf("unknown noise model %q", opt.NoiseModel)
	}

	switch opt.Backend {
	case "sdl", "oto", "none":
	default:
		return o, fmt.Errorf("unknown backend %q", opt.Backend)
	}
	return o, nil
}
