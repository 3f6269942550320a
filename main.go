package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yasaa/app/saa"
	"yasaa/app/trace"
	"yasaa/app/tune"
)

var opt *PlayerSettings

// openSource picks a sequencer by file extension: .lua scripts, .log
// register logs, anything else is loaded as a driver tune.
func openSource(name string, chip *saa.Device) (Sequencer, func(), error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lua":
		s, err := LoadScript(name, chip.SampleRate())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case ".log":
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		events, err := trace.Parse(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		return trace.NewReplay(events), func() {}, nil
	}

	t, err := tune.LoadFile(name)
	if err != nil {
		return nil, nil, err
	}
	d := NewDriver(t, opt.Subtune, chip.SampleRate())
	if !opt.Quiet {
		PrintTuneHeader(os.Stdout, t, d.Song())
	}
	return d, func() {}, nil
}

func main() {
	opt = NewPlayerSettings()

	// Parse arguments
	if err := opt.ParseArgs(flag.CommandLine, os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if opt.Usage {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		fmt.Println("Usage: yasaa [options] <tune.saat | script.lua | registers.log>")
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

func run(name string) error {
	opts, err := opt.Options()
	if err != nil {
		return err
	}
	chip := saa.New(opts)

	seq, closeSeq, err := openSource(name, chip)
	if err != nil {
		return err
	}
	defer closeSeq()

	if _, isTune := seq.(*Driver); isTune && opt.Backend == "none" && opt.Duration == 0 {
		return fmt.Errorf("backend none needs a duration (-t) for driver tunes")
	}

	player := NewPlayer(chip, seq)
	player.SetDuration(opt.Duration)

	var rec *trace.Recorder
	if opt.RegLog != "" {
		f, err := os.Create(opt.RegLog)
		if err != nil {
			return err
		}
		defer f.Close()
		rec = trace.NewRecorder(f, chip)
		player.SetRecorder(rec)
	}

	var dumps []io.Writer
	var closers []io.Closer
	if opt.PCMOut != "" {
		f, err := os.Create(opt.PCMOut)
		if err != nil {
			return err
		}
		defer f.Close()
		pcm := trace.NewPCMWriter(f)
		dumps = append(dumps, pcm)
		closers = append(closers, pcm)
	}
	if opt.WavOut != "" {
		f, err := os.Create(opt.WavOut)
		if err != nil {
			return err
		}
		defer f.Close()
		wav, err := trace.NewWAVWriter(f, chip.Format(), chip.SampleRate())
		if err != nil {
			return err
		}
		dumps = append(dumps, wav)
		closers = append(closers, wav)
	}
	if len(dumps) > 0 {
		player.Tee(io.MultiWriter(dumps...))
	}

	if !opt.Quiet {
		PrintSession(os.Stdout, filepath.Base(name), chip, opt.Backend)
	}

	if err := play(player, chip); err != nil {
		return err
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	if rec != nil {
		if err := rec.Flush(); err != nil {
			return fmt.Errorf("register log: %w", err)
		}
	}
	if err := player.TeeErr(); err != nil {
		return fmt.Errorf("output dump: %w", err)
	}
	if s, ok := seq.(*Script); ok && s.Err() != nil {
		return s.Err()
	}

	if !opt.Quiet {
		fmt.Printf("Played %v\n", player.Position().Round(time.Millisecond))
	}
	return nil
}

func play(player *Player, chip *saa.Device) error {
	if opt.Backend == "none" {
		_, err := io.Copy(io.Discard, player)
		return err
	}

	var backend audioBackend
	var err error
	switch opt.Backend {
	case "oto":
		backend, err = newOtoBackend(player, chip.Format(), int(chip.SampleRate()))
	default:
		backend, err = newSDLBackend(player, chip.Format(), int(chip.SampleRate()))
	}
	if err != nil {
		return err
	}

	stop, restore := waitForStop()
	if !opt.Quiet {
		fmt.Print("Press q or Enter to stop anytime\r\n")
	}
	if err := backend.Play(); err != nil {
		restore()
		backend.Close()
		return err
	}

	select {
	case <-stop:
	case <-backend.Done():
	}
	restore()

	player.Stop()
	return backend.Close()
}
