package main

import (
	"errors"
	"io"
	"log"
	"time"

	"yasaa/app/saa"

	"github.com/veandco/go-sdl2/sdl"
)

// The queue is topped up to this many sample frames.
const sdlQueueFrames = 4096

type sdlBackend struct {
	dev  sdl.AudioDeviceID
	r    io.Reader
	bps  int
	done chan struct{}
	quit chan struct{}
}

func newSDLBackend(r io.Reader, format saa.Format, sampleRate int) (*sdlBackend, error) {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	spec := &sdl.AudioSpec{}
	spec.Samples = 1024
	spec.Channels = uint8(format.Channels)
	spec.Freq = int32(sampleRate)
	spec.Format = sdl.AUDIO_S16LSB
	if format.Bits == 8 {
		spec.Format = sdl.AUDIO_U8
	}

	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		sdl.Quit()
		return nil, err
	}
	return &sdlBackend{
		dev:  dev,
		r:    r,
		bps:  format.BytesPerSample(),
		done: make(chan struct{}),
		quit: make(chan struct{}),
	}, nil
}

func (b *sdlBackend) Play() error {
	sdl.PauseAudioDevice(b.dev, false)
	go b.feed()
	return nil
}

// feed keeps the device queue filled from the reader, then waits for it
// to drain.
func (b *sdlBackend) feed() {
	defer close(b.done)

	buf := make([]byte, 1024*b.bps)
	limit := uint32(sdlQueueFrames * b.bps)

	for {
		select {
		case <-b.quit:
			return
		default:
		}

		if sdl.GetQueuedAudioSize(b.dev) > limit {
			time.Sleep(5 * time.Millisecond)
			continue
		}

		n, err := b.r.Read(buf)
		if n > 0 {
			if qerr := sdl.QueueAudio(b.dev, buf[:n]); qerr != nil {
				log.Println(qerr)
				return
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Println(err)
			return
		}
	}

	for sdl.GetQueuedAudioSize(b.dev) > 0 {
		select {
		case <-b.quit:
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (b *sdlBackend) Done() <-chan struct{} {
	return b.done
}

func (b *sdlBackend) Close() error {
	close(b.quit)
	<-b.done
	sdl.CloseAudioDevice(b.dev)
	sdl.Quit()
	return nil
}
