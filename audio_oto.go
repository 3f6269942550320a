package main

import (
	"io"
	"time"

	"yasaa/app/saa"

	"github.com/ebitengine/oto/v3"
)

// audioBackend plays a PCM stream until the stream ends or it is closed.
type audioBackend interface {
	Play() error
	Done() <-chan struct{}
	Close() error
}

type otoBackend struct {
	ctx    *oto.Context
	player *oto.Player
	done   chan struct{}
	quit   chan struct{}
}

func newOtoBackend(r io.Reader, format saa.Format, sampleRate int) (*otoBackend, error) {
	f := oto.FormatSignedInt16LE
	if format.Bits == 8 {
		f = oto.FormatUnsignedInt8
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: format.Channels,
		Format:       f,
		BufferSize:   100 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	b := &otoBackend{
		ctx:  ctx,
		done: make(chan struct{}),
		quit: make(chan struct{}),
	}
	b.player = ctx.NewPlayer(r)
	return b, nil
}

func (b *otoBackend) Play() error {
	b.player.Play()

	// The player stops by itself once the reader returns io.EOF and its
	// buffer has drained.
	go func() {
		defer close(b.done)
		t := time.NewTicker(50 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-b.quit:
				return
			case <-t.C:
				if !b.player.IsPlaying() {
					return
				}
			}
		}
	}()
	return b.player.Err()
}

func (b *otoBackend) Done() <-chan struct{} {
	return b.done
}

func (b *otoBackend) Close() error {
	close(b.quit)
	<-b.done
	return b.player.Close()
}
