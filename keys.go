package main

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// waitForStop returns a channel closed when the user presses q, Enter or
// Escape. On a terminal stdin is put in raw mode so a single key does;
// otherwise a line is read. restore puts the terminal back.
//
// The reading goroutine lives until a key arrives or stdin ends. When
// playback finishes first it stays parked in Read; that is only safe
// because main exits right after, and stdin is not read anywhere else.
func waitForStop() (stop <-chan struct{}, restore func()) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return watchLine(os.Stdin), func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return watchLine(os.Stdin), func() {}
	}
	return watchKeys(os.Stdin), func() { _ = term.Restore(fd, oldState) }
}

// watchLine closes the returned channel once a line or EOF is read.
func watchLine(r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		bufio.NewReader(r).ReadString('\n')
	}()
	return ch
}

// watchKeys closes the returned channel on the first stop key, a read
// error or EOF.
func watchKeys(r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n == 1 && isStopKey(buf[0]) {
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// Raw mode sends CR for Enter.
func isStopKey(b byte) bool {
	switch b {
	case 'q', 'Q', '\r', '\n', 0x1b, 0x03:
		return true
	}
	return false
}
