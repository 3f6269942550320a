package main

import (
	"io"
	"strings"
	"testing"
	"time"
)

func waitClosed(t *testing.T, name string, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Errorf("%s: channel not closed", name)
	}
}

func TestWatchKeysStops(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"q", "abq"},
		{"enter", "x\r"},
		{"escape", "\x1b"},
		{"eof", "abc"},
	}
	for _, tc := range tests {
		waitClosed(t, tc.name, watchKeys(strings.NewReader(tc.in)))
	}
}

func TestWatchKeysIgnoresOtherKeys(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ch := watchKeys(r)
	w.Write([]byte("abc"))
	select {
	case <-ch:
		t.Fatalf("stopped on an ordinary key")
	case <-time.After(50 * time.Millisecond):
	}

	w.Write([]byte("q"))
	waitClosed(t, "q after keys", ch)
}

func TestWatchLine(t *testing.T) {
	waitClosed(t, "line", watchLine(strings.NewReader("\n")))
	waitClosed(t, "eof", watchLine(strings.NewReader("")))
}
