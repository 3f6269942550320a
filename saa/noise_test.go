package saa

import "testing"

func TestNoiseShiftTapSequence(t *testing.T) {
	n := NewNoiseGenerator(0x00000004, NoiseShiftTap)
	n.SetSource(3)

	want := []struct {
		rand uint32
		bit  uint8
	}{
		{0x09, 1},
		{0x12, 0},
		{0x24, 0},
		{0x49, 1},
		{0x92, 0},
	}
	for i, w := range want {
		n.Trigger()
		if n.rand != w.rand || n.Level() != w.bit {
			t.Errorf("step %d: got %#x bit %d, want %#x bit %d", i, n.rand, n.Level(), w.rand, w.bit)
		}
	}
}

func TestNoiseBothTapsShiftInZero(t *testing.T) {
	n := NewNoiseGenerator(DefaultNoiseSeed, NoiseShiftTap)
	n.SetSource(3)

	n.Trigger()
	if n.rand != 0xfffffffe {
		t.Errorf("got %#x, want 0xfffffffe", n.rand)
	}
	if n.LevelTimesTwo() != 0 {
		t.Errorf("level: got %d, want 0", n.LevelTimesTwo())
	}
}

func TestNoiseCongruential(t *testing.T) {
	n := NewNoiseGenerator(DefaultNoiseSeed, NoiseCongruential)
	if n.Level() != 0 {
		t.Errorf("initial level: got %d, want 0", n.Level())
	}
	n.SetSource(3)

	n.Trigger()
	if n.Level() != 1 {
		t.Errorf("level: got %d, want 1", n.Level())
	}
	if n.rand != 0xf96c5cac {
		t.Errorf("register: got %#x, want 0xf96c5cac", n.rand)
	}
}

func TestNoiseTriggerOnlyInSourceThree(t *testing.T) {
	n := NewNoiseGenerator(0x00000004, NoiseShiftTap)

	for source := uint8(0); source < 3; source++ {
		n.SetSource(source)
		n.Trigger()
		if n.rand != 0x04 {
			t.Fatalf("source %d: trigger stepped the generator", source)
		}
	}

	n.SetSource(3)
	n.threshold = 1
	n.Tick()
	if n.rand != 0x04 {
		t.Errorf("source 3: tick stepped the generator")
	}
}

func TestNoiseSourceRates(t *testing.T) {
	tests := []struct {
		source uint8
		ticks  int
	}{
		{0, 1},
		{1, 2},
		{2, 4},
	}
	for _, tc := range tests {
		n := NewNoiseGenerator(0x00000004, NoiseShiftTap)
		n.SetSource(tc.source)
		// One step per tick at the fastest rate.
		n.threshold = n.base

		for i := 1; i < tc.ticks; i++ {
			n.Tick()
		}
		if n.rand != 0x04 {
			t.Errorf("source %d: stepped after %d ticks", tc.source, tc.ticks-1)
		}
		n.Tick()
		if n.rand != 0x09 {
			t.Errorf("source %d: got %#x after %d ticks, want 0x09", tc.source, n.rand, tc.ticks)
		}
	}
}

func TestNoiseDefaultRate(t *testing.T) {
	n := NewNoiseGenerator(DefaultNoiseSeed, NoiseShiftTap)

	// clock/256 at the default clock: 31250 Hz.
	ticks := uint64(DefaultSampleRate) << DefaultOversample
	if got := ticks * n.add / n.threshold; got != 31250 {
		t.Errorf("steps per second: got %d, want 31250", got)
	}
}

func TestNoiseSyncHolds(t *testing.T) {
	n := NewNoiseGenerator(0x00000004, NoiseShiftTap)
	n.threshold = n.base
	n.Sync(true)

	for i := 0; i < 10; i++ {
		n.Tick()
	}
	if n.rand != 0x04 {
		t.Errorf("synced generator stepped: %#x", n.rand)
	}

	n.Sync(false)
	n.Tick()
	if n.rand != 0x09 {
		t.Errorf("got %#x, want 0x09", n.rand)
	}
}
