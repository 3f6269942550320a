package saa

import "testing"

// heldTone returns an oscillator frozen at level.
func heldTone(level uint8) *FreqGenerator {
	f := NewFreqGenerator(nil, nil)
	f.Sync(true)
	f.level = level
	return f
}

// heldNoise returns a noise generator frozen with output bit.
func heldNoise(bit uint8) *NoiseGenerator {
	n := NewNoiseGenerator(uint32(bit), NoiseShiftTap)
	n.SetSource(3)
	return n
}

func TestAmpMixTruthTable(t *testing.T) {
	tests := []struct {
		tone, noise uint8
		mode        uint8
		want        uint8
	}{
		{0, 0, 0, 0},
		{2, 1, 0, 0},
		{0, 1, 1, 0},
		{2, 0, 1, 2},
		{2, 1, 1, 2},
		{0, 0, 2, 0},
		{0, 1, 2, 2},
		{2, 0, 2, 0},
		{0, 0, 3, 0},
		{0, 1, 3, 0},
		{2, 0, 3, 2},
		{2, 1, 3, 1},
	}
	for _, tc := range tests {
		a := NewAmplifier(heldTone(tc.tone), heldNoise(tc.noise), nil, AmpPDM)
		a.SetToneMixer(tc.mode&0x01 != 0)
		a.SetNoiseMixer(tc.mode&0x02 != 0)
		a.Tick()
		if got := a.Intermediate(); got != tc.want {
			t.Errorf("tone %d noise %d mode %d: got %d, want %d", tc.tone, tc.noise, tc.mode, got, tc.want)
		}
	}
}

func TestAmpVolumeOutput(t *testing.T) {
	a := NewAmplifier(heldTone(2), heldNoise(0), nil, AmpPDM)
	a.SetAmpLevel(0x3f)
	a.SetToneMixer(true)

	if got := a.TickStereo(); got != (Stereo{}) {
		t.Errorf("muted: got %+v, want silence", got)
	}

	a.Mute(false)
	if got, want := a.TickStereo(), (Stereo{Left: 480, Right: 96}); got != want {
		t.Errorf("tone only: got %+v, want %+v", got, want)
	}

	a.SetNoiseMixer(true)
	a.noise = heldNoise(1)
	if got, want := a.TickStereo(), (Stereo{Left: 240, Right: 48}); got != want {
		t.Errorf("tone and noise: got %+v, want %+v", got, want)
	}
}

func TestAmpEnvelopeOutput(t *testing.T) {
	env := NewEnvelopeGenerator()
	env.SetEnvControl(0x82) // maximum amplitude

	tests := []struct {
		model AmpModel
		mode  uint8
		want  uint16
	}{
		// Envelope level 15 with volume 15 read as 14.
		{AmpPDM, 0, 53 * 4 * 2},
		{AmpPDM, 1, 0},
		{AmpProduct, 0, 15 * 14 * 2},
	}
	for _, tc := range tests {
		a := NewAmplifier(heldTone(2), heldNoise(0), env, tc.model)
		a.Mute(false)
		a.SetAmpLevel(0xff)
		a.SetToneMixer(tc.mode&0x01 != 0)
		got := a.TickStereo()
		if got.Left != tc.want || got.Right != tc.want {
			t.Errorf("model %d mode %d: got %+v, want %d", tc.model, tc.mode, got, tc.want)
		}
	}

	// Tone and noise high gives the half level.
	a := NewAmplifier(heldTone(2), heldNoise(1), env, AmpPDM)
	a.Mute(false)
	a.SetAmpLevel(0xff)
	a.SetToneMixer(true)
	a.SetNoiseMixer(true)
	if got := a.TickStereo(); got.Left != 53*4 {
		t.Errorf("half level: got %d, want %d", got.Left, 53*4)
	}
}

func TestAmpDisabledEnvelopeUsesVolume(t *testing.T) {
	env := NewEnvelopeGenerator()
	a := NewAmplifier(heldTone(2), heldNoise(0), env, AmpPDM)
	a.Mute(false)
	a.SetAmpLevel(0x11)
	a.SetToneMixer(true)

	if got, want := a.TickStereo(), (Stereo{Left: 32, Right: 32}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAmpSyncFreezesOscillator(t *testing.T) {
	f := NewFreqGenerator(nil, nil)
	a := NewAmplifier(f, heldNoise(0), nil, AmpPDM)
	a.Mute(false)
	a.SetAmpLevel(0xff)
	a.SetToneMixer(true)

	a.TickStereo()
	before := f.counter

	a.Sync(true)
	for i := 0; i < 10; i++ {
		if got := a.TickStereo(); got != (Stereo{}) {
			t.Fatalf("synced amplifier produced %+v", got)
		}
	}
	if f.counter != before {
		t.Errorf("oscillator ticked while amplifier synced")
	}
}

func TestEffectiveAmplitude(t *testing.T) {
	tests := []struct {
		model    AmpModel
		env, vol uint8
		want     uint16
	}{
		{AmpPDM, 0, 14, 0},
		{AmpPDM, 15, 0, 0},
		{AmpPDM, 8, 8, 16 * 4},
		{AmpPDM, 2, 14, 7 * 4},
		{AmpProduct, 8, 8, 64},
		{AmpProduct, 15, 14, 210},
	}
	for _, tc := range tests {
		if got := effectiveAmplitude(tc.model, tc.env, tc.vol); got != tc.want {
			t.Errorf("model %d env %d vol %d: got %d, want %d", tc.model, tc.env, tc.vol, got, tc.want)
		}
	}
}
