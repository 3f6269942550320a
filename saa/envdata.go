package saa

// envShape is one of the eight envelope waveforms. levels is indexed by
// resolution (0 = 4 bit, 1 = 3 bit), phase and position within the phase.
type envShape struct {
	phases  uint8
	looping bool
	levels  [2][2][16]uint8
}

var (
	envZero    = [16]uint8{}
	envMax4    = [16]uint8{15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15}
	envMax3    = [16]uint8{14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14}
	envDecay4  = [16]uint8{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	envDecay3  = [16]uint8{14, 14, 12, 12, 10, 10, 8, 8, 6, 6, 4, 4, 2, 2, 0, 0}
	envAttack4 = [16]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	envAttack3 = [16]uint8{0, 0, 2, 2, 4, 4, 6, 6, 8, 8, 10, 10, 12, 12, 14, 14}
)

// Waveforms selected by envelope control bits 1-3.
var envShapes = [8]envShape{
	// 0: zero amplitude
	{1, false, [2][2][16]uint8{{envZero, envZero}, {envZero, envZero}}},
	// 1: maximum amplitude
	{1, true, [2][2][16]uint8{{envMax4, envMax4}, {envMax3, envMax3}}},
	// 2: single decay
	{1, false, [2][2][16]uint8{{envDecay4, envZero}, {envDecay3, envZero}}},
	// 3: repetitive decay
	{1, true, [2][2][16]uint8{{envDecay4, envZero}, {envDecay3, envZero}}},
	// 4: single triangular
	{2, false, [2][2][16]uint8{{envAttack4, envDecay4}, {envAttack3, envDecay3}}},
	// 5: repetitive triangular
	{2, true, [2][2][16]uint8{{envAttack4, envDecay4}, {envAttack3, envDecay3}}},
	// 6: single attack
	{1, false, [2][2][16]uint8{{envAttack4, envZero}, {envAttack3, envZero}}},
	// 7: repetitive attack
	{1, true, [2][2][16]uint8{{envAttack4, envZero}, {envAttack3, envZero}}},
}
