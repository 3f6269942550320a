package saa

// pdmLevels is the amplitude the chip's pulse-density mixing of an
// envelope level (row) and a channel volume (column) settles at. Only
// even volume columns are used since the envelope path drops the low
// volume bit.
var pdmLevels = [16][16]uint8{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 2, 2, 2, 2, 2, 2, 2, 2, 4, 4, 4, 4},
	{0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8},
	{0, 1, 1, 2, 4, 5, 5, 6, 6, 7, 7, 8, 10, 11, 11, 12},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{0, 1, 2, 3, 6, 7, 8, 9, 10, 11, 12, 13, 16, 17, 18, 19},
	{0, 2, 3, 5, 6, 8, 9, 11, 12, 14, 15, 17, 18, 20, 21, 23},
	{0, 2, 3, 5, 8, 10, 11, 13, 14, 16, 17, 19, 22, 24, 25, 27},
	{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30},
	{0, 2, 4, 6, 10, 12, 14, 16, 18, 20, 22, 24, 28, 30, 32, 34},
	{0, 3, 5, 8, 10, 13, 15, 18, 20, 23, 25, 28, 30, 33, 35, 38},
	{0, 3, 5, 8, 12, 15, 17, 20, 22, 25, 27, 30, 34, 37, 39, 42},
	{0, 3, 6, 9, 12, 15, 18, 21, 24, 27, 30, 33, 36, 39, 42, 45},
	{0, 3, 6, 9, 14, 17, 20, 23, 26, 29, 32, 35, 40, 43, 46, 49},
	{0, 4, 7, 11, 14, 18, 21, 25, 28, 32, 35, 39, 42, 46, 49, 53},
	{0, 4, 7, 11, 16, 20, 23, 27, 30, 34, 37, 41, 46, 50, 53, 57},
}

// effectiveAmplitude combines an envelope level and a volume with bit 0
// cleared. Both models peak near 210 so they can be swapped without a
// change in loudness.
func effectiveAmplitude(model AmpModel, env, vol uint8) uint16 {
	if model == AmpProduct {
		return uint16(env&0x0f) * uint16(vol&0x0f)
	}
	return uint16(pdmLevels[env&0x0f][vol&0x0f]) * 4
}
