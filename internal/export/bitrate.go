package export

// bitrateKbps maps output height to target video bitrate in kbps per
// quality tier, calibrated for 30 fps screen content.
var bitrateKbps = map[int]map[Quality]int{
	720:  {QualityLow: 2500, QualityMedium: 5000, QualityHigh: 8000},
	1080: {QualityLow: 4000, QualityMedium: 8000, QualityHigh: 12000},
	1440: {QualityLow: 8000, QualityMedium: 14000, QualityHigh: 20000},
}

// Bitrate returns the target video bitrate in kbps for the given output
// height, quality tier and frame rate. Rates above or below 30 fps scale
// the bitrate proportionally. Unknown heights fall back to the 1080 row.
func Bitrate(height int, q Quality, fps int) int {
	row, ok := bitrateKbps[height]
	if !ok {
		row = bitrateKbps[1080]
	}
	base, ok := row[q]
	if !ok {
		base = row[QualityMedium]
	}
	if fps > 0 && fps != 30 {
		base = base * fps / 30
	}
	return base
}
