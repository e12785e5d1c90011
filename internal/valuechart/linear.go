package valuechart

// Linear prices picks on a flat slope: pick 1 is worth 1000 points and each
// later pick is worth 4 fewer, floored at 1. Useful for leagues that find
// the classic chart too top-heavy.
type Linear struct{}

func (Linear) CalculatePickValue(overallPick int) float64 {
	if overallPick < 1 {
		return 0
	}
	v := 1000 - float64(overallPick-1)*4
	if v < 1 {
		return 1
	}
	return v
}

func (Linear) IsTradeFair(valueA, valueB, thresholdPercent float64) bool {
	return isTradeFair(valueA, valueB, thresholdPercent)
}

func (Linear) Name() string { return "linear" }
