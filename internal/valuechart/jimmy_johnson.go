package valuechart

// jimmyJohnsonValues is the classic trade value chart for the first seven
// rounds (picks 1-224), indexed by overall pick - 1.
var jimmyJohnsonValues = []float64{
	// Round 1
	3000, 2600, 2200, 1800, 1700, 1600, 1500, 1400, 1350, 1300,
	1250, 1200, 1150, 1100, 1050, 1000, 950, 900, 875, 850,
	800, 780, 760, 740, 720, 700, 680, 660, 640, 620,
	600, 590,
	// Round 2
	580, 560, 550, 540, 530, 520, 510, 500, 490, 480,
	470, 460, 450, 440, 430, 420, 410, 400, 390, 380,
	370, 360, 350, 340, 330, 320, 310, 300, 292, 284,
	276, 270,
	// Round 3
	265, 260, 255, 250, 245, 240, 235, 230, 225, 220,
	215, 210, 205, 200, 195, 190, 185, 180, 175, 170,
	165, 160, 155, 150, 145, 142, 140, 138, 136, 134,
	132, 130,
	// Round 4
	128, 126, 124, 122, 120, 118, 116, 114, 112, 110,
	108, 106, 104, 102, 100, 98, 96, 94, 92, 90,
	88, 86, 84, 82, 80, 78, 76, 74, 72, 70,
	68, 66,
	// Round 5
	64, 62, 60, 58, 56, 54, 52, 50, 49, 48,
	47, 46, 45, 44, 43, 42, 41, 40, 39.5, 39,
	38.5, 38, 37.5, 37, 36.5, 36, 35.5, 35, 34.5, 34,
	33.5, 33,
	// Round 6
	32.6, 32.2, 31.8, 31.4, 31, 30.6, 30.2, 29.8, 29.4, 29,
	28.6, 28.2, 27.8, 27.4, 27, 26.6, 26.2, 25.8, 25.4, 25,
	24.6, 24.2, 23.8, 23.4, 23, 22.6, 22.2, 21.8, 21.4, 21,
	20.6, 20.2,
	// Round 7
	19.8, 19.4, 19, 18.6, 18.2, 17.8, 17.4, 17, 16.6, 16.2,
	15.8, 15.4, 15, 14.6, 14.2, 13.8, 13.4, 13, 12.6, 12.2,
	11.8, 11.4, 11, 10.6, 10.2, 9.8, 9.4, 9, 8.6, 8.2,
	7.8, 7.4,
}

// JimmyJohnson prices picks off the classic chart. Picks past the table
// get a nominal floor value so late-round swaps still price.
type JimmyJohnson struct{}

func (JimmyJohnson) CalculatePickValue(overallPick int) float64 {
	if overallPick < 1 {
		return 0
	}
	if overallPick > len(jimmyJohnsonValues) {
		return 1
	}
	return jimmyJohnsonValues[overallPick-1]
}

func (JimmyJohnson) IsTradeFair(valueA, valueB, thresholdPercent float64) bool {
	return isTradeFair(valueA, valueB, thresholdPercent)
}

func (JimmyJohnson) Name() string { return "jimmy_johnson" }
