package calculator

import "openfx/internal/model"

// PercentChange returns the percentage move between the close `lookback`
// bars ago and the latest close. With fewer bars than the lookback there
// is nothing to compare against, so the change is 0. A lookback of 1
// compares the latest close with itself and is therefore always 0.
func PercentChange(closes []float64, lookback int) float64 {
	if lookback <= 0 || len(closes) < lookback {
		return 0.0
	}
	current := closes[len(closes)-1]
	old := closes[len(closes)-lookback]
	if old <= 0 {
		return 0.0
	}
	return (current - old) / old * 100
}

// Closes extracts the close prices from bars, oldest first.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
