package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is one chart sample: a close price at a moment in time.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Points extracts chart samples from bars.
func Points(bars []OHLCV) []PricePoint {
	pts := make([]PricePoint, len(bars))
	for i, b := range bars {
		pts[i] = PricePoint{Time: b.Time, Price: b.Close}
	}
	return pts
}
