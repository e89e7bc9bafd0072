package collector

import (
	"hash/fnv"
	"math"
	"time"

	"openfx/internal/model"
)

// Session bases for the six majors; unknown symbols walk around 1.0.
var mockBasePrices = map[string]float64{
	"EURUSD": 1.0842,
	"USDJPY": 154.62,
	"GBPUSD": 1.2718,
	"USDCHF": 0.9034,
	"USDCAD": 1.3729,
	"AUDUSD": 0.6573,
}

// MockFetcher returns deterministic synthetic data for development and
// testing. Bars overrides per symbol; Err forces every fetch to fail.
type MockFetcher struct {
	Bars map[string][]model.OHLCV
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntradayBars(symbol string, interval time.Duration, _ string) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars[symbol], nil
	}
	return generateMockBars(symbol, 240, interval), nil
}

// generateMockBars produces a deterministic intraday walk: a slow sine
// drift phased per symbol, with a step every spikeEvery bars so the alert
// paths light up without a live feed.
func generateMockBars(symbol string, count int, step time.Duration) []model.OHLCV {
	base, ok := mockBasePrices[symbol]
	if !ok {
		base = 1.0
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	phase := float64(h.Sum32()%360) * math.Pi / 180

	const spikeEvery = 101
	start := time.Now().Truncate(step).Add(-time.Duration(count-1) * step)
	bars := make([]model.OHLCV, count)
	level := 0.0
	for i := range bars {
		if i > 0 && i%spikeEvery == 0 {
			level += 0.008
		}
		p := base * (1 + 0.006*math.Sin(2*math.Pi*float64(i)/90+phase) + level)
		bars[i] = model.OHLCV{
			Time:  start.Add(time.Duration(i) * step),
			Open:  p * 0.9998,
			High:  p * 1.0004,
			Low:   p * 0.9996,
			Close: p,
		}
	}
	return bars
}
