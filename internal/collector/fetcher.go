package collector

import (
	"time"

	"openfx/internal/model"
)

// Fetcher defines the interface for fetching intraday market data.
type Fetcher interface {
	// FetchIntradayBars returns one symbol's session bars at the given bar
	// interval, oldest first. rng is the provider's range token, e.g. "1d".
	FetchIntradayBars(symbol string, interval time.Duration, rng string) ([]model.OHLCV, error)
	Name() string
}
