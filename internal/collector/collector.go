package collector

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"openfx/internal/alert"
	"openfx/internal/calculator"
	"openfx/internal/history"
	"openfx/internal/model"
)

// Intraday request shape: one-minute bars over the current session.
const (
	barInterval = time.Minute
	barRange    = "1d"
)

// Collector pulls intraday bars for a pair, records them, and reduces
// them to a point-in-time status.
type Collector struct {
	fetcher  Fetcher
	store    *history.Store
	lookback int
	log      *zap.SugaredLogger
}

func NewCollector(f Fetcher, store *history.Store, lookback int, log *zap.SugaredLogger) *Collector {
	return &Collector{fetcher: f, store: store, lookback: lookback, log: log}
}

// CheckPair fetches the latest session bars for pair and computes its
// current status. A nil status with nil error means the feed had no data
// for the pair this cycle and it should be skipped.
func (c *Collector) CheckPair(pair model.CurrencyPair) (*model.PairStatus, error) {
	bars, err := c.fetcher.FetchIntradayBars(pair.Symbol, barInterval, barRange)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pair.Display(), err)
	}
	if len(bars) == 0 {
		c.log.Debugw("no data for pair", "pair", pair.Display())
		return nil, nil
	}

	c.store.SetBars(pair.Symbol, bars)

	closes := calculator.Closes(bars)
	price := closes[len(closes)-1]
	pct := calculator.PercentChange(closes, c.lookback)

	high, low, err := calculator.SessionRange(bars)
	if err != nil {
		high, low = price, price
	}

	sev := alert.Classify(pct)
	return &model.PairStatus{
		Pair:      pair,
		Price:     price,
		PctChange: pct,
		DayHigh:   high,
		DayLow:    low,
		Severity:  sev,
		Alerted:   sev != model.SeverityNone,
		CheckedAt: time.Now(),
	}, nil
}

// Lookback reports the bar offset used for percent change.
func (c *Collector) Lookback() int { return c.lookback }
