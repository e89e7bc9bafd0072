package collector

import (
	"errors"
	"testing"
	"time"

	"openfx/internal/history"
	"openfx/internal/logging"
	"openfx/internal/model"
)

func risingBars(start float64, step float64, n int) []model.OHLCV {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := start + step*float64(i)
		bars[i] = model.OHLCV{
			Time: t0.Add(time.Duration(i) * time.Minute),
			Open: p, High: p + 0.0002, Low: p - 0.0002, Close: p,
		}
	}
	return bars
}

func TestCheckPair_ComputesStatus(t *testing.T) {
	pair, _ := model.ParsePair("EURUSD")
	bars := risingBars(1.0000, 0.0020, 10) // +0.8% over the last 5 bars

	store := history.NewStore(0)
	c := NewCollector(&MockFetcher{Bars: map[string][]model.OHLCV{"EURUSD": bars}}, store, 5, logging.Nop())

	st, err := c.CheckPair(pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st == nil {
		t.Fatal("expected status, got nil")
	}
	if st.Price != bars[len(bars)-1].Close {
		t.Errorf("price = %v, want latest close %v", st.Price, bars[len(bars)-1].Close)
	}
	if st.Severity != model.SeverityMajor || !st.Alerted {
		t.Errorf("expected major alert for +0.8%% move, got %v alerted=%v", st.Severity, st.Alerted)
	}
	if st.PctChange <= 0.5 {
		t.Errorf("pct change = %v, want > 0.5", st.PctChange)
	}
	if st.DayHigh <= st.DayLow {
		t.Errorf("day range inverted: high=%v low=%v", st.DayHigh, st.DayLow)
	}
	if got := store.Series("EURUSD"); len(got) != len(bars) {
		t.Errorf("store holds %d points, want %d", len(got), len(bars))
	}
}

func TestCheckPair_QuietMarket(t *testing.T) {
	pair, _ := model.ParsePair("USDJPY")
	bars := risingBars(154.60, 0.0, 20)

	c := NewCollector(&MockFetcher{Bars: map[string][]model.OHLCV{"USDJPY": bars}}, history.NewStore(0), 5, logging.Nop())
	st, err := c.CheckPair(pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Severity != model.SeverityNone || st.Alerted {
		t.Errorf("expected no alert for flat market, got %v alerted=%v", st.Severity, st.Alerted)
	}
}

func TestCheckPair_EmptyFeedSkips(t *testing.T) {
	pair, _ := model.ParsePair("GBPUSD")
	c := NewCollector(&MockFetcher{Bars: map[string][]model.OHLCV{}}, history.NewStore(0), 5, logging.Nop())

	st, err := c.CheckPair(pair)
	if err != nil {
		t.Fatalf("empty feed should skip, not fail: %v", err)
	}
	if st != nil {
		t.Errorf("expected nil status for empty feed, got %+v", st)
	}
}

func TestCheckPair_FetchError(t *testing.T) {
	pair, _ := model.ParsePair("EURUSD")
	c := NewCollector(&MockFetcher{Err: errors.New("boom")}, history.NewStore(0), 5, logging.Nop())

	if _, err := c.CheckPair(pair); err == nil {
		t.Fatal("expected error from failing fetcher")
	}
}

func TestGenerateMockBars_Deterministic(t *testing.T) {
	a := generateMockBars("EURUSD", 240, time.Minute)
	b := generateMockBars("EURUSD", 240, time.Minute)
	if len(a) != 240 || len(b) != 240 {
		t.Fatalf("expected 240 bars, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Close != b[i].Close {
			t.Fatalf("bar %d differs between runs: %v vs %v", i, a[i].Close, b[i].Close)
		}
	}
	if a[0].Close == generateMockBars("USDJPY", 240, time.Minute)[0].Close {
		t.Error("different symbols should not share a price path")
	}
}
