package alert

import (
	"testing"
	"time"

	"openfx/internal/model"
)

var testBase = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

func mkAlert(t *testing.T, symbol string, pct float64, at time.Time) model.Alert {
	t.Helper()
	pair, err := model.ParsePair(symbol)
	if err != nil {
		t.Fatalf("parse pair %s: %v", symbol, err)
	}
	a, ok := New(pair, 1.0, pct, 5, at)
	if !ok {
		t.Fatalf("alert for %s %+.2f%% not created", symbol, pct)
	}
	return a
}

func TestRing_EvictsOldestFirst(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Add(mkAlert(t, "EURUSD", 0.6, testBase.Add(time.Duration(i)*time.Minute)))
	}
	if r.Len() != 3 {
		t.Fatalf("expected ring len 3, got %d", r.Len())
	}
	got := r.Recent(0)
	if len(got) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(got))
	}
	// Oldest two evicted; survivors ordered oldest first.
	for i, a := range got {
		want := testBase.Add(time.Duration(i+2) * time.Minute)
		if !a.At.Equal(want) {
			t.Errorf("alert %d at %v, want %v", i, a.At, want)
		}
	}
}

func TestRing_RecentLimitsAndOrder(t *testing.T) {
	r := NewRing(10)
	for i := 0; i < 4; i++ {
		r.Add(mkAlert(t, "EURUSD", 0.6, testBase.Add(time.Duration(i)*time.Minute)))
	}
	got := r.Recent(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got))
	}
	if !got[0].At.Equal(testBase.Add(2 * time.Minute)) {
		t.Errorf("expected the two newest alerts oldest first, got first at %v", got[0].At)
	}
	if !got[1].At.Equal(testBase.Add(3 * time.Minute)) {
		t.Errorf("expected last alert at %v, got %v", testBase.Add(3*time.Minute), got[1].At)
	}
	if got := r.Recent(100); len(got) != 4 {
		t.Errorf("oversized n should return everything, got %d", len(got))
	}
}

func TestRing_RecentReturnsCopy(t *testing.T) {
	r := NewRing(10)
	r.Add(mkAlert(t, "EURUSD", 0.6, testBase))
	got := r.Recent(0)
	got[0].Pair.Symbol = "XXXYYY"
	if again := r.Recent(0); again[0].Pair.Symbol != "EURUSD" {
		t.Error("mutating a returned slice leaked into the ring")
	}
}

func TestRing_ForPair(t *testing.T) {
	r := NewRing(10)
	r.Add(mkAlert(t, "EURUSD", 0.6, testBase))
	r.Add(mkAlert(t, "USDJPY", -0.7, testBase.Add(time.Minute)))
	r.Add(mkAlert(t, "EURUSD", 0.2, testBase.Add(2*time.Minute)))

	got := r.ForPair("EURUSD")
	if len(got) != 2 {
		t.Fatalf("expected 2 EURUSD alerts, got %d", len(got))
	}
	if !got[0].At.Before(got[1].At) {
		t.Error("expected oldest-first order")
	}
	if got := r.ForPair("GBPUSD"); len(got) != 0 {
		t.Errorf("expected no GBPUSD alerts, got %d", len(got))
	}
}

func TestRing_Nearest(t *testing.T) {
	r := NewRing(10)
	r.Add(mkAlert(t, "EURUSD", 0.6, testBase))
	r.Add(mkAlert(t, "EURUSD", -0.8, testBase.Add(10*time.Minute)))
	r.Add(mkAlert(t, "USDJPY", 0.9, testBase.Add(time.Minute)))

	// Closest within tolerance.
	got, ok := r.Nearest("EURUSD", testBase.Add(9*time.Minute), 2*time.Minute)
	if !ok {
		t.Fatal("expected a nearest alert")
	}
	if !got.At.Equal(testBase.Add(10 * time.Minute)) {
		t.Errorf("expected the 10m alert, got %v", got.At)
	}

	// Nothing within tolerance.
	if _, ok := r.Nearest("EURUSD", testBase.Add(5*time.Minute), time.Minute); ok {
		t.Error("expected no alert within 1m of the midpoint")
	}

	// Wrong pair never matches.
	if _, ok := r.Nearest("GBPUSD", testBase, time.Hour); ok {
		t.Error("expected no alert for an unknown pair")
	}
}

func TestRing_NearestTieResolvesToLatest(t *testing.T) {
	r := NewRing(10)
	r.Add(mkAlert(t, "EURUSD", 0.6, testBase))
	r.Add(mkAlert(t, "EURUSD", -0.6, testBase.Add(2*time.Minute)))

	// Probe exactly between the two alerts.
	got, ok := r.Nearest("EURUSD", testBase.Add(time.Minute), 5*time.Minute)
	if !ok {
		t.Fatal("expected a nearest alert")
	}
	if !got.At.Equal(testBase.Add(2 * time.Minute)) {
		t.Errorf("tie should resolve to the latest alert, got %v", got.At)
	}
}

func TestNewRing_DefaultCapacity(t *testing.T) {
	r := NewRing(0)
	for i := 0; i < DefaultRingSize+10; i++ {
		r.Add(mkAlert(t, "EURUSD", 0.6, testBase.Add(time.Duration(i)*time.Second)))
	}
	if r.Len() != DefaultRingSize {
		t.Fatalf("expected default capacity %d, got %d", DefaultRingSize, r.Len())
	}
}
