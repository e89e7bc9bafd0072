package history

import (
	"sort"
	"sync"

	"openfx/internal/model"
)

// Store holds the per-pair session series. Every poll refetches the whole
// session, so SetBars replaces rather than appends. State lives only for
// the process lifetime.
type Store struct {
	mu        sync.RWMutex
	series    map[string][]model.PricePoint
	maxPoints int
}

// NewStore creates a store keeping at most maxPoints per pair.
func NewStore(maxPoints int) *Store {
	if maxPoints <= 0 {
		maxPoints = 1440
	}
	return &Store{
		series:    make(map[string][]model.PricePoint),
		maxPoints: maxPoints,
	}
}

// SetBars replaces the pair's series with the bars' closes, trimming the
// oldest points past the bound.
func (s *Store) SetBars(symbol string, bars []model.OHLCV) {
	pts := model.Points(bars)
	if len(pts) > s.maxPoints {
		pts = pts[len(pts)-s.maxPoints:]
	}
	s.mu.Lock()
	s.series[symbol] = pts
	s.mu.Unlock()
}

// Series returns a copy of the pair's series, oldest first. Unknown pairs
// yield nil.
func (s *Store) Series(symbol string) []model.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pts, ok := s.series[symbol]
	if !ok {
		return nil
	}
	out := make([]model.PricePoint, len(pts))
	copy(out, pts)
	return out
}

// Latest returns the pair's newest point.
func (s *Store) Latest(symbol string) (model.PricePoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pts := s.series[symbol]
	if len(pts) == 0 {
		return model.PricePoint{}, false
	}
	return pts[len(pts)-1], true
}

// Pairs returns the symbols with stored data, sorted.
func (s *Store) Pairs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.series))
	for sym := range s.series {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
