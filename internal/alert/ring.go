package alert

import (
	"sync"
	"time"

	"openfx/internal/model"
)

// DefaultRingSize bounds the ring when no capacity is configured.
const DefaultRingSize = 256

// Ring keeps the most recent alerts, oldest first. The capacity is fixed
// at construction; adding past it evicts the oldest entries. Renderers
// read it every frame, so all accessors return copies.
type Ring struct {
	mu     sync.Mutex
	alerts []model.Alert
	cap    int
}

// NewRing creates a ring holding at most capacity alerts.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &Ring{cap: capacity}
}

// Add appends an alert, evicting the oldest entries past capacity.
func (r *Ring) Add(a model.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	if len(r.alerts) > r.cap {
		r.alerts = r.alerts[len(r.alerts)-r.cap:]
	}
}

// Len returns the number of held alerts.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

// Recent returns the n newest alerts, oldest first. n <= 0 or n larger
// than the ring returns everything.
func (r *Ring) Recent(n int) []model.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || n > len(r.alerts) {
		n = len(r.alerts)
	}
	out := make([]model.Alert, n)
	copy(out, r.alerts[len(r.alerts)-n:])
	return out
}

// ForPair returns all held alerts for one pair symbol, oldest first.
func (r *Ring) ForPair(symbol string) []model.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Alert
	for _, a := range r.alerts {
		if a.Pair.Symbol == symbol {
			out = append(out, a)
		}
	}
	return out
}

// Nearest finds the pair's alert closest in time to t, within tol. Used
// by hover lookups to associate a rendered marker with its alert. When
// two alerts sit at the same distance the later one wins.
func (r *Ring) Nearest(symbol string, t time.Time, tol time.Duration) (model.Alert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best model.Alert
	bestDist := tol
	found := false
	for _, a := range r.alerts {
		if a.Pair.Symbol != symbol {
			continue
		}
		d := a.At.Sub(t)
		if d < 0 {
			d = -d
		}
		if d < bestDist || (d == bestDist && (!found || a.At.After(best.At))) {
			best = a
			bestDist = d
			found = true
		}
	}
	return best, found
}
