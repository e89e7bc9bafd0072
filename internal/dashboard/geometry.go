package dashboard

import (
	"math"
	"sort"
	"time"

	"openfx/internal/model"
)

// Rect is a screen-space rectangle.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset returns r shrunk by pad on every side.
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X + pad, Y: r.Y + pad, W: r.W - 2*pad, H: r.H - 2*pad}
}

// Vec2 is a screen-space point.
type Vec2 struct {
	X, Y float64
}

// Marker ties a rendered alert to its screen position for hover lookup.
type Marker struct {
	Alert model.Alert
	Pos   Vec2
}

// layoutGrid splits a w by h canvas into n panes in a near-square grid,
// row-major, separated by gap pixels.
func layoutGrid(w, h float64, n int, gap float64) []Rect {
	if n <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	cellW := (w - gap*float64(cols+1)) / float64(cols)
	cellH := (h - gap*float64(rows+1)) / float64(rows)

	rects := make([]Rect, n)
	for i := range rects {
		col := i % cols
		row := i / cols
		rects[i] = Rect{
			X: gap + float64(col)*(cellW+gap),
			Y: gap + float64(row)*(cellH+gap),
			W: cellW,
			H: cellH,
		}
	}
	return rects
}

// seriesBounds returns the lowest and highest price in the series.
func seriesBounds(points []model.PricePoint) (lo, hi float64) {
	if len(points) == 0 {
		return 0, 0
	}
	lo, hi = points[0].Price, points[0].Price
	for _, p := range points {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}
	return lo, hi
}

// projectSeries maps points into r: X by sample index, Y by min/max
// normalized price. A flat series sits centered vertically.
func projectSeries(r Rect, points []model.PricePoint) []Vec2 {
	if len(points) == 0 {
		return nil
	}

	min, max := seriesBounds(points)
	rng := max - min
	if rng == 0 {
		rng = 1
		min -= 0.5
	}

	denom := float64(len(points) - 1)
	if denom == 0 {
		denom = 1
	}
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = Vec2{
			X: r.X + (float64(i)/denom)*r.W,
			Y: r.Y + r.H - ((p.Price-min)/rng)*r.H,
		}
	}
	return out
}

// nearestIndex returns the index of the sample closest in time to t.
// Returns -1 for an empty series.
func nearestIndex(points []model.PricePoint, t time.Time) int {
	if len(points) == 0 {
		return -1
	}
	i := sort.Search(len(points), func(i int) bool { return !points[i].Time.Before(t) })
	if i == 0 {
		return 0
	}
	if i == len(points) {
		return len(points) - 1
	}
	if points[i].Time.Sub(t) < t.Sub(points[i-1].Time) {
		return i
	}
	return i - 1
}

// nearestMarker returns the marker closest to (x, y) within radius.
// Equal distances resolve to the latest alert.
func nearestMarker(markers []Marker, x, y, radius float64) (Marker, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, m := range markers {
		d := math.Hypot(m.Pos.X-x, m.Pos.Y-y)
		if d > radius {
			continue
		}
		if d < bestDist || (d == bestDist && best >= 0 && m.Alert.At.After(markers[best].Alert.At)) {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return Marker{}, false
	}
	return markers[best], true
}
