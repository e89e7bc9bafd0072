package dashboard

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/temidaradev/esset/v2"

	"openfx/internal/model"
)

var (
	colorBG     = color.RGBA{R: 14, G: 17, B: 23, A: 255}
	colorPane   = color.RGBA{R: 26, G: 31, B: 43, A: 255}
	colorBorder = color.RGBA{R: 42, G: 48, B: 64, A: 255}
	colorFocus  = color.RGBA{R: 96, G: 112, B: 148, A: 255}
	colorLine   = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	colorText   = color.RGBA{R: 230, G: 232, B: 238, A: 255}
	colorDim    = color.RGBA{R: 139, G: 147, B: 167, A: 255}
	colorUp     = color.RGBA{R: 33, G: 192, B: 122, A: 255}
	colorDown   = color.RGBA{R: 228, G: 86, B: 110, A: 255}
	colorMinor  = color.RGBA{R: 232, G: 163, B: 61, A: 255}
	colorMajor  = color.RGBA{R: 228, G: 86, B: 110, A: 255}
	colorHalo   = color.RGBA{R: 228, G: 86, B: 110, A: 110}
	colorBox    = color.RGBA{R: 10, G: 12, B: 18, A: 235}
)

func (g *Game) initSolid() {
	if g.solid == nil {
		g.solid = ebiten.NewImage(1, 1)
		g.solid.Fill(color.White)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.initSolid()
	screen.Fill(colorBG)

	g.mu.Lock()
	defer g.mu.Unlock()

	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())
	g.markers = g.markers[:0]

	if len(g.pairs) == 0 {
		esset.DrawText(screen, "No pairs configured.", 0, 20, 20, g.face, colorDim)
		return
	}

	if g.mode == modeFocus {
		g.drawFocus(screen, Rect{W: w, H: h}.Inset(paneGap))
	} else {
		for i, r := range layoutGrid(w, h, len(g.pairs), paneGap) {
			g.drawPane(screen, r, g.pairs[i], i == g.selected)
		}
	}
	g.drawTooltip(screen)
}

// paneBorder picks the frame color for a pair: severity tint when the
// last check alerted, highlight when selected, neutral otherwise.
func (g *Game) paneBorder(symbol string, selected bool) color.RGBA {
	if st, ok := g.statuses[symbol]; ok && st.Alerted {
		if st.Severity == model.SeverityMajor {
			return colorMajor
		}
		return colorMinor
	}
	if selected {
		return colorFocus
	}
	return colorBorder
}

func (g *Game) drawPane(screen *ebiten.Image, r Rect, pair model.CurrencyPair, selected bool) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), colorPane, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1.5, g.paneBorder(pair.Symbol, selected), false)

	esset.DrawText(screen, pair.Display(), 0, r.X+8, r.Y+6, g.face, colorText)
	if st, ok := g.statuses[pair.Symbol]; ok {
		price := fmt.Sprintf("%.5f", st.Price)
		pw, _ := text.Measure(price, g.face, -1)
		esset.DrawText(screen, price, 0, r.X+r.W-8-pw, r.Y+6, g.face, colorText)

		pctColor := colorUp
		if st.PctChange < 0 {
			pctColor = colorDown
		}
		esset.DrawText(screen, fmt.Sprintf("%+.2f%%", st.PctChange), 0, r.X+8, r.Y+22, g.face, pctColor)
	}

	inner := Rect{X: r.X + 8, Y: r.Y + 42, W: r.W - 16, H: r.H - 50}
	g.drawSeries(screen, inner, pair.Symbol)
}

func (g *Game) drawFocus(screen *ebiten.Image, r Rect) {
	pair := g.pairs[g.selected]
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), colorPane, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1.5, g.paneBorder(pair.Symbol, true), false)

	title := fmt.Sprintf("%s  (%d/%d)", pair.Display(), g.selected+1, len(g.pairs))
	esset.DrawText(screen, title, 0, r.X+12, r.Y+10, g.face, colorText)

	if st, ok := g.statuses[pair.Symbol]; ok {
		lineColor := colorUp
		if st.PctChange < 0 {
			lineColor = colorDown
		}
		line := fmt.Sprintf("%.5f   %+.2f%%   %s", st.Price, st.PctChange, st.Severity)
		esset.DrawText(screen, line, 0, r.X+12, r.Y+28, g.face, lineColor)
	}

	inner := Rect{X: r.X + 12, Y: r.Y + 60, W: r.W - 24, H: r.H - 104}
	if points := g.series[pair.Symbol]; len(points) >= 2 {
		lo, hi := seriesBounds(points)
		hiStr := fmt.Sprintf("%.5f", hi)
		loStr := fmt.Sprintf("%.5f", lo)
		hw, _ := text.Measure(hiStr, g.face, -1)
		lw, _ := text.Measure(loStr, g.face, -1)
		esset.DrawText(screen, hiStr, 0, inner.X+inner.W-hw, inner.Y-14, g.face, colorDim)
		esset.DrawText(screen, loStr, 0, inner.X+inner.W-lw, inner.Y+inner.H+4, g.face, colorDim)
	}
	g.drawSeries(screen, inner, pair.Symbol)

	help := "Left/Right or Tab: switch pair   Enter/Space: grid   Q/Esc: quit"
	esset.DrawText(screen, help, 0, r.X+12, r.Y+r.H-22, g.face, colorDim)
}

// drawSeries strokes the price polyline inside r and drops an alert
// marker on the nearest sample for every alert of the pair.
func (g *Game) drawSeries(screen *ebiten.Image, r Rect, symbol string) {
	points := g.series[symbol]
	if len(points) < 2 {
		esset.DrawText(screen, "no data yet", 0, r.X+4, r.Y+r.H/2, g.face, colorDim)
		return
	}
	pts := projectSeries(r, points)

	path := &vector.Path{}
	buildPath(path, pts)
	g.strokePath(screen, path, 1.5, colorLine)

	for _, a := range g.alerts[symbol] {
		idx := nearestIndex(points, a.At)
		if idx < 0 {
			continue
		}
		g.drawMarker(screen, pts[idx], a.Severity)
		g.markers = append(g.markers, Marker{Alert: a, Pos: pts[idx]})
	}
}
