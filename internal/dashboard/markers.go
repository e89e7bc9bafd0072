package dashboard

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/shopspring/decimal"
	"github.com/temidaradev/esset/v2"

	"openfx/internal/model"
)

func buildPath(path *vector.Path, pts []Vec2) {
	for i, p := range pts {
		if i == 0 {
			path.MoveTo(float32(p.X), float32(p.Y))
			continue
		}
		path.LineTo(float32(p.X), float32(p.Y))
	}
}

func (g *Game) strokePath(screen *ebiten.Image, path *vector.Path, width float32, col color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: width})
	op := &ebiten.DrawTrianglesOptions{}
	op.ColorM.Scale(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, float64(col.A)/255)
	screen.DrawTriangles(vs, is, g.solid, op)
}

func (g *Game) fillPath(screen *ebiten.Image, path *vector.Path, col color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	op := &ebiten.DrawTrianglesOptions{}
	op.ColorM.Scale(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, float64(col.A)/255)
	screen.DrawTriangles(vs, is, g.solid, op)
}

// drawMarker places a triangle on an alerted sample. Major alerts get a
// bigger triangle plus a halo ring so they read from across the room.
func (g *Game) drawMarker(screen *ebiten.Image, pos Vec2, sev model.Severity) {
	size := 5.0
	col := colorMinor
	if sev == model.SeverityMajor {
		size = 7.0
		col = colorMajor
	}

	path := &vector.Path{}
	path.MoveTo(float32(pos.X), float32(pos.Y-size))
	path.LineTo(float32(pos.X-size), float32(pos.Y+size))
	path.LineTo(float32(pos.X+size), float32(pos.Y+size))
	path.Close()
	g.fillPath(screen, path, col)

	if sev == model.SeverityMajor {
		vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), float32(size+4), 1.5, colorHalo, true)
	}
}

func signedPct(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s + "%"
}

// drawTooltip shows the details of the alert marker under the cursor,
// if one sits within snapping distance.
func (g *Game) drawTooltip(screen *ebiten.Image) {
	if len(g.markers) == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	m, ok := nearestMarker(g.markers, float64(mx), float64(my), snapRadius)
	if !ok {
		return
	}

	a := m.Alert
	lines := []string{
		a.Pair.Display() + "  " + strings.ToUpper(a.Severity.String()),
		a.At.Format("2006-01-02 15:04:05"),
		"price  " + a.Price.StringFixed(5),
		"change " + signedPct(a.PctChange),
	}

	const pad = 6.0
	const lineH = 14.0
	boxW := 0.0
	for _, l := range lines {
		if lw, _ := text.Measure(l, g.face, -1); lw > boxW {
			boxW = lw
		}
	}
	boxW += pad * 2
	boxH := lineH*float64(len(lines)) + pad*2

	x := m.Pos.X + 12
	y := m.Pos.Y - boxH - 6
	if sw := float64(screen.Bounds().Dx()); x+boxW > sw {
		x = m.Pos.X - boxW - 12
	}
	if y < 0 {
		y = m.Pos.Y + 12
	}
	if x < 0 {
		x = 0
	}

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), colorBox, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), 1, colorBorder, false)
	for i, l := range lines {
		c := colorText
		if i > 0 {
			c = colorDim
		}
		esset.DrawText(screen, l, 0, x+pad, y+pad+float64(i)*lineH, g.face, c)
	}
}
