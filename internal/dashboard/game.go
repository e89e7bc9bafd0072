package dashboard

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"openfx/internal/alert"
	"openfx/internal/history"
	"openfx/internal/model"
	"openfx/internal/monitor"
)

// viewMode selects between the all-pairs grid and the single-pair pane.
type viewMode int

const (
	modeGrid viewMode = iota
	modeFocus
)

const (
	refreshEvery = time.Second
	paneGap      = 8.0
	snapRadius   = 12.0
)

// Game renders store and ring snapshots and handles keyboard navigation.
// The engine polls in the background; Game only reads.
type Game struct {
	engine *monitor.Engine
	store  *history.Store
	ring   *alert.Ring

	mu       sync.Mutex
	pairs    []model.CurrencyPair
	series   map[string][]model.PricePoint
	alerts   map[string][]model.Alert
	statuses map[string]model.PairStatus
	lastLoad time.Time

	mode     viewMode
	selected int

	face    text.Face
	solid   *ebiten.Image
	markers []Marker // rebuilt every frame
	width   int
	height  int
}

func NewGame(eng *monitor.Engine, store *history.Store, ring *alert.Ring) *Game {
	g := &Game{
		engine:   eng,
		store:    store,
		ring:     ring,
		pairs:    eng.Pairs(),
		series:   map[string][]model.PricePoint{},
		alerts:   map[string][]model.Alert{},
		statuses: map[string]model.PairStatus{},
		face:     text.NewGoXFace(basicfont.Face7x13),
	}
	g.refresh()
	return g
}

// refresh pulls fresh snapshots from the store, ring and engine.
func (g *Game) refresh() {
	series := make(map[string][]model.PricePoint, len(g.pairs))
	alerts := make(map[string][]model.Alert, len(g.pairs))
	for _, p := range g.pairs {
		series[p.Symbol] = g.store.Series(p.Symbol)
		alerts[p.Symbol] = g.ring.ForPair(p.Symbol)
	}
	statuses := make(map[string]model.PairStatus, len(g.pairs))
	if sum := g.engine.LastSummary(); sum != nil {
		for _, st := range sum.Statuses {
			statuses[st.Pair.Symbol] = st
		}
	}

	g.mu.Lock()
	g.series, g.alerts, g.statuses = series, alerts, statuses
	g.lastLoad = time.Now()
	g.mu.Unlock()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.mode == modeGrid {
			g.mode = modeFocus
		} else {
			g.mode = modeGrid
		}
	}

	step := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		step = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		step = -1
	}
	if step != 0 && len(g.pairs) > 0 {
		g.selected = (g.selected + step + len(g.pairs)) % len(g.pairs)
	}

	// Clicking a grid pane focuses that pair.
	if g.mode == modeGrid && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		for i, r := range layoutGrid(float64(g.width), float64(g.height), len(g.pairs), paneGap) {
			if r.contains(float64(mx), float64(my)) {
				g.selected = i
				g.mode = modeFocus
				break
			}
		}
	}

	if time.Since(g.lastLoad) >= refreshEvery {
		g.refresh()
	}
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
