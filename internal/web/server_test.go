package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"openfx/internal/alert"
	"openfx/internal/collector"
	"openfx/internal/history"
	"openfx/internal/logging"
	"openfx/internal/model"
	"openfx/internal/monitor"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testBars(start, step float64, n int) []model.OHLCV {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := start + step*float64(i)
		bars[i] = model.OHLCV{Time: t0.Add(time.Duration(i) * time.Minute), Open: p, High: p, Low: p, Close: p}
	}
	return bars
}

// newTestServer builds a server over an engine with one alerting pair and
// one quiet pair, and runs a single cycle.
func newTestServer(t *testing.T) (*Server, *history.Store, *alert.Ring) {
	t.Helper()

	eurusd, _ := model.ParsePair("EURUSD")
	usdjpy, _ := model.ParsePair("USDJPY")
	pairs := []model.CurrencyPair{eurusd, usdjpy}

	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"EURUSD": testBars(1.0, 0.002, 10),
		"USDJPY": testBars(154.0, 0, 10),
	}}
	store := history.NewStore(0)
	ring := alert.NewRing(0)
	col := collector.NewCollector(fetcher, store, 5, logging.Nop())
	eng := monitor.NewEngine(context.Background(), col, store, ring, pairs, time.Minute, logging.Nop())

	srv := NewServer(eng, store, ring, "development", logging.Nop())
	eng.AddHook(srv)
	eng.AddNotifier(srv)
	eng.RunCycleNow()

	return srv, store, ring
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestIndexServesDashboard(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "OpenFX Live Volatility Dashboard") {
		t.Error("dashboard page missing title")
	}
}

func TestPairsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := get(t, srv, "/api/v1/pairs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var sum model.CycleSummary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if sum.Cycle != 1 || len(sum.Statuses) != 2 {
		t.Errorf("unexpected summary: cycle=%d statuses=%d", sum.Cycle, len(sum.Statuses))
	}
	if sum.Statuses[0].Pair.Symbol != "EURUSD" {
		t.Errorf("statuses out of order: %+v", sum.Statuses[0].Pair)
	}
}

func TestSeriesEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := get(t, srv, "/api/v1/pairs/EURUSD/series")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Symbol string             `json:"symbol"`
		Points []model.PricePoint `json:"points"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Symbol != "EURUSD" || len(body.Points) != 10 {
		t.Errorf("unexpected series: symbol=%q points=%d", body.Symbol, len(body.Points))
	}

	if w := get(t, srv, "/api/v1/pairs/USDCHF/series"); w.Code != http.StatusNotFound {
		t.Errorf("unknown pair status = %d, want 404", w.Code)
	}
	if w := get(t, srv, "/api/v1/pairs/NOPE/series"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid symbol status = %d, want 400", w.Code)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := get(t, srv, "/api/v1/alerts")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Alerts []model.Alert `json:"alerts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Alerts) != 1 || body.Alerts[0].Pair.Symbol != "EURUSD" {
		t.Errorf("unexpected alerts: %+v", body.Alerts)
	}

	if w := get(t, srv, "/api/v1/alerts?limit=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
}

func TestChartEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t)

	w := get(t, srv, "/api/v1/pairs/EURUSD/chart.png")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), pngMagic) {
		t.Error("body is not a PNG")
	}

	// A pair with a single stored bar cannot be charted yet.
	store.SetBars("USDCAD", testBars(1.37, 0, 1))
	if w := get(t, srv, "/api/v1/pairs/USDCAD/chart.png"); w.Code != http.StatusNoContent {
		t.Errorf("single point status = %d, want 204", w.Code)
	}

	if w := get(t, srv, "/api/v1/pairs/USDCHF/chart.png"); w.Code != http.StatusNotFound {
		t.Errorf("unknown pair status = %d, want 404", w.Code)
	}
}

func TestServerShutdownClosesWebsocketClients(t *testing.T) {
	srv, _, _ := newTestServer(t)
	go srv.hub.Run()

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn := dialWS(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws")
	defer conn.Close()
	waitForClients(t, srv.hub, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected a read error after server shutdown")
	}
	if n := srv.hub.ClientCount(); n != 0 {
		t.Errorf("clients = %d after shutdown, want 0", n)
	}

	// Cycle and alert pushes must stay safe once the hub is gone.
	if err := srv.Notify(context.Background(), model.Alert{}); err != nil {
		t.Errorf("notify after shutdown: %v", err)
	}
	srv.OnCycle(model.CycleSummary{})
}
