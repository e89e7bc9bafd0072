package web

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"openfx/internal/model"
)

// ErrNotEnoughPoints is returned when a series has fewer than two samples.
var ErrNotEnoughPoints = errors.New("not enough points to chart")

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// RenderPairChart renders the session close series for one pair as a PNG,
// with dot markers where alerts fired inside the charted window.
func RenderPairChart(title string, points []model.PricePoint, alerts []model.Alert) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNotEnoughPoints
	}

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Time
		ys[i] = p.Price
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    title,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5},
		},
	}
	minor, major := markerSeries(points, alerts)
	if len(minor.XValues) > 0 {
		series = append(series, minor)
	}
	if len(major.XValues) > 0 {
		series = append(series, major)
	}

	ch := chart.Chart{
		Title:      title,
		Width:      900,
		Height:     360,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("15:04"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.5f")
			},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// markerSeries splits alerts inside the charted window into a minor and a
// major dot series.
func markerSeries(points []model.PricePoint, alerts []model.Alert) (minor, major chart.TimeSeries) {
	start, end := points[0].Time, points[len(points)-1].Time
	minor = chart.TimeSeries{Name: "minor", Style: pointStyle(chart.ColorOrange)}
	major = chart.TimeSeries{Name: "major", Style: pointStyle(chart.ColorRed)}

	for _, a := range alerts {
		if a.At.Before(start) || a.At.After(end) {
			continue
		}
		price := a.Price.InexactFloat64()
		switch a.Severity {
		case model.SeverityMajor:
			major.XValues = append(major.XValues, a.At)
			major.YValues = append(major.YValues, price)
		case model.SeverityMinor:
			minor.XValues = append(minor.XValues, a.At)
			minor.YValues = append(minor.YValues, price)
		}
	}
	return minor, major
}
