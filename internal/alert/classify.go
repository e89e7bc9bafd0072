package alert

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"openfx/internal/model"
)

// Alert thresholds, in absolute percent. A move below the minor threshold
// is noise; at or above the major threshold it is a full alert.
const (
	MinorThreshold = 0.1
	MajorThreshold = 0.5
)

// Classify maps a percentage move to a severity.
func Classify(pct float64) model.Severity {
	abs := math.Abs(pct)
	if abs < MinorThreshold {
		return model.SeverityNone
	}
	if abs < MajorThreshold {
		return model.SeverityMinor
	}
	return model.SeverityMajor
}

// Threshold returns the threshold a severity crossed, in percent.
func Threshold(sev model.Severity) float64 {
	switch sev {
	case model.SeverityMajor:
		return MajorThreshold
	case model.SeverityMinor:
		return MinorThreshold
	default:
		return 0
	}
}

// New builds the audit record for a threshold crossing. The reported time
// is the bar that triggered the move, so chart markers land on the right
// sample. Returns ok=false when the move does not cross any threshold.
func New(pair model.CurrencyPair, price, pct float64, lookback int, at time.Time) (model.Alert, bool) {
	sev := Classify(pct)
	if sev == model.SeverityNone {
		return model.Alert{}, false
	}
	return model.Alert{
		ID:        uuid.New(),
		Pair:      pair,
		Price:     decimal.NewFromFloat(price),
		PctChange: decimal.NewFromFloat(pct),
		Threshold: decimal.NewFromFloat(Threshold(sev)),
		Severity:  sev,
		Lookback:  lookback,
		At:        at,
	}, true
}
