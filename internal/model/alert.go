package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Severity classifies the size of a price move.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityMajor
)

// String returns the lowercase severity name used in logs and the API.
func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityMajor:
		return "major"
	default:
		return "none"
	}
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity from its name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "none", "":
		*s = SeverityNone
	case "minor":
		*s = SeverityMinor
	case "major":
		*s = SeverityMajor
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Alert is the audit record for one threshold crossing. Price, move and
// threshold are kept as decimals so formatted output never drifts from the
// recorded values.
type Alert struct {
	ID        uuid.UUID       `json:"id"`
	Pair      CurrencyPair    `json:"pair"`
	Price     decimal.Decimal `json:"price"`
	PctChange decimal.Decimal `json:"pct_change"`
	Threshold decimal.Decimal `json:"threshold"`
	Severity  Severity        `json:"severity"`
	Lookback  int             `json:"lookback"`
	At        time.Time       `json:"at"`
}

// Direction returns +1 for an upward move, -1 for a downward one.
func (a Alert) Direction() int {
	if a.PctChange.IsNegative() {
		return -1
	}
	return 1
}

// PairStatus is the outcome of checking one pair during a cycle.
type PairStatus struct {
	Pair      CurrencyPair `json:"pair"`
	Price     float64      `json:"price"`
	PctChange float64      `json:"pct_change"`
	DayHigh   float64      `json:"day_high"`
	DayLow    float64      `json:"day_low"`
	Severity  Severity     `json:"severity"`
	Alerted   bool         `json:"alerted"`
	CheckedAt time.Time    `json:"checked_at"`
}

// CycleSummary aggregates one full pass over the configured pairs.
type CycleSummary struct {
	Cycle    int          `json:"cycle"`
	At       time.Time    `json:"at"`
	Statuses []PairStatus `json:"statuses"`
	Checked  int          `json:"checked"`
	Failed   int          `json:"failed"`
	Alerts   int          `json:"alerts"`
}
