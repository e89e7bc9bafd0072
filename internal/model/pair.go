package model

import (
	"fmt"
	"strings"
)

// CurrencyPair identifies one monitored FX pair.
type CurrencyPair struct {
	Symbol string `json:"symbol"` // compact form, e.g. "EURUSD"
	Base   string `json:"base"`   // e.g. "EUR"
	Quote  string `json:"quote"`  // e.g. "USD"
}

// ParsePair builds a CurrencyPair from its compact six-letter symbol.
func ParsePair(symbol string) (CurrencyPair, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, "=X")
	s = strings.ReplaceAll(s, "/", "")
	if len(s) != 6 {
		return CurrencyPair{}, fmt.Errorf("invalid pair symbol %q: want 6 letters like EURUSD", symbol)
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return CurrencyPair{}, fmt.Errorf("invalid pair symbol %q: non-letter character", symbol)
		}
	}
	return CurrencyPair{Symbol: s, Base: s[:3], Quote: s[3:]}, nil
}

// Display returns the human form, e.g. "EUR/USD".
func (p CurrencyPair) Display() string {
	if p.Base == "" || p.Quote == "" {
		return p.Symbol
	}
	return p.Base + "/" + p.Quote
}
