package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSeverityString(t *testing.T) {
	cases := []struct {
		sev  Severity
		want string
	}{
		{SeverityNone, "none"},
		{SeverityMinor, "minor"},
		{SeverityMajor, "major"},
		{Severity(99), "none"},
	}
	for _, tc := range cases {
		if got := tc.sev.String(); got != tc.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tc.sev, got, tc.want)
		}
	}
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	for _, sev := range []Severity{SeverityNone, SeverityMinor, SeverityMajor} {
		data, err := json.Marshal(sev)
		if err != nil {
			t.Fatalf("marshal %v: %v", sev, err)
		}
		var back Severity
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != sev {
			t.Errorf("round trip %v -> %s -> %v", sev, data, back)
		}
	}

	var sev Severity
	if err := json.Unmarshal([]byte(`"catastrophic"`), &sev); err == nil {
		t.Error("expected error for unknown severity name")
	}
}

func TestAlertDirection(t *testing.T) {
	up := Alert{PctChange: decimal.NewFromFloat(0.52)}
	if up.Direction() != 1 {
		t.Errorf("upward move direction = %d, want 1", up.Direction())
	}
	down := Alert{PctChange: decimal.NewFromFloat(-0.13)}
	if down.Direction() != -1 {
		t.Errorf("downward move direction = %d, want -1", down.Direction())
	}
	flat := Alert{}
	if flat.Direction() != 1 {
		t.Errorf("zero move direction = %d, want 1", flat.Direction())
	}
}
