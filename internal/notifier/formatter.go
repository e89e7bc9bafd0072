package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"openfx/internal/alert"
	"openfx/internal/model"
)

const (
	bannerWidth = 60
	timeLayout  = "2006-01-02 15:04:05"
)

func banner() string { return strings.Repeat("=", bannerWidth) }

// signedFixed renders a decimal with an explicit sign, mirroring the
// %+.2f shape used for float output.
func signedFixed(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}

func directionSymbol(negative bool) string {
	if negative {
		return "📉"
	}
	return "📈"
}

func alertBanner(pair, price, change, ts string) string {
	line := banner()
	var b strings.Builder
	b.WriteString("\n" + line + "\n")
	fmt.Fprintf(&b, "🚨 ALERT - %s\n", pair)
	fmt.Fprintf(&b, "   Time: %s\n", ts)
	fmt.Fprintf(&b, "   Current Price: $%s\n", price)
	fmt.Fprintf(&b, "   Change: %s\n", change)
	b.WriteString(line + "\n\n")
	return b.String()
}

// FormatAlertBanner renders the full terminal block for a recorded alert.
func FormatAlertBanner(a model.Alert) string {
	change := fmt.Sprintf("%s %s%%", directionSymbol(a.PctChange.IsNegative()), signedFixed(a.PctChange, 2))
	return alertBanner(a.Pair.Display(), a.Price.StringFixed(5), change, a.At.Format(timeLayout))
}

// FormatStatusBanner renders the same block from a cycle status.
func FormatStatusBanner(st model.PairStatus) string {
	change := fmt.Sprintf("%s %+.2f%%", directionSymbol(st.PctChange < 0), st.PctChange)
	return alertBanner(st.Pair.Display(), fmt.Sprintf("%.5f", st.Price), change, st.CheckedAt.Format(timeLayout))
}

// FormatStatusLine renders the one-line per-pair status. Minor moves get a
// warning mark, everything else a check mark.
func FormatStatusLine(st model.PairStatus) string {
	mark := "✓"
	if st.Severity == model.SeverityMinor {
		mark = "⚠"
	}
	return fmt.Sprintf("%s %s: $%.5f (%+.2f%%)", mark, st.Pair.Display(), st.Price, st.PctChange)
}

// FormatStartBanner renders the startup block printed before the first cycle.
func FormatStartBanner(pairCount, intervalSec int) string {
	line := banner()
	var b strings.Builder
	b.WriteString("\n" + line + "\n")
	b.WriteString("🚀 OpenFX Volatility Monitoring Engine Started\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Monitoring: %d currency pairs\n", pairCount)
	fmt.Fprintf(&b, "Update interval: %d seconds\n", intervalSec)
	fmt.Fprintf(&b, "Alert thresholds: minor ±%.2f%% | major ±%.2f%%\n", alert.MinorThreshold, alert.MajorThreshold)
	b.WriteString("Press Ctrl+C to stop\n")
	b.WriteString(line + "\n\n")
	return b.String()
}

// FormatStopBanner renders the shutdown block.
func FormatStopBanner(cycles int) string {
	line := banner()
	var b strings.Builder
	b.WriteString("\n\n" + line + "\n")
	b.WriteString("🛑 Monitoring stopped by user\n")
	fmt.Fprintf(&b, "Total cycles completed: %d\n", cycles)
	b.WriteString(line + "\n\n")
	return b.String()
}

// FormatAlertHTML formats an alert as a Telegram HTML message.
func FormatAlertHTML(a model.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 <b>FX Volatility Alert | %s</b>\n\n", a.Pair.Display())
	fmt.Fprintf(&b, "Severity: %s\n", strings.ToUpper(a.Severity.String()))
	fmt.Fprintf(&b, "Price: $%s\n", a.Price.StringFixed(5))
	fmt.Fprintf(&b, "Change: %s %s%% over last %d min\n",
		directionSymbol(a.PctChange.IsNegative()), signedFixed(a.PctChange, 2), a.Lookback)
	fmt.Fprintf(&b, "Threshold: ±%s%%\n", a.Threshold.StringFixed(2))
	fmt.Fprintf(&b, "Time: %s\n", a.At.Format(timeLayout))
	return b.String()
}

// FormatStatusReport formats the latest cycle for the /status command.
func FormatStatusReport(sum *model.CycleSummary) string {
	if sum == nil {
		return "No cycle has completed yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>OpenFX Status</b> | cycle %d\n\n", sum.Cycle)
	for _, st := range sum.Statuses {
		b.WriteString(FormatStatusLine(st) + "\n")
	}
	fmt.Fprintf(&b, "\nChecked: %d/%d pairs | %d alerts\n", sum.Checked, sum.Checked+sum.Failed, sum.Alerts)
	fmt.Fprintf(&b, "Updated: %s\n", sum.At.Format(timeLayout))
	return b.String()
}

// FormatRecentAlerts formats ring contents for the /alerts command.
func FormatRecentAlerts(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return "No alerts recorded yet."
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Recent Alerts</b>\n\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "%s <b>%s</b> %s%% at $%s | %s | %s\n",
			directionSymbol(a.PctChange.IsNegative()), a.Pair.Display(),
			signedFixed(a.PctChange, 2), a.Price.StringFixed(5),
			a.Severity, a.At.Format("15:04:05"))
	}
	return b.String()
}

// FormatPairList formats the watch list for the /pairs command.
func FormatPairList(pairs []model.CurrencyPair) string {
	var b strings.Builder
	b.WriteString("💱 <b>Watched Pairs</b>\n\n")
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s (%s)\n", p.Display(), p.Symbol)
	}
	return b.String()
}
