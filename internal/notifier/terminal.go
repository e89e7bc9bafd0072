package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"openfx/internal/model"
)

// Terminal prints alerts to a writer, stdout by default.
type Terminal struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out}
}

func (t *Terminal) Name() string { return "terminal" }

// Notify prints the full banner block for major moves and a single
// warning line for minor ones.
func (t *Terminal) Notify(_ context.Context, a model.Alert) error {
	if a.Severity == model.SeverityMajor {
		_, err := fmt.Fprint(t.out, FormatAlertBanner(a))
		return err
	}
	_, err := fmt.Fprintf(t.out, "⚠ %s: $%s (%s%%)\n",
		a.Pair.Display(), a.Price.StringFixed(5), signedFixed(a.PctChange, 2))
	return err
}

// CyclePrinter renders a completed cycle in the classic terminal layout:
// cycle header, one line or banner per pair in watch order, then the
// summary and countdown.
type CyclePrinter struct {
	out      io.Writer
	interval time.Duration
}

func NewCyclePrinter(out io.Writer, interval time.Duration) *CyclePrinter {
	if out == nil {
		out = os.Stdout
	}
	return &CyclePrinter{out: out, interval: interval}
}

func (p *CyclePrinter) OnCycle(sum model.CycleSummary) {
	fmt.Fprintf(p.out, "\n[Cycle %d] %s\n", sum.Cycle, sum.At.Format(timeLayout))
	fmt.Fprintln(p.out, strings.Repeat("-", bannerWidth))
	for _, st := range sum.Statuses {
		if st.Severity == model.SeverityMajor {
			fmt.Fprint(p.out, FormatStatusBanner(st))
			continue
		}
		fmt.Fprintln(p.out, FormatStatusLine(st))
	}
	fmt.Fprintf(p.out, "\nStatus: %d/%d pairs checked | %d alerts\n",
		sum.Checked, sum.Checked+sum.Failed, sum.Alerts)
	fmt.Fprintf(p.out, "Next update in %d seconds...\n", int(p.interval.Seconds()))
}
