// Package reporting renders backtest results and momentum rankings to the
// console and to CSV, JSON and Excel files. It consumes the engine's
// immutable value objects and never feeds anything back into it.
package reporting

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hamr-lab/hamster-backtest/internal/backtest"
	"github.com/hamr-lab/hamster-backtest/internal/momentum"
)

// ConsoleReporter renders results as tables on a writer, stdout by default.
type ConsoleReporter struct {
	out     io.Writer
	capital float64
}

// NewConsoleReporter creates a console reporter. capital scales the growth
// multipliers into a final asset value row; 0 omits the row.
func NewConsoleReporter(out io.Writer, capital float64) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out, capital: capital}
}

// WriteResult prints the three-strategy comparison table for one run.
func (r *ConsoleReporter) WriteResult(result *backtest.Result) {
	req := result.Request

	fmt.Fprintf(r.out, "\n📊 BACKTEST %s → %s | %s window %d | %s … %s\n",
		req.SignalSymbol, req.TradedSymbol, req.MAType, req.Window,
		req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric",
		"Strategy (" + req.TradedSymbol + ")",
		"Buy & Hold (" + req.TradedSymbol + ")",
		"Buy & Hold (" + req.SignalSymbol + ")"})

	rows := []struct {
		name string
		get  func(backtest.Summary) string
	}{
		{"Total Return", func(s backtest.Summary) string { return pct(s.TotalReturn) }},
		{"CAGR", func(s backtest.Summary) string { return pct(s.CAGR) }},
		{"Max Drawdown", func(s backtest.Summary) string { return pct(s.MaxDrawdown) }},
		{"Annualized Volatility", func(s backtest.Summary) string { return pct(s.AnnualizedVolatility) }},
		{"Sharpe Ratio", func(s backtest.Summary) string { return num(s.Sharpe) }},
		{"Sortino Ratio", func(s backtest.Summary) string { return num(s.Sortino) }},
		{"Calmar Ratio", func(s backtest.Summary) string { return num(s.Calmar) }},
	}
	for _, row := range rows {
		t.AppendRow(table.Row{row.name,
			row.get(result.StrategySummary),
			row.get(result.HoldTradedSummary),
			row.get(result.HoldSignalSummary)})
	}
	if r.capital > 0 {
		t.AppendRow(table.Row{"Final Assets",
			money(result.StrategySummary.Final * r.capital),
			money(result.HoldTradedSummary.Final * r.capital),
			money(result.HoldSignalSummary.Final * r.capital)})
	}
	t.AppendFooter(table.Row{"Trades (enter + exit)",
		fmt.Sprintf("%d", result.StrategySummary.TradeCount), "—", "—"})
	t.Render()
}

// WriteRanking prints the momentum ranking table.
func (r *ConsoleReporter) WriteRanking(entries []momentum.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "\n⚠️  No instruments had sufficient data to rank")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("12-Month Momentum Ranking")
	t.AppendHeader(table.Row{"#", "Symbol", "Trailing Return", "Last Price", "Trend Avg"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Rank, e.Symbol, pct(e.Return), num(e.EndPrice), num(e.EndAverage)})
	}
	t.Render()
}

func pct(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.2f", v)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
