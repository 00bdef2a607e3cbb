package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hamr-lab/hamster-backtest/internal/backtest"
	"github.com/hamr-lab/hamster-backtest/internal/momentum"
)

// WriteEquityCSV writes the aligned window and the three equity curves to a
// CSV file, one row per trading day.
func WriteEquityCSV(result *backtest.Result, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"Date", "Signal_Price", "Traded_Price", "Moving_Average",
		"Event", "Invested", "Equity_Strategy", "Equity_BH_Traded", "Equity_BH_Signal",
	}); err != nil {
		return err
	}

	win := result.Window
	for t := 0; t < win.Len(); t++ {
		row := []string{
			win.Dates[t].Format("2006-01-02"),
			formatFloat(win.Signal[t]),
			formatFloat(win.Traded[t]),
			formatFloat(win.Average[t]),
			result.Events[t].String(),
			strconv.FormatBool(result.Invested[t]),
			formatFloat(result.Strategy.Values[t]),
			formatFloat(result.HoldTraded.Values[t]),
			formatFloat(result.HoldSignal.Values[t]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteRankingCSV writes the momentum ranking to a CSV file.
func WriteRankingCSV(entries []momentum.Entry, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Rank", "Symbol", "Trailing_Return", "End_Price", "End_Average"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Rank),
			e.Symbol,
			formatFloat(e.Return),
			formatFloat(e.EndPrice),
			formatFloat(e.EndAverage),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
