package reporting

import (
	"encoding/json"
	"os"
	"time"

	"github.com/hamr-lab/hamster-backtest/internal/backtest"
	"github.com/hamr-lab/hamster-backtest/internal/momentum"
)

// resultDocument is the JSON shape of one backtest run. NaN metrics are
// serialized as null; encoding/json rejects NaN outright.
type resultDocument struct {
	SignalSymbol string    `json:"signal_symbol"`
	TradedSymbol string    `json:"traded_symbol"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	Window       int       `json:"window"`
	MAType       string    `json:"ma_type"`
	Policy       string    `json:"initial_policy"`
	GeneratedAt  time.Time `json:"generated_at"`

	Strategy   summaryDocument `json:"strategy"`
	HoldTraded summaryDocument `json:"buy_hold_traded"`
	HoldSignal summaryDocument `json:"buy_hold_signal"`
}

type summaryDocument struct {
	Final                *float64 `json:"final_multiplier"`
	TotalReturn          *float64 `json:"total_return"`
	CAGR                 *float64 `json:"cagr"`
	MaxDrawdown          *float64 `json:"max_drawdown"`
	AnnualizedVolatility *float64 `json:"annualized_volatility"`
	Sharpe               *float64 `json:"sharpe"`
	Sortino              *float64 `json:"sortino"`
	Calmar               *float64 `json:"calmar"`
	TradeCount           int      `json:"trade_count"`
}

// WriteResultJSON writes the run summaries as indented JSON, to stdout when
// path is empty.
func WriteResultJSON(result *backtest.Result, path string) error {
	doc := resultDocument{
		SignalSymbol: result.Request.SignalSymbol,
		TradedSymbol: result.Request.TradedSymbol,
		Start:        result.Request.Start.Format("2006-01-02"),
		End:          result.Request.End.Format("2006-01-02"),
		Window:       result.Request.Window,
		MAType:       result.Request.MAType.String(),
		Policy:       result.Request.Policy.String(),
		GeneratedAt:  time.Now().UTC(),
		Strategy:     toSummaryDocument(result.StrategySummary),
		HoldTraded:   toSummaryDocument(result.HoldTradedSummary),
		HoldSignal:   toSummaryDocument(result.HoldSignalSummary),
	}
	return writeJSON(doc, path)
}

// WriteRankingJSON writes the momentum ranking as indented JSON.
func WriteRankingJSON(entries []momentum.Entry, path string) error {
	type entryDocument struct {
		Rank       int      `json:"rank"`
		Symbol     string   `json:"symbol"`
		Return     *float64 `json:"return"`
		EndPrice   *float64 `json:"end_price"`
		EndAverage *float64 `json:"end_average"`
	}
	docs := make([]entryDocument, len(entries))
	for i, e := range entries {
		docs[i] = entryDocument{
			Rank:       e.Rank,
			Symbol:     e.Symbol,
			Return:     nullable(e.Return),
			EndPrice:   nullable(e.EndPrice),
			EndAverage: nullable(e.EndAverage),
		}
	}
	return writeJSON(docs, path)
}

func toSummaryDocument(s backtest.Summary) summaryDocument {
	return summaryDocument{
		Final:                nullable(s.Final),
		TotalReturn:          nullable(s.TotalReturn),
		CAGR:                 nullable(s.CAGR),
		MaxDrawdown:          nullable(s.MaxDrawdown),
		AnnualizedVolatility: nullable(s.AnnualizedVolatility),
		Sharpe:               nullable(s.Sharpe),
		Sortino:              nullable(s.Sortino),
		Calmar:               nullable(s.Calmar),
		TradeCount:           s.TradeCount,
	}
}

func nullable(v float64) *float64 {
	if v != v { // NaN
		return nil
	}
	return &v
}

func writeJSON(doc interface{}, path string) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(append(payload, '\n'))
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, append(payload, '\n'), 0644)
}
