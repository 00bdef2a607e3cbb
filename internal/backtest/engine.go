package backtest

import (
	"time"

	"github.com/hamr-lab/hamster-backtest/internal/monitoring"
	"github.com/hamr-lab/hamster-backtest/internal/series"
	"github.com/hamr-lab/hamster-backtest/internal/signal"
	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

// DefaultWindow is the moving-average length in trading days when the
// request does not specify one.
const DefaultWindow = 200

// PriceSource supplies already-loaded price series by symbol. The engine
// never performs I/O itself; loading, caching and retries belong to the
// data layer behind this interface.
type PriceSource interface {
	PriceSeries(symbol string) (types.PriceSeries, error)
}

// Request describes one backtest run. The signal symbol drives the trend
// indicator; the traded symbol realizes the returns. They may name the same
// instrument or a benchmark and its leveraged counterpart.
type Request struct {
	SignalSymbol string
	TradedSymbol string
	Start        time.Time
	End          time.Time
	Window       int
	MAType       signal.MAType
	Policy       signal.Policy
}

// Result is the immutable outcome of one run: the aligned window, the
// signal and position streams, and three equity curves with their
// summaries. Repeated runs with identical inputs produce identical results.
type Result struct {
	Request  Request
	Window   *types.AlignedWindow
	Events   []signal.Event
	Invested []bool

	Strategy   EquityCurve
	HoldTraded EquityCurve
	HoldSignal EquityCurve

	StrategySummary   Summary
	HoldTradedSummary Summary
	HoldSignalSummary Summary
}

// Engine runs backtests against a price source. An Engine is stateless and
// safe for concurrent use across independent requests.
type Engine struct {
	source PriceSource
}

// NewEngine creates a backtest engine on top of the given price source.
func NewEngine(source PriceSource) *Engine {
	return &Engine{source: source}
}

// Run executes a single backtest. Alignment errors abort the run with no
// partial results; metric-level undefined values come back as NaN inside
// the summaries instead.
func (e *Engine) Run(req Request) (*Result, error) {
	started := time.Now()
	result, err := e.run(req)
	monitoring.ObserveBacktest(time.Since(started), err)
	return result, err
}

func (e *Engine) run(req Request) (*Result, error) {
	if req.Window == 0 {
		req.Window = DefaultWindow
	}

	sig, err := e.source.PriceSeries(req.SignalSymbol)
	if err != nil {
		return nil, err
	}
	traded := sig
	if req.TradedSymbol != req.SignalSymbol {
		if traded, err = e.source.PriceSeries(req.TradedSymbol); err != nil {
			return nil, err
		}
	}

	aligned, err := series.Align(sig, traded, req.Window, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	window := signal.Averages(aligned, req.Window, req.MAType)
	events := signal.Crossovers(window)
	invested := signal.Positions(window, events, req.Policy)
	trades := signal.CountTrades(events)

	strategy := StrategyCurve(window, invested)
	holdTraded := BuyHoldCurve(window.Dates, window.Traded)
	holdSignal := BuyHoldCurve(window.Dates, window.Signal)

	return &Result{
		Request:           req,
		Window:            window,
		Events:            events,
		Invested:          invested,
		Strategy:          strategy,
		HoldTraded:        holdTraded,
		HoldSignal:        holdSignal,
		StrategySummary:   Analyze(strategy, trades),
		HoldTradedSummary: Analyze(holdTraded, 0),
		HoldSignalSummary: Analyze(holdSignal, 0),
	}, nil
}
