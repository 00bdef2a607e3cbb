// Command backtest evaluates a moving-average trend strategy against local
// CSV price data and reports its risk/return profile next to buy-and-hold
// baselines.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hamr-lab/hamster-backtest/internal/backtest"
	"github.com/hamr-lab/hamster-backtest/internal/monitoring"
	"github.com/hamr-lab/hamster-backtest/internal/signal"
	"github.com/hamr-lab/hamster-backtest/pkg/data"
	"github.com/hamr-lab/hamster-backtest/pkg/reporting"
	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

const (
	AppName    = "Hamster Backtest"
	AppVersion = "1.0.0"

	DefaultWindow      = backtest.DefaultWindow
	DefaultCapital     = 10_000.0
	DefaultDataDir     = "data"
	DefaultLookbackYrs = 5
)

func main() {
	flags := NewFlags()
	flag.Parse()

	if err := flags.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *flags.ShowHelp {
		flag.Usage()
		return
	}

	logger := newLogger(*flags.Verbose)
	defer logger.Sync()

	if err := godotenv.Load(*flags.EnvFile); err != nil {
		logger.Debug("no env file loaded", zap.String("path", *flags.EnvFile), zap.Error(err))
	}

	cfg, err := loadRunConfig(flags)
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("backtest failed", zap.Error(err))
	}

	if *flags.MetricsAddr != "" {
		serveMetrics(*flags.MetricsAddr, logger)
	}
}

func run(cfg *RunConfig, logger *zap.Logger) error {
	maType, err := parseMAType(cfg.MAType)
	if err != nil {
		return err
	}
	policy, err := signal.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	storeOpts := []data.StoreOption{data.WithLogger(logger)}
	if cfg.AdjustSplits {
		storeOpts = append(storeOpts, data.WithSplitAdjustment(cfg.SplitThreshold))
	}
	store := data.NewStore(cfg.DataDir, storeOpts...)
	source := data.NewCachedProvider(store)

	start, end, err := resolveRange(cfg, store)
	if err != nil {
		return err
	}
	logger.Info("running backtest",
		zap.String("signal", cfg.SignalSymbol),
		zap.String("traded", cfg.TradedSymbol),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("window", cfg.Window))

	engine := backtest.NewEngine(source)
	result, err := engine.Run(backtest.Request{
		SignalSymbol: cfg.SignalSymbol,
		TradedSymbol: cfg.TradedSymbol,
		Start:        start,
		End:          end,
		Window:       cfg.Window,
		MAType:       maType,
		Policy:       policy,
	})
	if err != nil {
		return err
	}

	switch cfg.OutputFormat {
	case "json":
		return reporting.WriteResultJSON(result, cfg.OutputFile)
	case "csv":
		if err := reporting.WriteEquityCSV(result, cfg.OutputFile); err != nil {
			return err
		}
		logger.Info("equity curves saved", zap.String("path", cfg.OutputFile))
		return nil
	case "xlsx":
		if err := reporting.WriteResultXLSX(result, cfg.OutputFile); err != nil {
			return err
		}
		logger.Info("workbook saved", zap.String("path", cfg.OutputFile))
		return nil
	default:
		reporting.NewConsoleReporter(os.Stdout, cfg.Capital).WriteResult(result)
		return nil
	}
}

// resolveRange fills missing start/end dates from the overlapping history
// of the two instruments, defaulting to the trailing five years.
func resolveRange(cfg *RunConfig, store *data.Store) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if cfg.Start != "" {
		if start, err = time.Parse("2006-01-02", cfg.Start); err != nil {
			return start, end, fmt.Errorf("invalid start date %q: %w", cfg.Start, err)
		}
	}
	if cfg.End != "" {
		if end, err = time.Parse("2006-01-02", cfg.End); err != nil {
			return start, end, fmt.Errorf("invalid end date %q: %w", cfg.End, err)
		}
	}
	if !start.IsZero() && !end.IsZero() {
		return types.Day(start), types.Day(end), nil
	}

	availStart, availEnd, err := store.CommonRange(cfg.SignalSymbol, cfg.TradedSymbol)
	if err != nil {
		return start, end, err
	}
	if end.IsZero() {
		end = availEnd
	}
	if start.IsZero() {
		start = end.AddDate(-DefaultLookbackYrs, 0, 0)
		if start.Before(availStart) {
			start = availStart
		}
	}
	return types.Day(start), types.Day(end), nil
}

func parseMAType(s string) (signal.MAType, error) {
	switch s {
	case "", "sma", "SMA":
		return signal.SMA, nil
	case "ema", "EMA":
		return signal.EMA, nil
	}
	return signal.SMA, fmt.Errorf("unknown moving average type %q (use sma or ema)", s)
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

// serveMetrics blocks serving the Prometheus endpoint so a scraper can
// collect the run counters before the process exits.
func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())
	logger.Info("serving metrics until interrupted", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}
