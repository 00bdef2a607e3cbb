package main

import (
	"flag"
	"fmt"
)

// Flags holds all command line flags for the backtest command.
type Flags struct {
	// Configuration
	ConfigFile *string
	DataDir    *string
	EnvFile    *string

	// Instruments and range
	SignalSymbol *string
	TradedSymbol *string
	Start        *string
	End          *string

	// Strategy parameters
	Window *int
	MAType *string
	Policy *string

	// Data hygiene
	AdjustSplits   *bool
	SplitThreshold *float64

	// Output options
	Capital *float64
	Format  *string
	Output  *string

	// Observability
	MetricsAddr *string
	Verbose     *bool

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewFlags creates and registers all command line flags.
func NewFlags() *Flags {
	return &Flags{
		ConfigFile: flag.String("config", "", "Path to JSON configuration file"),
		DataDir:    flag.String("data", DefaultDataDir, "Directory of per-symbol CSV price files"),
		EnvFile:    flag.String("env", ".env", "Path to .env file"),

		SignalSymbol: flag.String("signal", "", "Signal instrument symbol (drives the trend indicator)"),
		TradedSymbol: flag.String("traded", "", "Traded instrument symbol (defaults to the signal symbol)"),
		Start:        flag.String("start", "", "Analysis start date YYYY-MM-DD (default: 5 years before end)"),
		End:          flag.String("end", "", "Analysis end date YYYY-MM-DD (default: last common trading day)"),

		Window: flag.Int("window", DefaultWindow, "Moving average window in trading days"),
		MAType: flag.String("ma", "sma", "Moving average type (sma, ema)"),
		Policy: flag.String("policy", "flat", "Initial position policy (flat, invested, auto)"),

		AdjustSplits:   flag.Bool("adjust-splits", false, "Back-adjust prices across unadjusted splits"),
		SplitThreshold: flag.Float64("split-threshold", 0, "Split detection threshold (0 = default 0.30)"),

		Capital: flag.Float64("capital", DefaultCapital, "Initial capital for the final assets row"),
		Format:  flag.String("format", "console", "Output format (console, json, csv, xlsx)"),
		Output:  flag.String("output", "", "Output file path (required for csv and xlsx)"),

		MetricsAddr: flag.String("metrics-addr", "", "Serve Prometheus metrics on this address after the run"),
		Verbose:     flag.Bool("verbose", false, "Enable debug logging"),

		ShowVersion: flag.Bool("version", false, "Show version and exit"),
		ShowHelp:    flag.Bool("help", false, "Show usage and exit"),
	}
}

// Validate checks flag combinations before any work happens.
func (f *Flags) Validate() error {
	if *f.ShowVersion || *f.ShowHelp {
		return nil
	}
	if *f.SignalSymbol == "" && *f.ConfigFile == "" {
		return fmt.Errorf("a signal symbol is required (use -signal or -config)")
	}
	switch *f.Format {
	case "console", "json", "csv", "xlsx":
	default:
		return fmt.Errorf("unknown output format %q (use console, json, csv or xlsx)", *f.Format)
	}
	if (*f.Format == "csv" || *f.Format == "xlsx") && *f.Output == "" {
		return fmt.Errorf("-output is required with -format %s", *f.Format)
	}
	return nil
}
