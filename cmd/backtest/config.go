package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// RunConfig holds the full configuration of one backtest run. Flags fill it
// first; a JSON config file, when given, overrides the flag values.
type RunConfig struct {
	DataDir      string `json:"data_dir"`
	SignalSymbol string `json:"signal_symbol"`
	TradedSymbol string `json:"traded_symbol"`
	Start        string `json:"start"`
	End          string `json:"end"`

	Window int    `json:"window"`
	MAType string `json:"ma_type"`
	Policy string `json:"initial_policy"`

	AdjustSplits   bool    `json:"adjust_splits"`
	SplitThreshold float64 `json:"split_threshold"`

	Capital      float64 `json:"capital"`
	OutputFormat string  `json:"output_format"`
	OutputFile   string  `json:"output_file"`
}

// loadRunConfig merges flag values with an optional JSON config file.
func loadRunConfig(flags *Flags) (*RunConfig, error) {
	cfg := &RunConfig{
		DataDir:        *flags.DataDir,
		SignalSymbol:   *flags.SignalSymbol,
		TradedSymbol:   *flags.TradedSymbol,
		Start:          *flags.Start,
		End:            *flags.End,
		Window:         *flags.Window,
		MAType:         *flags.MAType,
		Policy:         *flags.Policy,
		AdjustSplits:   *flags.AdjustSplits,
		SplitThreshold: *flags.SplitThreshold,
		Capital:        *flags.Capital,
		OutputFormat:   *flags.Format,
		OutputFile:     *flags.Output,
	}

	if *flags.ConfigFile != "" {
		payload, err := os.ReadFile(*flags.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(payload, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Environment fallback for the data directory
	if dir := os.Getenv("HAMSTER_DATA_DIR"); dir != "" && cfg.DataDir == DefaultDataDir {
		cfg.DataDir = dir
	}
	if cfg.TradedSymbol == "" {
		cfg.TradedSymbol = cfg.SignalSymbol
	}
	if cfg.SignalSymbol == "" {
		return nil, fmt.Errorf("no signal symbol configured")
	}
	return cfg, nil
}
