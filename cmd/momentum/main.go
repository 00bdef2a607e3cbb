// Command momentum ranks the instruments in the local data directory by
// trailing 12-month return as of the last trading day of the prior month.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hamr-lab/hamster-backtest/internal/momentum"
	"github.com/hamr-lab/hamster-backtest/pkg/data"
	"github.com/hamr-lab/hamster-backtest/pkg/reporting"
)

const (
	AppName    = "Hamster Momentum"
	AppVersion = "1.0.0"
)

func main() {
	dataDir := flag.String("data", "data", "Directory of per-symbol CSV price files")
	symbols := flag.String("symbols", "", "Comma-separated symbols (default: every CSV in the data directory)")
	tolerance := flag.Int("tolerance", momentum.DefaultToleranceDays, "Staleness tolerance in calendar days")
	window := flag.Int("window", momentum.DefaultAverageWindow, "Moving average window reported per instrument")
	asOf := flag.String("as-of", "", "Rank as of this date YYYY-MM-DD (default: today)")
	format := flag.String("format", "console", "Output format (console, json, csv)")
	output := flag.String("output", "", "Output file path (required for csv)")
	envFile := flag.String("env", ".env", "Path to .env file")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	logger := newLogger(*verbose)
	defer logger.Sync()

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debug("no env file loaded", zap.String("path", *envFile), zap.Error(err))
	}
	dir := *dataDir
	if env := os.Getenv("HAMSTER_DATA_DIR"); env != "" && dir == "data" {
		dir = env
	}

	opts := []momentum.Option{
		momentum.WithTolerance(*tolerance),
		momentum.WithAverageWindow(*window),
		momentum.WithLogger(logger),
	}
	if *asOf != "" {
		now, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			logger.Fatal("invalid as-of date", zap.String("value", *asOf), zap.Error(err))
		}
		opts = append(opts, momentum.WithClock(func() time.Time { return now }))
	}

	source := data.NewCachedProvider(data.NewStore(dir, data.WithLogger(logger)))
	ranker := momentum.NewRanker(source, opts...)

	var universe []string
	if *symbols != "" {
		for _, s := range strings.Split(*symbols, ",") {
			if s = strings.TrimSpace(s); s != "" {
				universe = append(universe, s)
			}
		}
	}

	entries, err := ranker.Rank(universe)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	switch *format {
	case "json":
		err = reporting.WriteRankingJSON(entries, *output)
	case "csv":
		if *output == "" {
			logger.Fatal("-output is required with -format csv")
		}
		err = reporting.WriteRankingCSV(entries, *output)
	default:
		reporting.NewConsoleReporter(os.Stdout, 0).WriteRanking(entries)
	}
	if err != nil {
		logger.Fatal("writing ranking failed", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
