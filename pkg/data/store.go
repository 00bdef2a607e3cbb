// Package data loads daily price series from a directory of per-symbol CSV
// files, the schema produced by the market-data refresh script (Date, Open,
// High, Low, Close[, Adj Close], Volume).
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	bterrors "github.com/hamr-lab/hamster-backtest/internal/errors"
	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

const component = "data"

// DefaultSplitThreshold is the minimum absolute one-day move treated as an
// unadjusted split when split adjustment is enabled.
const DefaultSplitThreshold = 0.3

// dateFormats are the timestamp layouts accepted in the Date column.
var dateFormats = []string{"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"}

// priceColumns is the preference order for the usable price column.
var priceColumns = []string{"Adj Close", "Close", "Price"}

// Store reads price series from {dir}/{SYMBOL}.csv files.
type Store struct {
	dir            string
	logger         *zap.Logger
	adjustSplits   bool
	splitThreshold float64
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithLogger attaches a logger for row-level parse diagnostics.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithSplitAdjustment enables retroactive back-adjustment of prices across
// split-sized jumps. A threshold of 0 selects the default.
func WithSplitAdjustment(threshold float64) StoreOption {
	return func(s *Store) {
		s.adjustSplits = true
		if threshold > 0 {
			s.splitThreshold = threshold
		}
	}
}

// NewStore creates a store over the given data directory.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{
		dir:            dir,
		logger:         zap.NewNop(),
		splitThreshold: DefaultSplitThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Symbols returns the sorted set of symbols backed by a CSV file.
func (s *Store) Symbols() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(matches))
	for _, m := range matches {
		symbols = append(symbols, strings.TrimSuffix(filepath.Base(m), ".csv"))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// PriceSeries loads the daily series for a symbol, date-ascending with
// duplicate dates dropped (first kept). It fails with NotFound when no CSV
// backs the symbol and EmptySeries when the file holds no usable rows.
func (s *Store) PriceSeries(symbol string) (types.PriceSeries, error) {
	path := filepath.Join(s.dir, symbol+".csv")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bterrors.Newf(bterrors.CategoryNotFound, component,
				"no data file for symbol %s", symbol)
		}
		return nil, bterrors.Wrap(err, bterrors.CategoryNotFound, component, "open data file")
	}
	defer file.Close()

	series, err := s.parse(file, symbol)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, bterrors.Newf(bterrors.CategoryEmptySeries, component,
			"data file for symbol %s has no usable rows", symbol)
	}
	if s.adjustSplits {
		series = AdjustForSplits(series, s.splitThreshold)
	}
	return series, nil
}

// CommonRange returns the overlapping [start, end] date range of two
// symbols, failing with NoOverlap when their histories never intersect.
func (s *Store) CommonRange(a, b string) (time.Time, time.Time, error) {
	sa, err := s.PriceSeries(a)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	sb, err := s.PriceSeries(b)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	firstA, _ := sa.First()
	firstB, _ := sb.First()
	lastA, _ := sa.Last()
	lastB, _ := sb.Last()

	start, end := firstA.Date, lastA.Date
	if firstB.Date.After(start) {
		start = firstB.Date
	}
	if lastB.Date.Before(end) {
		end = lastB.Date
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, bterrors.Newf(bterrors.CategoryNoOverlap, component,
			"histories of %s and %s never overlap", a, b)
	}
	return start, end, nil
}

// parse reads one CSV file into a clean series.
func (s *Store) parse(file io.Reader, symbol string) (types.PriceSeries, error) {
	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, bterrors.Wrap(err, bterrors.CategoryEmptySeries, component, "read header")
	}

	dateCol, priceCol, err := resolveColumns(header)
	if err != nil {
		return nil, bterrors.Wrap(err, bterrors.CategoryEmptySeries, component, "resolve columns")
	}

	var series types.PriceSeries
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s.csv at line %d: %w", symbol, line, err)
		}
		line++

		if len(record) <= dateCol || len(record) <= priceCol {
			s.logger.Warn("skipping short row",
				zap.String("symbol", symbol), zap.Int("line", line))
			continue
		}
		date, ok := parseDate(record[dateCol])
		if !ok {
			s.logger.Warn("skipping row with unparsable date",
				zap.String("symbol", symbol), zap.Int("line", line))
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[priceCol]), 64)
		if err != nil || price <= 0 {
			s.logger.Warn("skipping row with unusable price",
				zap.String("symbol", symbol), zap.Int("line", line))
			continue
		}
		series = append(series, types.PricePoint{Date: date, Price: price})
	}

	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return dedupe(series), nil
}

// resolveColumns locates the date column and the preferred price column.
func resolveColumns(header []string) (int, int, error) {
	dateCol := 0
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		cols[name] = i
		if strings.EqualFold(name, "Date") {
			dateCol = i
		}
	}
	for _, name := range priceColumns {
		if i, ok := cols[name]; ok {
			return dateCol, i, nil
		}
	}
	return 0, 0, fmt.Errorf("no price column (need one of %s)", strings.Join(priceColumns, ", "))
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return types.Day(t), true
		}
	}
	return time.Time{}, false
}

// dedupe drops repeated dates, keeping the first occurrence. Input must be
// sorted.
func dedupe(series types.PriceSeries) types.PriceSeries {
	out := series[:0]
	for i, p := range series {
		if i > 0 && p.Date.Equal(series[i-1].Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}
