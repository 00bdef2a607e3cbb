package reporting

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/hamr-lab/hamster-backtest/internal/backtest"
)

// WriteResultXLSX writes one run to an Excel workbook with a Summary sheet,
// a per-day Equity sheet and a Monthly returns sheet.
func WriteResultXLSX(result *backtest.Result, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const equitySheet = "Equity"
	const monthlySheet = "Monthly Returns"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(equitySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(monthlySheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeSummarySheet(fx, summarySheet, result, headerStyle); err != nil {
		return err
	}
	if err := writeEquitySheet(fx, equitySheet, result, headerStyle); err != nil {
		return err
	}
	if err := writeMonthlySheet(fx, monthlySheet, result, headerStyle); err != nil {
		return err
	}
	return fx.SaveAs(path)
}

func writeSummarySheet(fx *excelize.File, sheet string, result *backtest.Result, headerStyle int) error {
	req := result.Request
	header := []interface{}{"Metric",
		"Strategy (" + req.TradedSymbol + ")",
		"Buy & Hold (" + req.TradedSymbol + ")",
		"Buy & Hold (" + req.SignalSymbol + ")"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Final Multiplier", result.StrategySummary.Final, result.HoldTradedSummary.Final, result.HoldSignalSummary.Final},
		{"Total Return", result.StrategySummary.TotalReturn, result.HoldTradedSummary.TotalReturn, result.HoldSignalSummary.TotalReturn},
		{"CAGR", result.StrategySummary.CAGR, result.HoldTradedSummary.CAGR, result.HoldSignalSummary.CAGR},
		{"Max Drawdown", result.StrategySummary.MaxDrawdown, result.HoldTradedSummary.MaxDrawdown, result.HoldSignalSummary.MaxDrawdown},
		{"Annualized Volatility", result.StrategySummary.AnnualizedVolatility, result.HoldTradedSummary.AnnualizedVolatility, result.HoldSignalSummary.AnnualizedVolatility},
		{"Sharpe Ratio", result.StrategySummary.Sharpe, result.HoldTradedSummary.Sharpe, result.HoldSignalSummary.Sharpe},
		{"Sortino Ratio", result.StrategySummary.Sortino, result.HoldTradedSummary.Sortino, result.HoldSignalSummary.Sortino},
		{"Calmar Ratio", result.StrategySummary.Calmar, result.HoldTradedSummary.Calmar, result.HoldSignalSummary.Calmar},
		{"Trade Count", result.StrategySummary.TradeCount, 0, 0},
	}
	for i, row := range rows {
		for j := range row[1:] {
			if v, ok := row[j+1].(float64); ok && math.IsNaN(v) {
				row[j+1] = "—"
			}
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeEquitySheet(fx *excelize.File, sheet string, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"Date", "Signal Price", "Traded Price", "Moving Average",
		"Event", "Invested", "Equity Strategy", "Equity BH Traded", "Equity BH Signal",
		"Strategy Drawdown"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "J1", headerStyle); err != nil {
		return err
	}

	win := result.Window
	drawdowns := result.Strategy.Drawdowns()
	for t := 0; t < win.Len(); t++ {
		row := []interface{}{
			win.Dates[t].Format("2006-01-02"),
			win.Signal[t],
			win.Traded[t],
			win.Average[t],
			result.Events[t].String(),
			result.Invested[t],
			result.Strategy.Values[t],
			result.HoldTraded.Values[t],
			result.HoldSignal.Values[t],
			drawdowns[t],
		}
		cell := fmt.Sprintf("A%d", t+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthlySheet(fx *excelize.File, sheet string, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"Year", "Month", "Strategy Return", "BH Traded Return"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return err
	}

	strategy := backtest.MonthlyReturns(result.Strategy.Dates, result.Strategy.Returns())
	hold := backtest.MonthlyReturns(result.HoldTraded.Dates, result.HoldTraded.Returns())
	for i, m := range strategy {
		row := []interface{}{m.Year, m.Month.String(), m.Return, hold[i].Return}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
