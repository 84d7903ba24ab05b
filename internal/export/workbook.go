// Package export renders reports as spreadsheet downloads.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"spendwise/internal/reporting"
)

// ContentType is the MIME type of the workbooks written here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetSummary    = "Summary"
	SheetMonthly    = "Monthly"
	SheetCategories = "Categories"
	SheetUsers      = "Users"
)

// major converts minor units to a spreadsheet number with two decimals.
func major(amount int64) float64 {
	return decimal.New(amount, -2).InexactFloat64()
}

// WriteFleetWorkbook writes the fleet report and the per-user summaries as
// an XLSX workbook.
func WriteFleetWorkbook(w io.Writer, fleet reporting.FleetReport, users []reporting.UserReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetMonthly, SheetCategories, SheetUsers} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Users", fleet.UserCount},
		{"Transactions", fleet.TotalTransactions},
		{"Expense transactions", fleet.ExpenseCount},
		{"Total expense", major(fleet.TotalExpense)},
		{"Total budget", major(fleet.TotalBudget)},
		{"Remaining", major(fleet.Remaining)},
		{"Budgets", fleet.BudgetCount},
		{"Top category", fleet.TopCategory},
		{"Top category amount", major(fleet.TopCategoryAmount)},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	monthly := [][]interface{}{{"Month", "Budget", "Expense", "Remaining", "Transactions"}}
	for _, m := range fleet.Monthly {
		monthly = append(monthly, []interface{}{
			m.Period.String(), major(m.BudgetTotal), major(m.ExpenseTotal), major(m.Remaining()), m.TransactionCount,
		})
	}
	if err := writeRows(f, SheetMonthly, monthly); err != nil {
		return err
	}

	categories := [][]interface{}{{"Category", "Amount", "Transactions"}}
	for _, c := range fleet.ExpenseByCategory {
		categories = append(categories, []interface{}{c.Category, major(c.Amount), c.Count})
	}
	if err := writeRows(f, SheetCategories, categories); err != nil {
		return err
	}

	rows := [][]interface{}{{"Email", "Name", "Budget", "Expense", "Remaining", "Transactions"}}
	for _, u := range users {
		rows = append(rows, []interface{}{
			u.Email, u.Name, major(u.TotalBudget), major(u.TotalExpense), major(u.Remaining), u.TransactionCount,
		})
	}
	if err := writeRows(f, SheetUsers, rows); err != nil {
		return err
	}

	_ = f.SetColWidth(SheetSummary, "A", "A", 24)
	_ = f.SetColWidth(SheetUsers, "A", "B", 28)
	_ = f.SetColWidth(SheetCategories, "A", "A", 20)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
