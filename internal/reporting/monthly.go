package reporting

import (
	"sort"
	"time"

	"spendwise/internal/models"
)

// MonthlyRecord is one month's budget against spend.
type MonthlyRecord struct {
	Period           YearMonth `json:"period"`
	BudgetTotal      int64     `json:"budget_total"`
	ExpenseTotal     int64     `json:"expense_total"`
	TransactionCount int       `json:"transaction_count"`
}

// Remaining is budget minus spend; negative when over budget.
func (r MonthlyRecord) Remaining() int64 {
	return r.BudgetTotal - r.ExpenseTotal
}

// AggregateMonthly groups deduplicated budgets and spend transactions by
// calendar month.
//
// Only expense transactions that are not recurring templates count, and a
// transaction without a date is skipped. Months that have a budget but no
// spend still appear with a zero expense total. The result is ordered by
// SortMonthly.
func AggregateMonthly(budgets BudgetSet, transactions []models.Transaction, rng DateRange) []MonthlyRecord {
	months := make(map[YearMonth]*MonthlyRecord)
	record := func(ym YearMonth) *MonthlyRecord {
		r, ok := months[ym]
		if !ok {
			r = &MonthlyRecord{Period: ym}
			months[ym] = r
		}
		return r
	}

	for _, key := range budgets.keys {
		ym := key.Period()
		if !rng.Contains(ym) {
			continue
		}
		record(ym).BudgetTotal += budgets.byKey[key].Amount
	}

	for i := range transactions {
		t := &transactions[i]
		if !t.CountsAsSpend() || t.Date == nil {
			continue
		}
		ym := YearMonthOf(*t.Date)
		if !rng.Contains(ym) {
			continue
		}
		r := record(ym)
		r.ExpenseTotal += t.Amount
		r.TransactionCount++
	}

	out := make([]MonthlyRecord, 0, len(months))
	for _, r := range months {
		out = append(out, *r)
	}
	SortMonthly(out)
	return out
}

// SortMonthly orders records by expense total descending, breaking ties with
// the more recent month first.
func SortMonthly(records []MonthlyRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].ExpenseTotal != records[j].ExpenseTotal {
			return records[i].ExpenseTotal > records[j].ExpenseTotal
		}
		return records[i].Period.After(records[j].Period)
	})
}

func timeMonth(m int) time.Month {
	return time.Month(m)
}
