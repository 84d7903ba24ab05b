package reporting

import (
	"testing"
	"time"

	"spendwise/internal/models"
)

func TestAggregateMonthly_ExcludesRecurringTemplates(t *testing.T) {
	instance := expense("u1", "Food", 50000, date(2024, time.June, 10))
	instance.RecurringTransactionID = strPtr("tmpl-1")
	template := expense("u1", "Food", 999999, date(2024, time.June, 1))
	template.IsRecurring = true
	income := models.Transaction{UserID: "u1", Category: "Salary", Amount: 3000000, Date: date(2024, time.June, 25), Type: models.TransactionTypeIncome}

	got := AggregateMonthly(BudgetSet{}, []models.Transaction{template, instance, income}, DateRange{})

	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].ExpenseTotal != 50000 {
		t.Errorf("ExpenseTotal = %d, want 50000", got[0].ExpenseTotal)
	}
	if got[0].TransactionCount != 1 {
		t.Errorf("TransactionCount = %d, want 1", got[0].TransactionCount)
	}
}

func TestAggregateMonthly_BudgetOnlyMonth(t *testing.T) {
	budgets := DedupeBudgets([]models.Budget{
		budget("u1", "Food", 300000, 5, 2024, t1),
		budget("u1", "Food", 400000, 6, 2024, t1),
	}, foodSet(), BudgetScope{})
	txs := []models.Transaction{expense("u1", "Food", 120000, date(2024, time.June, 3))}

	got := AggregateMonthly(budgets, txs, DateRange{})

	want := []MonthlyRecord{
		{Period: ym(2024, time.June), BudgetTotal: 400000, ExpenseTotal: 120000, TransactionCount: 1},
		{Period: ym(2024, time.May), BudgetTotal: 300000},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if got[1].Remaining() != 300000 {
		t.Errorf("Remaining() = %d, want 300000", got[1].Remaining())
	}
}

func TestAggregateMonthly_SkipsUndated(t *testing.T) {
	txs := []models.Transaction{
		expense("u1", "Food", 100, nil),
		expense("u1", "Food", 200, date(2024, time.March, 1)),
	}

	got := AggregateMonthly(BudgetSet{}, txs, DateRange{})

	if len(got) != 1 || got[0].ExpenseTotal != 200 {
		t.Errorf("got %+v, want a single March record of 200", got)
	}
}

func TestAggregateMonthly_SumMatchesSpend(t *testing.T) {
	txs := []models.Transaction{
		expense("u1", "Food", 100, date(2024, time.January, 5)),
		expense("u1", "Transport", 250, date(2024, time.January, 20)),
		expense("u2", "Food", 75, date(2024, time.February, 1)),
		expense("u1", "Food", 40, date(2023, time.December, 31)),
	}
	budgets := DedupeBudgets([]models.Budget{
		budget("u1", "Food", 1000, 1, 2024, t1),
		budget("u2", "Food", 500, 2, 2024, t1),
	}, foodSet(), BudgetScope{})

	got := AggregateMonthly(budgets, txs, DateRange{})

	var expense, budgeted int64
	for _, r := range got {
		expense += r.ExpenseTotal
		budgeted += r.BudgetTotal
	}
	if expense != 465 {
		t.Errorf("summed expense = %d, want 465", expense)
	}
	if budgeted != budgets.Total() {
		t.Errorf("summed budget = %d, want %d", budgeted, budgets.Total())
	}
}

func TestAggregateMonthly_Range(t *testing.T) {
	from, to := ym(2024, time.February), ym(2024, time.March)
	txs := []models.Transaction{
		expense("u1", "Food", 1, date(2024, time.January, 31)),
		expense("u1", "Food", 2, date(2024, time.February, 1)),
		expense("u1", "Food", 3, date(2024, time.March, 31)),
		expense("u1", "Food", 4, date(2024, time.April, 1)),
	}

	got := AggregateMonthly(BudgetSet{}, txs, DateRange{From: &from, To: &to})

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Period != to || got[1].Period != from {
		t.Errorf("periods = %v, %v; want 2024-03, 2024-02", got[0].Period, got[1].Period)
	}
}

func TestAggregateMonthly_BucketsByUTCMonth(t *testing.T) {
	june := ym(2024, time.June)
	late := time.Date(2024, 6, 30, 20, 0, 0, 0, time.UTC).In(time.FixedZone("UTC+7", 7*60*60))
	txs := []models.Transaction{expense("u1", "Food", 50000, &late)}

	got := AggregateMonthly(BudgetSet{}, txs, DateRange{From: &june, To: &june})

	if len(got) != 1 {
		t.Fatalf("got %+v, want a single June record", got)
	}
	if got[0].Period != june || got[0].ExpenseTotal != 50000 {
		t.Errorf("record = %+v, want 2024-06 with 50000", got[0])
	}
}

func TestSortMonthly(t *testing.T) {
	records := []MonthlyRecord{
		{Period: ym(2023, time.December), ExpenseTotal: 100},
		{Period: ym(2024, time.February), ExpenseTotal: 500},
		{Period: ym(2024, time.January), ExpenseTotal: 100},
		{Period: ym(2022, time.July), ExpenseTotal: 0},
	}

	SortMonthly(records)

	want := []YearMonth{
		ym(2024, time.February),
		ym(2024, time.January),
		ym(2023, time.December),
		ym(2022, time.July),
	}
	for i, w := range want {
		if records[i].Period != w {
			t.Errorf("position %d = %v, want %v", i, records[i].Period, w)
		}
	}
}

func TestAggregateMonthly_EmptyInput(t *testing.T) {
	got := AggregateMonthly(BudgetSet{}, nil, DateRange{})
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}
