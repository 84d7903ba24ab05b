package reporting

import (
	"sort"

	"spendwise/internal/models"
)

// Inputs a report can be computed without; listed in Degraded when the
// fetch layer could not supply them.
const (
	DegradedBudgets    = "budgets"
	DegradedCategories = "categories"
)

// uncategorized labels spend whose category reference is empty.
const uncategorized = "Uncategorized"

// UserReport summarises one regular user's budgets and spend.
type UserReport struct {
	UserID           string          `json:"user_id"`
	Email            string          `json:"email"`
	Name             string          `json:"name"`
	TotalExpense     int64           `json:"total_expense"`
	TotalBudget      int64           `json:"total_budget"`
	TransactionCount int             `json:"transaction_count"`
	Remaining        int64           `json:"remaining"`
	Monthly          []MonthlyRecord `json:"monthly"`
	Degraded         []string        `json:"degraded,omitempty"`
}

// CategoryTotal is the spend attributed to one category.
type CategoryTotal struct {
	CategoryKey string `json:"category_key"`
	Category    string `json:"category"`
	Amount      int64  `json:"amount"`
	Count       int    `json:"count"`
}

// FleetReport aggregates every regular user.
type FleetReport struct {
	UserCount         int             `json:"user_count"`
	TotalTransactions int             `json:"total_transactions"`
	TotalExpense      int64           `json:"total_expense"`
	ExpenseCount      int             `json:"expense_count"`
	TopCategory       string          `json:"top_category"`
	TopCategoryAmount int64           `json:"top_category_amount"`
	TotalBudget       int64           `json:"total_budget"`
	BudgetCount       int             `json:"budget_count"`
	Remaining         int64           `json:"remaining"`
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
	Monthly           []MonthlyRecord `json:"monthly"`
	Degraded          []string        `json:"degraded,omitempty"`
}

// ComputeUserReport builds the report for one user. Budgets and transactions
// owned by other users are ignored, and admins get an empty report.
//
// TransactionCount counts every loaded transaction of the user, income and
// recurring templates included, while the totals only count spend.
func ComputeUserReport(user models.User, budgets []models.Budget, transactions []models.Transaction, categories CategorySet, rng DateRange) UserReport {
	report := UserReport{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Monthly: []MonthlyRecord{},
	}
	if !user.IsRegular() {
		return report
	}

	deduped := DedupeBudgets(budgets, categories, BudgetScope{UserID: user.ID, Range: rng})

	owned := make([]models.Transaction, 0, len(transactions))
	for i := range transactions {
		t := &transactions[i]
		if t.UserID != user.ID || !rng.containsDate(t.Date) {
			continue
		}
		owned = append(owned, *t)
	}

	report.Monthly = AggregateMonthly(deduped, owned, rng)
	for _, m := range report.Monthly {
		report.TotalExpense += m.ExpenseTotal
		report.TotalBudget += m.BudgetTotal
	}
	report.TransactionCount = len(owned)
	report.Remaining = report.TotalBudget - report.TotalExpense
	return report
}

// ComputeUserSummaries builds one report per regular user, ordered by total
// expense descending, then email.
func ComputeUserSummaries(users []models.User, budgets []models.Budget, transactions []models.Transaction, categories CategorySet, rng DateRange) []UserReport {
	budgetsByUser := make(map[string][]models.Budget)
	for i := range budgets {
		budgetsByUser[budgets[i].UserID] = append(budgetsByUser[budgets[i].UserID], budgets[i])
	}
	txByUser := make(map[string][]models.Transaction)
	for i := range transactions {
		txByUser[transactions[i].UserID] = append(txByUser[transactions[i].UserID], transactions[i])
	}

	reports := make([]UserReport, 0, len(users))
	seen := make(map[string]bool, len(users))
	for i := range users {
		u := users[i]
		if !u.IsRegular() || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		reports = append(reports, ComputeUserReport(u, budgetsByUser[u.ID], txByUser[u.ID], categories, rng))
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].TotalExpense != reports[j].TotalExpense {
			return reports[i].TotalExpense > reports[j].TotalExpense
		}
		return reports[i].Email < reports[j].Email
	})
	return reports
}

// ComputeFleetReport aggregates budgets and spend across all regular users.
// Admin accounts, and anything they own, are excluded from every figure.
func ComputeFleetReport(users []models.User, budgets []models.Budget, transactions []models.Transaction, categories []models.Category, rng DateRange) FleetReport {
	regular := make(map[string]bool)
	for i := range users {
		if users[i].IsRegular() {
			regular[users[i].ID] = true
		}
	}

	set := ExpenseCategories(categories)
	deduped := DedupeBudgets(budgets, set, BudgetScope{Users: regular, Range: rng})

	report := FleetReport{
		UserCount:         len(regular),
		BudgetCount:       deduped.Len(),
		ExpenseByCategory: []CategoryTotal{},
	}

	scoped := make([]models.Transaction, 0, len(transactions))
	for i := range transactions {
		t := &transactions[i]
		if !regular[t.UserID] || !rng.containsDate(t.Date) {
			continue
		}
		scoped = append(scoped, *t)
	}

	report.TotalTransactions = len(scoped)
	report.Monthly = AggregateMonthly(deduped, scoped, rng)
	for _, m := range report.Monthly {
		report.TotalExpense += m.ExpenseTotal
		report.ExpenseCount += m.TransactionCount
		report.TotalBudget += m.BudgetTotal
	}
	report.Remaining = report.TotalBudget - report.TotalExpense

	// First-encountered maximum wins ties.
	for _, ct := range SpendByCategory(set, scoped) {
		if report.TopCategory == "" || ct.Amount > report.TopCategoryAmount {
			report.TopCategory = ct.Category
			report.TopCategoryAmount = ct.Amount
		}
		report.ExpenseByCategory = append(report.ExpenseByCategory, ct)
	}
	sort.SliceStable(report.ExpenseByCategory, func(i, j int) bool {
		return report.ExpenseByCategory[i].Amount > report.ExpenseByCategory[j].Amount
	})
	return report
}

// SpendByCategory sums dated spend transactions per category, in the order
// each category is first encountered.
func SpendByCategory(categories CategorySet, transactions []models.Transaction) []CategoryTotal {
	totals := make(map[string]*CategoryTotal)
	var order []string
	for i := range transactions {
		t := &transactions[i]
		if !t.CountsAsSpend() || t.Date == nil {
			continue
		}
		key, label := spendCategory(categories, t)
		ct, ok := totals[key]
		if !ok {
			ct = &CategoryTotal{CategoryKey: key, Category: label}
			totals[key] = ct
			order = append(order, key)
		}
		ct.Amount += t.Amount
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, key := range order {
		out = append(out, *totals[key])
	}
	return out
}

// spendCategory groups a transaction by its join key when the category
// resolves, otherwise by its raw name so the spend still shows up.
func spendCategory(set CategorySet, t *models.Transaction) (key, label string) {
	if key, ok := set.Resolve(t.CategoryID, t.Category); ok {
		return key, set.DisplayName(key)
	}
	if t.Category != "" {
		return t.Category, t.Category
	}
	return uncategorized, uncategorized
}
