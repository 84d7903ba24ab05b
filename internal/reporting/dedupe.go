package reporting

import (
	"fmt"

	"spendwise/internal/models"
)

// Sanity window for budget years; anything outside is treated as corrupt.
const (
	minBudgetYear = 2000
	maxBudgetYear = 2100
)

// BudgetKey identifies one logical budget: a user's cap for one category in
// one month. Category is the CategorySet join key.
type BudgetKey struct {
	UserID   string
	Category string
	Year     int
	Month    int
}

// String renders the key as user_category_year_month, dropping the user
// segment when it is empty.
func (k BudgetKey) String() string {
	if k.UserID == "" {
		return fmt.Sprintf("%s_%d_%d", k.Category, k.Year, k.Month)
	}
	return fmt.Sprintf("%s_%s_%d_%d", k.UserID, k.Category, k.Year, k.Month)
}

// Period returns the month the budget applies to.
func (k BudgetKey) Period() YearMonth {
	return YearMonth{Year: k.Year, Month: timeMonth(k.Month)}
}

// BudgetScope restricts which budgets take part in deduplication.
type BudgetScope struct {
	// UserID keeps only one user's budgets when non-empty.
	UserID string
	// Users keeps only budgets owned by these users when non-nil.
	Users map[string]bool
	// Range keeps only budgets whose month falls inside it.
	Range DateRange
}

func (s BudgetScope) allows(b *models.Budget) bool {
	if s.UserID != "" && b.UserID != s.UserID {
		return false
	}
	if s.Users != nil && !s.Users[b.UserID] {
		return false
	}
	return s.Range.Contains(YearMonth{Year: b.Year, Month: timeMonth(b.Month)})
}

// BudgetSet holds at most one budget per BudgetKey, in the order keys were
// first seen.
type BudgetSet struct {
	keys  []BudgetKey
	byKey map[BudgetKey]models.Budget
}

// DedupeBudgets collapses duplicate budgets to the most recently updated
// record per key.
//
// Budgets with a month outside 1..12, a year outside 2000..2100, or a
// category that does not resolve in categories are dropped. On a key
// collision the record with the later EffectiveAt wins; a stored record with
// an unknown timestamp loses to any dated record; equal or both-unknown
// timestamps keep the record seen first.
func DedupeBudgets(budgets []models.Budget, categories CategorySet, scope BudgetScope) BudgetSet {
	set := BudgetSet{byKey: make(map[BudgetKey]models.Budget)}
	for i := range budgets {
		b := &budgets[i]
		if b.Month < 1 || b.Month > 12 || b.Year < minBudgetYear || b.Year > maxBudgetYear {
			continue
		}
		if !scope.allows(b) {
			continue
		}
		category, ok := categories.Resolve(b.CategoryID, b.CategoryName)
		if !ok {
			continue
		}

		key := BudgetKey{UserID: b.UserID, Category: category, Year: b.Year, Month: b.Month}
		stored, seen := set.byKey[key]
		if !seen {
			set.keys = append(set.keys, key)
			set.byKey[key] = *b
			continue
		}
		if supersedes(b, &stored) {
			set.byKey[key] = *b
		}
	}
	return set
}

func supersedes(candidate, stored *models.Budget) bool {
	storedAt := stored.EffectiveAt()
	candidateAt := candidate.EffectiveAt()
	if storedAt.IsZero() {
		return !candidateAt.IsZero()
	}
	return candidateAt.After(storedAt)
}

// Len returns the number of distinct budget keys.
func (s BudgetSet) Len() int {
	return len(s.keys)
}

// Get returns the effective budget for key.
func (s BudgetSet) Get(key BudgetKey) (models.Budget, bool) {
	b, ok := s.byKey[key]
	return b, ok
}

// Keys returns the keys in first-seen order.
func (s BudgetSet) Keys() []BudgetKey {
	out := make([]BudgetKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Budgets returns the effective budgets in first-seen key order.
func (s BudgetSet) Budgets() []models.Budget {
	out := make([]models.Budget, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.byKey[k])
	}
	return out
}

// Total sums the effective budget amounts.
func (s BudgetSet) Total() int64 {
	var total int64
	for _, k := range s.keys {
		total += s.byKey[k].Amount
	}
	return total
}
