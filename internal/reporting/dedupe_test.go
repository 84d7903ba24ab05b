package reporting

import (
	"reflect"
	"testing"
	"time"

	"spendwise/internal/models"
)

func foodSet() CategorySet {
	return ExpenseCategories([]models.Category{
		{Name: "Food", Type: models.CategoryTypeExpense},
		{Name: "Transport", Type: models.CategoryTypeExpense},
		{Name: "Salary", Type: models.CategoryTypeIncome},
	})
}

func TestDedupeBudgets_KeepsLatestUpdate(t *testing.T) {
	budgets := []models.Budget{
		budget("u1", "Food", 1000000, 6, 2024, t1),
		budget("u1", "Food", 1200000, 6, 2024, t2),
	}

	set := DedupeBudgets(budgets, foodSet(), BudgetScope{})

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	got, ok := set.Get(BudgetKey{UserID: "u1", Category: "Food", Year: 2024, Month: 6})
	if !ok {
		t.Fatal("expected budget for u1_Food_2024_6")
	}
	if got.Amount != 1200000 {
		t.Errorf("kept amount %d, want 1200000", got.Amount)
	}
	if set.Total() != 1200000 {
		t.Errorf("Total() = %d, want 1200000", set.Total())
	}
}

func TestDedupeBudgets_CollisionRules(t *testing.T) {
	var unknown time.Time
	created := func(b models.Budget, at time.Time) models.Budget {
		b.CreatedAt = at
		return b
	}

	tests := []struct {
		name       string
		budgets    []models.Budget
		wantAmount int64
	}{
		{
			name:       "older_update_loses",
			budgets:    []models.Budget{budget("u1", "Food", 200, 6, 2024, t2), budget("u1", "Food", 100, 6, 2024, t1)},
			wantAmount: 200,
		},
		{
			name:       "equal_timestamps_keep_first_seen",
			budgets:    []models.Budget{budget("u1", "Food", 100, 6, 2024, t1), budget("u1", "Food", 200, 6, 2024, t1)},
			wantAmount: 100,
		},
		{
			name:       "both_unknown_keep_first_seen",
			budgets:    []models.Budget{budget("u1", "Food", 100, 6, 2024, unknown), budget("u1", "Food", 200, 6, 2024, unknown)},
			wantAmount: 100,
		},
		{
			name:       "unknown_stored_loses_to_dated",
			budgets:    []models.Budget{budget("u1", "Food", 100, 6, 2024, unknown), budget("u1", "Food", 200, 6, 2024, t1)},
			wantAmount: 200,
		},
		{
			name:       "unknown_candidate_never_wins",
			budgets:    []models.Budget{budget("u1", "Food", 100, 6, 2024, t1), budget("u1", "Food", 200, 6, 2024, unknown)},
			wantAmount: 100,
		},
		{
			name: "created_at_used_when_updated_at_missing",
			budgets: []models.Budget{
				created(budget("u1", "Food", 100, 6, 2024, unknown), t2),
				created(budget("u1", "Food", 200, 6, 2024, unknown), t3),
			},
			wantAmount: 200,
		},
		{
			name: "updated_at_preferred_over_created_at",
			budgets: []models.Budget{
				created(budget("u1", "Food", 100, 6, 2024, t3), t1),
				created(budget("u1", "Food", 200, 6, 2024, t2), t3),
			},
			wantAmount: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := DedupeBudgets(tt.budgets, foodSet(), BudgetScope{})
			if set.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", set.Len())
			}
			if got := set.Budgets()[0].Amount; got != tt.wantAmount {
				t.Errorf("kept amount %d, want %d", got, tt.wantAmount)
			}
		})
	}
}

func TestDedupeBudgets_RejectsMalformedAndForeign(t *testing.T) {
	budgets := []models.Budget{
		budget("u1", "Food", 100, 0, 2024, t1),
		budget("u1", "Food", 100, 13, 2024, t1),
		budget("u1", "Food", 100, 6, 1999, t1),
		budget("u1", "Food", 100, 6, 2101, t1),
		budget("u1", "", 100, 6, 2024, t1),
		budget("u1", "Salary", 100, 6, 2024, t1),
		budget("u1", "Deleted", 100, 6, 2024, t1),
		budget("u1", "Food", 500, 6, 2024, t1),
	}

	set := DedupeBudgets(budgets, foodSet(), BudgetScope{})

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (only the valid Food budget)", set.Len())
	}
	if set.Total() != 500 {
		t.Errorf("Total() = %d, want 500", set.Total())
	}
}

func TestDedupeBudgets_YearBoundsInclusive(t *testing.T) {
	budgets := []models.Budget{
		budget("u1", "Food", 1, 1, 2000, t1),
		budget("u1", "Food", 2, 12, 2100, t1),
	}

	set := DedupeBudgets(budgets, foodSet(), BudgetScope{})

	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestDedupeBudgets_Scope(t *testing.T) {
	budgets := []models.Budget{
		budget("u1", "Food", 100, 6, 2024, t1),
		budget("u2", "Food", 200, 6, 2024, t1),
		budget("u3", "Food", 400, 7, 2024, t1),
	}

	t.Run("per_user_keys_do_not_collide", func(t *testing.T) {
		set := DedupeBudgets(budgets, foodSet(), BudgetScope{})
		if set.Len() != 3 || set.Total() != 700 {
			t.Errorf("got Len=%d Total=%d, want 3 and 700", set.Len(), set.Total())
		}
	})

	t.Run("single_user", func(t *testing.T) {
		set := DedupeBudgets(budgets, foodSet(), BudgetScope{UserID: "u2"})
		if set.Len() != 1 || set.Total() != 200 {
			t.Errorf("got Len=%d Total=%d, want 1 and 200", set.Len(), set.Total())
		}
	})

	t.Run("user_set", func(t *testing.T) {
		set := DedupeBudgets(budgets, foodSet(), BudgetScope{Users: map[string]bool{"u1": true, "u3": true}})
		if set.Len() != 2 || set.Total() != 500 {
			t.Errorf("got Len=%d Total=%d, want 2 and 500", set.Len(), set.Total())
		}
	})

	t.Run("empty_user_set_excludes_everyone", func(t *testing.T) {
		set := DedupeBudgets(budgets, foodSet(), BudgetScope{Users: map[string]bool{}})
		if set.Len() != 0 {
			t.Errorf("Len() = %d, want 0", set.Len())
		}
	})

	t.Run("range", func(t *testing.T) {
		july := ym(2024, time.July)
		set := DedupeBudgets(budgets, foodSet(), BudgetScope{Range: DateRange{From: &july}})
		if set.Len() != 1 || set.Total() != 400 {
			t.Errorf("got Len=%d Total=%d, want 1 and 400", set.Len(), set.Total())
		}
	})
}

func TestDedupeBudgets_LegacyNameAndIDCollapse(t *testing.T) {
	categories := ExpenseCategories([]models.Category{expenseCategory("c-food", "Food")})
	legacy := budget("u1", "Food", 100, 6, 2024, t1)
	current := budget("u1", "Groceries", 300, 6, 2024, t2)
	current.CategoryID = strPtr("c-food")

	set := DedupeBudgets([]models.Budget{legacy, current}, categories, BudgetScope{})

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if set.Total() != 300 {
		t.Errorf("Total() = %d, want 300", set.Total())
	}
	if key := set.Keys()[0]; key.Category != "c-food" {
		t.Errorf("key category = %q, want c-food", key.Category)
	}
}

func TestDedupeBudgets_Idempotent(t *testing.T) {
	budgets := []models.Budget{
		budget("u1", "Food", 100, 6, 2024, t1),
		budget("u1", "Transport", 50, 6, 2024, t1),
		budget("u1", "Food", 150, 6, 2024, t3),
		budget("u2", "Food", 70, 5, 2024, time.Time{}),
		budget("u2", "Food", 80, 5, 2024, time.Time{}),
		budget("u1", "Salary", 999, 6, 2024, t1),
		budget("u1", "Food", 10, 6, 2024, t2),
	}

	once := DedupeBudgets(budgets, foodSet(), BudgetScope{})
	twice := DedupeBudgets(once.Budgets(), foodSet(), BudgetScope{})

	if !reflect.DeepEqual(once.Keys(), twice.Keys()) {
		t.Errorf("keys differ: %v vs %v", once.Keys(), twice.Keys())
	}
	if !reflect.DeepEqual(once.Budgets(), twice.Budgets()) {
		t.Errorf("budgets differ after second pass")
	}
}

func TestDedupeBudgets_DoesNotMutateInput(t *testing.T) {
	budgets := []models.Budget{
		budget("u1", "Food", 100, 6, 2024, t1),
		budget("u1", "Food", 200, 6, 2024, t2),
	}
	snapshot := append([]models.Budget(nil), budgets...)

	DedupeBudgets(budgets, foodSet(), BudgetScope{})

	if !reflect.DeepEqual(budgets, snapshot) {
		t.Error("DedupeBudgets mutated its input")
	}
}

func TestBudgetKeyString(t *testing.T) {
	k := BudgetKey{UserID: "u1", Category: "Food", Year: 2024, Month: 6}
	if got := k.String(); got != "u1_Food_2024_6" {
		t.Errorf("String() = %q, want u1_Food_2024_6", got)
	}
	k.UserID = ""
	if got := k.String(); got != "Food_2024_6" {
		t.Errorf("String() = %q, want Food_2024_6", got)
	}
	if got := k.Period(); got != ym(2024, time.June) {
		t.Errorf("Period() = %v, want 2024-06", got)
	}
}
