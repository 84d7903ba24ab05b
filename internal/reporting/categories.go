package reporting

import "spendwise/internal/models"

// CategorySet is the set of live expense categories a report may join
// budgets and transactions against.
//
// The join key is the category id. Records written before ids were stored
// carry only a name; those fall back to an exact, case-sensitive name match
// and are mapped onto the same key, so legacy and current rows for one
// category collapse together.
type CategorySet struct {
	byID   map[string]string // id -> name
	byName map[string]string // name -> id (first seen wins)
}

// ExpenseCategories builds the set from a category list. Income categories
// and categories without a name are skipped.
func ExpenseCategories(categories []models.Category) CategorySet {
	set := CategorySet{
		byID:   make(map[string]string),
		byName: make(map[string]string),
	}
	for i := range categories {
		c := &categories[i]
		if c.Type != models.CategoryTypeExpense || c.Name == "" {
			continue
		}
		if c.ID != "" {
			set.byID[c.ID] = c.Name
		}
		if _, seen := set.byName[c.Name]; !seen {
			set.byName[c.Name] = c.ID
		}
	}
	return set
}

// Resolve returns the join key for a record's category reference and
// whether it names a live expense category. A record that carries an id is
// matched by id only: an id that no longer resolves points at a deleted or
// non-expense category, even if another category now has the same name.
func (s CategorySet) Resolve(categoryID *string, name string) (string, bool) {
	if categoryID != nil && *categoryID != "" {
		if _, ok := s.byID[*categoryID]; ok {
			return *categoryID, true
		}
		return "", false
	}
	if name == "" {
		return "", false
	}
	id, ok := s.byName[name]
	if !ok {
		return "", false
	}
	if id == "" {
		return name, true
	}
	return id, true
}

// DisplayName maps a join key back to the category name.
func (s CategorySet) DisplayName(key string) string {
	if name, ok := s.byID[key]; ok {
		return name
	}
	return key
}

// Len returns the number of distinct expense category names.
func (s CategorySet) Len() int {
	return len(s.byName)
}
