package reporting

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Threshold is the outcome of comparing a month's spend to its budget.
type Threshold struct {
	Spent       int64           `json:"spent"`
	Budget      int64           `json:"budget"`
	UsedPercent decimal.Decimal `json:"used_percent"`
	Limit       decimal.Decimal `json:"limit"`
	Reached     bool            `json:"reached"`
}

// CheckThreshold reports whether spent has reached limit percent of budget.
// A zero or negative budget never reaches the threshold. The comparison is
// exact; only UsedPercent is rounded for display.
func CheckThreshold(spent, budget int64, limit decimal.Decimal) Threshold {
	th := Threshold{
		Spent:       spent,
		Budget:      budget,
		UsedPercent: PercentOf(spent, budget),
		Limit:       limit,
	}
	if budget <= 0 {
		return th
	}
	used := decimal.NewFromInt(spent).Mul(hundred)
	th.Reached = used.GreaterThanOrEqual(limit.Mul(decimal.NewFromInt(budget)))
	return th
}

// PercentOf returns part as a percentage of whole rounded to two places, or
// zero when whole is not positive.
func PercentOf(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Round(2)
}
