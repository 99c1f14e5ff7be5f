package core

// Stats is a derived summary over a set of transactions. It is recomputed on
// every query and never persisted.
//
// Savings treats money routed into the INVESTMENT macro category as saved
// rather than spent: savings = income - (expense - investment).
type Stats struct {
	TotalIncome      Money `json:"totalIncome"`
	TotalExpense     Money `json:"totalExpense"`
	Savings          Money `json:"savings"`
	InvestmentAmount Money `json:"investmentAmount"`

	// Rates are 0 when income is 0, never NaN.
	SavingsRate    float64 `json:"savingsRate"`
	InvestmentRate float64 `json:"investmentRate"`

	// CategoryBreakdown sums expenses per macro category, in cents. It always
	// carries the five expense macros, zero-valued when unused. Expenses with
	// an unrecognized macro count toward TotalExpense but land in no bucket.
	CategoryBreakdown map[MacroCategory]int64 `json:"categoryBreakdown"`

	// SpecificCategoryBreakdown sums expenses per category id, in cents.
	// Keys are absent when the sum is zero.
	SpecificCategoryBreakdown map[string]int64 `json:"specificCategoryBreakdown"`
}

// Aggregate folds transactions into a Stats value. The fold is a single pass
// and independent of input order. Transfers are record-keeping only: they
// contribute to no sum.
func Aggregate(transactions []Transaction) Stats {
	breakdown := make(map[MacroCategory]int64, 5)
	for _, m := range ExpenseMacroCategories() {
		breakdown[m] = 0
	}
	specific := make(map[string]int64)

	var income, expense, investment int64
	for _, t := range transactions {
		switch t.Type {
		case Income:
			income += t.Amount.Cents
		case Expense:
			expense += t.Amount.Cents
			if _, seeded := breakdown[t.Macro]; seeded {
				breakdown[t.Macro] += t.Amount.Cents
			}
			specific[t.CategoryID] += t.Amount.Cents
			if t.Macro == MacroInvestment {
				investment += t.Amount.Cents
			}
		}
	}

	consumption := expense - investment
	savings := income - consumption

	var savingsRate, investmentRate float64
	if income > 0 {
		savingsRate = float64(savings) / float64(income)
		investmentRate = float64(investment) / float64(income)
	}

	return Stats{
		TotalIncome:               Money{Cents: income},
		TotalExpense:              Money{Cents: expense},
		Savings:                   Money{Cents: savings},
		InvestmentAmount:          Money{Cents: investment},
		SavingsRate:               savingsRate,
		InvestmentRate:            investmentRate,
		CategoryBreakdown:         breakdown,
		SpecificCategoryBreakdown: specific,
	}
}
