package core

// DefaultCategories is the built-in category set used to seed an empty store
// on first access. Ids are disjoint and cover all three transaction types.
// Icon values are keys into the UI's icon registry.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Name: "Dining", Icon: "Utensils", Type: Expense, Macro: MacroDailyFood},
		{ID: "transport", Name: "Transport", Icon: "Bus", Type: Expense, Macro: MacroNecessary},
		{ID: "shopping", Name: "Shopping", Icon: "ShoppingBag", Type: Expense, Macro: MacroEnjoyment},
		{ID: "entertainment", Name: "Entertainment", Icon: "Gamepad2", Type: Expense, Macro: MacroEnjoyment},
		{ID: "medical", Name: "Medical", Icon: "Stethoscope", Type: Expense, Macro: MacroSurvival},
		{ID: "learning", Name: "Learning", Icon: "GraduationCap", Type: Expense, Macro: MacroInvestment},
		{ID: "rent", Name: "Rent", Icon: "Home", Type: Expense, Macro: MacroSurvival},
		{ID: "invest_product", Name: "Wealth Products", Icon: "TrendingUp", Type: Expense, Macro: MacroInvestment},

		{ID: "salary", Name: "Salary", Icon: "Briefcase", Type: Income, Macro: MacroIncome},
		{ID: "bonus", Name: "Bonus", Icon: "Banknote", Type: Income, Macro: MacroIncome},
		{ID: "invest_return", Name: "Investment Return", Icon: "TrendingUp", Type: Income, Macro: MacroIncome},
		{ID: "part_time", Name: "Part-time", Icon: "Wallet", Type: Income, Macro: MacroIncome},

		{ID: "transfer", Name: "Transfer", Icon: "HeartHandshake", Type: Transfer, Macro: MacroTransfer},
	}
}
