package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense  TransactionType = "EXPENSE"
	Income   TransactionType = "INCOME"
	Transfer TransactionType = "TRANSFER"
)

const (
	MacroSurvival   MacroCategory = "SURVIVAL"
	MacroDailyFood  MacroCategory = "DAILY_FOOD"
	MacroEnjoyment  MacroCategory = "ENJOYMENT"
	MacroNecessary  MacroCategory = "NECESSARY"
	MacroInvestment MacroCategory = "INVESTMENT"
	MacroIncome     MacroCategory = "INCOME"
	MacroTransfer   MacroCategory = "TRANSFER"
)

type (
	TransactionType string

	MacroCategory string

	// Transaction is an immutable record of one money movement.
	// CategoryName and Macro are frozen copies of the owning category
	// taken at creation time; they never follow later category edits
	// or deletions.
	Transaction struct {
		ID           string          `json:"id"`
		Amount       Money           `json:"amount"`
		Type         TransactionType `json:"type"`
		CategoryID   string          `json:"categoryId"`
		CategoryName string          `json:"categoryName"`
		Macro        MacroCategory   `json:"macroCategory"`
		Note         string          `json:"note,omitempty"`
		Date         time.Time       `json:"date"`
	}

	// Category is a user-defined or built-in classification. Icon is an
	// opaque key into the UI's icon registry.
	Category struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Icon  string          `json:"icon"`
		Type  TransactionType `json:"type"`
		Macro MacroCategory   `json:"macroCategory"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidMacro  = errors.New("invalid macro category")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyID       = errors.New("empty id")
	ErrEmptyName     = errors.New("empty name")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Expense, Income, Transfer:
		return true
	}
	return false
}

func (m MacroCategory) Valid() bool {
	switch m {
	case MacroSurvival, MacroDailyFood, MacroEnjoyment, MacroNecessary,
		MacroInvestment, MacroIncome, MacroTransfer:
		return true
	}
	return false
}

// ExpenseMacroCategories returns the macro categories that participate in the
// expense breakdown, in the fixed order the breakdown is seeded with.
func ExpenseMacroCategories() []MacroCategory {
	return []MacroCategory{
		MacroSurvival,
		MacroDailyFood,
		MacroEnjoyment,
		MacroNecessary,
		MacroInvestment,
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Macro.Valid() {
		return ErrInvalidMacro
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	if !c.Macro.Valid() {
		return ErrInvalidMacro
	}
	return nil
}
