package domain

import "time"

type FinanceType string

const (
	Income  FinanceType = "income"
	Expense FinanceType = "expense"
)

// FinanceEntry is a single income or expense transaction.
type FinanceEntry struct {
	ID          string
	UserID      string
	Type        FinanceType
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	Source      string
}

type BudgetType string

const (
	KindBudget  BudgetType = "budget"
	KindSavings BudgetType = "savings"
)

// Budget is either a spending budget or a savings goal, told apart by Type.
type Budget struct {
	ID            string
	UserID        string
	Name          string
	Type          BudgetType
	TargetAmount  float64
	CurrentAmount float64
	Period        string
	CreatedAt     time.Time
}

// Totals aggregates a set of finance entries.
type Totals struct {
	Income     float64
	Expense    float64
	SpentToday float64
}

// Balance is income minus expense.
func (t Totals) Balance() float64 {
	return t.Income - t.Expense
}

// SumEntries totals entries; today is a DateLayout day evaluated in loc.
func SumEntries(entries []FinanceEntry, today string, loc *time.Location) Totals {
	var out Totals
	for _, e := range entries {
		switch e.Type {
		case Income:
			out.Income += e.Amount
		case Expense:
			out.Expense += e.Amount
			if e.Date.In(loc).Format(DateLayout) == today {
				out.SpentToday += e.Amount
			}
		}
	}
	return out
}
