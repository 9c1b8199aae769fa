package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeTotals sums the given transactions by kind within the period.
// Pure: it must be safe to re-run on every snapshot the stores push.
// Recurring templates are skipped; they are not realized money movement.
func ComputeTotals(transactions []Transaction, period Period, now time.Time) Totals {
	totals := Totals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Balance:  decimal.Zero,
	}

	start := PeriodStart(period, now)
	for _, transaction := range transactions {
		if transaction.IsRecurring {
			continue
		}
		if start != nil && transaction.Timestamp.Before(*start) {
			continue
		}
		switch transaction.Kind {
		case KindIncome:
			totals.Income = totals.Income.Add(transaction.Amount)
		case KindExpense:
			totals.Expenses = totals.Expenses.Add(transaction.Amount)
		}
	}

	totals.Balance = totals.Income.Sub(totals.Expenses)
	return totals
}

// PeriodStart returns the inclusive lower bound for a period, or nil when
// the period spans all time.
func PeriodStart(period Period, now time.Time) *time.Time {
	if period != PeriodMonth {
		return nil
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return &start
}

// OutstandingDebt sums what is still owed across active debts.
func OutstandingDebt(debts []Debt) decimal.Decimal {
	total := decimal.Zero
	for _, debt := range debts {
		if debt.Status != DebtStatusActive {
			continue
		}
		total = total.Add(debt.Remaining())
	}
	return total
}
