package budgets

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
)

// Budget caps spending for one category in one month. The id is derived
// from (category, month), so saving the same pair twice is an overwrite,
// never a duplicate.
type Budget struct {
	ID           string          `gorm:"primaryKey"`
	UserID       string          `gorm:"type:uuid;primaryKey"`
	CategoryName string          `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Month        string          `gorm:"size:7;not null;index"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

type UpsertInput struct {
	CategoryName string
	Amount       decimal.Decimal
	Month        string
}

// Progress pairs a budget with its derived spend. Spent is never stored;
// it is recomputed from the transaction set on every read.
type Progress struct {
	Budget
	Spent decimal.Decimal `json:"spent"`
}

const monthLayout = "2006-01"

// BudgetID derives the deterministic document id for a (category, month)
// pair.
func BudgetID(categoryName, month string) string {
	category := strings.Join(strings.Fields(strings.TrimSpace(categoryName)), "-")
	return category + "-" + month
}

// ComputeProgress derives the spent figure for each budget: the sum of
// non-template expense transactions in the same category whose date falls
// in the budget's month. Overspend is a normal state, not an error.
func ComputeProgress(items []Budget, transactions []ledger.Transaction) []Progress {
	result := make([]Progress, 0, len(items))
	for _, budget := range items {
		spent := decimal.Zero
		for _, transaction := range transactions {
			if transaction.Kind != ledger.KindExpense || transaction.IsRecurring {
				continue
			}
			if transaction.Category != budget.CategoryName {
				continue
			}
			if transaction.Timestamp.Format(monthLayout) != budget.Month {
				continue
			}
			spent = spent.Add(transaction.Amount)
		}
		result = append(result, Progress{Budget: budget, Spent: spent})
	}
	return result
}
