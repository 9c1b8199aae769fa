package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type DebtStatus string

const (
	DebtStatusActive DebtStatus = "active"
	DebtStatusPaid   DebtStatus = "paid"
)

// Category labels stamped onto transactions the reconciler creates itself.
// Reconciliation is driven by the link fields, never by these strings.
const (
	DebtPaymentCategory = "Debt Payment"
	SavingsCategory     = "Savings"
)

type Period string

const (
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// Transaction is a single ledger entry. Expense entries may carry at most
// one link: to the debt they repay or to the goal they fund. Entries with
// IsRecurring set are templates and never enter totals or budget progress.
type Transaction struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	UserID       string          `gorm:"type:uuid;index;not null"`
	Kind         Kind            `gorm:"size:16;not null"`
	Description  string          `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Timestamp    time.Time       `gorm:"type:date;not null;index"`
	Category     string
	Source       string
	LinkedDebtID *string         `gorm:"type:uuid;index"`
	LinkedGoalID *string         `gorm:"type:uuid;index"`
	IsRecurring  bool            `gorm:"not null;default:false"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

// Debt tracks an amount owed. PaidAmount and Status are owned by the
// reconciler: they only ever change as a side effect of a linked
// transaction being created or deleted.
type Debt struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	UserID      string          `gorm:"type:uuid;index;not null"`
	Description string          `gorm:"not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaidAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status      DebtStatus      `gorm:"size:16;not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (d *Debt) Remaining() decimal.Decimal {
	return d.TotalAmount.Sub(d.PaidAmount)
}

// Goal is a savings target. CurrentAmount advances only through
// contributions and is rolled back when a contribution is deleted.
type Goal struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	UserID        string          `gorm:"type:uuid;index;not null"`
	Name          string          `gorm:"not null"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TargetDate    time.Time       `gorm:"type:date;not null"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
}

type ListFilter struct {
	From             *time.Time
	To               *time.Time
	IncludeRecurring bool
}

type TransactionInput struct {
	Kind         Kind
	Description  string
	Amount       decimal.Decimal
	Timestamp    time.Time
	Category     string
	Source       string
	LinkedDebtID string
	IsRecurring  bool
}

type CreateDebtInput struct {
	Description string
	TotalAmount decimal.Decimal
}

type CreateGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   time.Time
}

type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}
