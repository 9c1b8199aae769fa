package categories

import "time"

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Category is a user-managed pick-list entry. Transactions copy the name
// by value, so deleting a category never touches existing transactions;
// dangling names on old entries are expected.
type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Kind      Kind      `gorm:"size:16;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
