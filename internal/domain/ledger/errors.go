package ledger

import "errors"

var (
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrDebtNotFound               = errors.New("debt not found")
	ErrGoalNotFound               = errors.New("goal not found")
	ErrLinkedTransactionImmutable = errors.New("linked transaction cannot be edited")
	ErrDebtHasPayments            = errors.New("debt has recorded payments")
	ErrGoalHasContributions       = errors.New("goal has recorded contributions")
	ErrPaymentExceedsDebt         = errors.New("payment exceeds remaining debt")
)
