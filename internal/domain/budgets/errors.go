package budgets

import "errors"

var ErrBudgetNotFound = errors.New("budget not found")
