package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	feed *Feed
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		feed: NewFeed(),
		now:  time.Now,
	}
}

// RecordTransaction creates a transaction, or overwrites an existing one
// when editingID is given. A new expense linked to a debt also advances the
// debt's paid amount; both writes commit in one repository transaction.
// Transactions carrying a debt or goal link are immutable: they can only be
// deleted and recreated.
func (s *Service) RecordTransaction(ctx context.Context, userID string, input TransactionInput, editingID string) (*Transaction, error) {
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}

	if editingID != "" {
		return s.overwriteTransaction(ctx, userID, input, editingID)
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	transaction := Transaction{
		ID:          id,
		UserID:      userID,
		Kind:        input.Kind,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Timestamp:   input.Timestamp,
		IsRecurring: input.IsRecurring,
	}
	switch input.Kind {
	case KindExpense:
		transaction.Category = strings.TrimSpace(input.Category)
	case KindIncome:
		transaction.Source = strings.TrimSpace(input.Source)
	}

	if debtID := strings.TrimSpace(input.LinkedDebtID); debtID != "" {
		transaction.LinkedDebtID = &debtID
		transaction.Category = DebtPaymentCategory
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if transaction.LinkedDebtID != nil {
			debt, err := tx.GetDebtByID(ctx, userID, *transaction.LinkedDebtID)
			if err != nil {
				return err
			}
			applyPayment(debt, transaction.Amount)
			if err := tx.UpdateDebt(ctx, debt); err != nil {
				return err
			}
		}
		return tx.CreateTransaction(ctx, &transaction)
	})
	if err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &transaction, nil
}

func (s *Service) overwriteTransaction(ctx context.Context, userID string, input TransactionInput, transactionID string) (*Transaction, error) {
	var updated Transaction
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetTransactionByID(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if existing.LinkedDebtID != nil || existing.LinkedGoalID != nil {
			return ErrLinkedTransactionImmutable
		}

		existing.Kind = input.Kind
		existing.Description = strings.TrimSpace(input.Description)
		existing.Amount = input.Amount
		existing.Timestamp = input.Timestamp
		existing.IsRecurring = input.IsRecurring
		existing.Category = ""
		existing.Source = ""
		switch input.Kind {
		case KindExpense:
			existing.Category = strings.TrimSpace(input.Category)
		case KindIncome:
			existing.Source = strings.TrimSpace(input.Source)
		}
		existing.UpdatedAt = s.now().UTC()

		if err := tx.UpdateTransaction(ctx, existing); err != nil {
			return err
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &updated, nil
}

// DeleteTransaction removes a transaction and reverses its side effects: a
// debt payment is subtracted from the debt (floored at zero, debt reopened)
// and a goal contribution is subtracted from the goal. Reversal and delete
// commit together. A dangling link is tolerated: the transaction is still
// removed.
func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		transaction, err := tx.GetTransactionByID(ctx, userID, transactionID)
		if err != nil {
			return err
		}

		if transaction.LinkedDebtID != nil {
			debt, err := tx.GetDebtByID(ctx, userID, *transaction.LinkedDebtID)
			switch {
			case err == nil:
				reversePayment(debt, transaction.Amount)
				if err := tx.UpdateDebt(ctx, debt); err != nil {
					return err
				}
			case !errors.Is(err, ErrDebtNotFound):
				return err
			}
		}

		if transaction.LinkedGoalID != nil {
			goal, err := tx.GetGoalByID(ctx, userID, *transaction.LinkedGoalID)
			switch {
			case err == nil:
				goal.CurrentAmount = floorZero(goal.CurrentAmount.Sub(transaction.Amount))
				if err := tx.UpdateGoal(ctx, goal); err != nil {
					return err
				}
			case !errors.Is(err, ErrGoalNotFound):
				return err
			}
		}

		deleted, err := tx.DeleteTransaction(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrTransactionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.feed.Notify()
	return nil
}

// RecordDebtPayment is the "make a payment" shortcut. The amount must not
// exceed what is still owed; the range check runs before anything is
// written.
func (s *Service) RecordDebtPayment(ctx context.Context, userID, debtID string, amount decimal.Decimal) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	var created Transaction
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		debt, err := tx.GetDebtByID(ctx, userID, debtID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(debt.Remaining()) {
			return ErrPaymentExceedsDebt
		}

		linkedDebtID := debt.ID
		created = Transaction{
			ID:           id,
			UserID:       userID,
			Kind:         KindExpense,
			Description:  strings.ToUpper("Payment: " + debt.Description),
			Amount:       amount,
			Timestamp:    s.now().UTC(),
			Category:     DebtPaymentCategory,
			LinkedDebtID: &linkedDebtID,
		}

		applyPayment(debt, amount)
		if err := tx.UpdateDebt(ctx, debt); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &created, nil
}

// ContributeToGoal advances a goal and records the matching expense
// transaction as one atomic action. The transaction keeps a reference to
// the goal so that deleting it rolls the goal back again.
func (s *Service) ContributeToGoal(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	var updated Goal
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := tx.GetGoalByID(ctx, userID, goalID)
		if err != nil {
			return err
		}

		linkedGoalID := goal.ID
		contribution := Transaction{
			ID:           id,
			UserID:       userID,
			Kind:         KindExpense,
			Description:  strings.ToUpper("Contribution: " + goal.Name),
			Amount:       amount,
			Timestamp:    s.now().UTC(),
			Category:     SavingsCategory,
			LinkedGoalID: &linkedGoalID,
		}
		if err := tx.CreateTransaction(ctx, &contribution); err != nil {
			return err
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		if err := tx.UpdateGoal(ctx, goal); err != nil {
			return err
		}
		updated = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &updated, nil
}

func (s *Service) CreateDebt(ctx context.Context, userID string, input CreateDebtInput) (*Debt, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	if !input.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("total amount must be positive")
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	debt := Debt{
		ID:          id,
		UserID:      userID,
		Description: strings.TrimSpace(input.Description),
		TotalAmount: input.TotalAmount,
		PaidAmount:  decimal.Zero,
		Status:      DebtStatusActive,
	}
	if err := s.repo.CreateDebt(ctx, &debt); err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &debt, nil
}

// DeleteDebt refuses to remove a debt that still has payments recorded
// against it. Payment history is never destroyed by a cascade.
func (s *Service) DeleteDebt(ctx context.Context, userID, debtID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.CountTransactionsByDebtID(ctx, userID, debtID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDebtHasPayments
		}

		deleted, err := tx.DeleteDebt(ctx, userID, debtID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrDebtNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.feed.Notify()
	return nil
}

func (s *Service) CreateGoal(ctx context.Context, userID string, input CreateGoalInput) (*Goal, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !input.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("target amount must be positive")
	}
	if input.TargetDate.IsZero() {
		return nil, fmt.Errorf("target date is required")
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	goal := Goal{
		ID:            id,
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    input.TargetDate,
	}
	if err := s.repo.CreateGoal(ctx, &goal); err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &goal, nil
}

// DeleteGoal mirrors DeleteDebt: contributions reference the goal, so the
// goal cannot be removed while any of them remain.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.CountTransactionsByGoalID(ctx, userID, goalID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrGoalHasContributions
		}

		deleted, err := tx.DeleteGoal(ctx, userID, goalID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrGoalNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.feed.Notify()
	return nil
}

func (s *Service) ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

func (s *Service) ListDebts(ctx context.Context, userID string) ([]Debt, error) {
	return s.repo.ListDebts(ctx, userID)
}

func (s *Service) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

// Totals re-derives the period summary from the current transaction set on
// every call. Nothing is cached.
func (s *Service) Totals(ctx context.Context, userID string, period Period) (Totals, error) {
	transactions, err := s.repo.ListTransactions(ctx, userID, ListFilter{})
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(transactions, period, s.now()), nil
}

func validateTransactionInput(input TransactionInput) error {
	if input.Kind != KindIncome && input.Kind != KindExpense {
		return fmt.Errorf("kind must be income or expense")
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if !input.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if input.Timestamp.IsZero() {
		return fmt.Errorf("date is required")
	}
	if input.LinkedDebtID != "" {
		if input.Kind != KindExpense {
			return fmt.Errorf("only an expense can reference a debt")
		}
		if input.IsRecurring {
			return fmt.Errorf("a recurring template cannot reference a debt")
		}
	}
	if input.Kind == KindExpense && input.LinkedDebtID == "" && strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if input.Kind == KindIncome && strings.TrimSpace(input.Source) == "" {
		return fmt.Errorf("source is required")
	}
	return nil
}

func applyPayment(debt *Debt, amount decimal.Decimal) {
	debt.PaidAmount = debt.PaidAmount.Add(amount)
	if debt.PaidAmount.GreaterThanOrEqual(debt.TotalAmount) {
		debt.Status = DebtStatusPaid
	} else {
		debt.Status = DebtStatusActive
	}
}

// reversePayment is the inverse of applyPayment except for the floors:
// the paid amount never goes below zero and removing a payment can never
// leave a debt marked paid.
func reversePayment(debt *Debt, amount decimal.Decimal) {
	debt.PaidAmount = floorZero(debt.PaidAmount.Sub(amount))
	debt.Status = DebtStatusActive
}

func floorZero(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
