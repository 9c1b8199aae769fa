package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const (
	debtID1 = "11111111-1111-1111-1111-111111111111"
	goalID1 = "22222222-2222-2222-2222-222222222222"
)

var errRepoBroken = errors.New("repo broken")

// The watch tests read from a background goroutine, so the fake guards its
// maps with a mutex.
type fakeLedgerRepo struct {
	mu           sync.Mutex
	transactions map[string]*Transaction
	debts        map[string]*Debt
	goals        map[string]*Goal

	failCreateTransaction bool
	failUpdateDebt        bool
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		transactions: make(map[string]*Transaction),
		debts:        make(map[string]*Debt),
		goals:        make(map[string]*Goal),
	}
}

// Transaction snapshots the maps and restores them when fn fails, so the
// fake honors the same all-or-nothing contract as the real store.
func (r *fakeLedgerRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	r.mu.Lock()
	transactions := cloneEntities(r.transactions)
	debts := cloneEntities(r.debts)
	goals := cloneEntities(r.goals)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.transactions = transactions
		r.debts = debts
		r.goals = goals
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeLedgerRepo) ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]Transaction, 0)
	for _, transaction := range r.transactions {
		if transaction.UserID != userID {
			continue
		}
		if filter.From != nil && transaction.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && transaction.Timestamp.After(*filter.To) {
			continue
		}
		if !filter.IncludeRecurring && transaction.IsRecurring {
			continue
		}
		items = append(items, *transaction)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *fakeLedgerRepo) GetTransactionByID(ctx context.Context, userID, transactionID string) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[transactionID]
	if !ok || transaction.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	copied := *transaction
	return &copied, nil
}

func (r *fakeLedgerRepo) CreateTransaction(ctx context.Context, transaction *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreateTransaction {
		return errRepoBroken
	}
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) UpdateTransaction(ctx context.Context, transaction *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transactions[transaction.ID]; !ok {
		return ErrTransactionNotFound
	}
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[transactionID]
	if !ok || transaction.UserID != userID {
		return false, nil
	}
	delete(r.transactions, transactionID)
	return true, nil
}

func (r *fakeLedgerRepo) CountTransactionsByDebtID(ctx context.Context, userID, debtID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, transaction := range r.transactions {
		if transaction.UserID == userID && transaction.LinkedDebtID != nil && *transaction.LinkedDebtID == debtID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLedgerRepo) CountTransactionsByGoalID(ctx context.Context, userID, goalID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, transaction := range r.transactions {
		if transaction.UserID == userID && transaction.LinkedGoalID != nil && *transaction.LinkedGoalID == goalID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLedgerRepo) ListDebts(ctx context.Context, userID string) ([]Debt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]Debt, 0)
	for _, debt := range r.debts {
		if debt.UserID == userID {
			items = append(items, *debt)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *fakeLedgerRepo) GetDebtByID(ctx context.Context, userID, debtID string) (*Debt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	debt, ok := r.debts[debtID]
	if !ok || debt.UserID != userID {
		return nil, ErrDebtNotFound
	}
	copied := *debt
	return &copied, nil
}

func (r *fakeLedgerRepo) CreateDebt(ctx context.Context, debt *Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *debt
	r.debts[debt.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) UpdateDebt(ctx context.Context, debt *Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failUpdateDebt {
		return errRepoBroken
	}
	if _, ok := r.debts[debt.ID]; !ok {
		return ErrDebtNotFound
	}
	copied := *debt
	r.debts[debt.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) DeleteDebt(ctx context.Context, userID, debtID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	debt, ok := r.debts[debtID]
	if !ok || debt.UserID != userID {
		return false, nil
	}
	delete(r.debts, debtID)
	return true, nil
}

func (r *fakeLedgerRepo) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]Goal, 0)
	for _, goal := range r.goals {
		if goal.UserID == userID {
			items = append(items, *goal)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *fakeLedgerRepo) GetGoalByID(ctx context.Context, userID, goalID string) (*Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goal, ok := r.goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, ErrGoalNotFound
	}
	copied := *goal
	return &copied, nil
}

func (r *fakeLedgerRepo) CreateGoal(ctx context.Context, goal *Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *goal
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) UpdateGoal(ctx context.Context, goal *Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goals[goal.ID]; !ok {
		return ErrGoalNotFound
	}
	copied := *goal
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) DeleteGoal(ctx context.Context, userID, goalID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goal, ok := r.goals[goalID]
	if !ok || goal.UserID != userID {
		return false, nil
	}
	delete(r.goals, goalID)
	return true, nil
}

func cloneEntities[T any](src map[string]*T) map[string]*T {
	dst := make(map[string]*T, len(src))
	for key, value := range src {
		copied := *value
		dst[key] = &copied
	}
	return dst
}

func dec(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func seedDebt(repo *fakeLedgerRepo, total, paid string, status DebtStatus) {
	repo.debts[debtID1] = &Debt{
		ID:          debtID1,
		UserID:      "user-1",
		Description: "Car loan",
		TotalAmount: dec(total),
		PaidAmount:  dec(paid),
		Status:      status,
	}
}

func seedGoal(repo *fakeLedgerRepo, target, current string) {
	repo.goals[goalID1] = &Goal{
		ID:            goalID1,
		UserID:        "user-1",
		Name:          "Vacation",
		TargetAmount:  dec(target),
		CurrentAmount: dec(current),
		TargetDate:    time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecordTransactionIncome(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewService(repo)

	created, err := svc.RecordTransaction(context.Background(), "user-1", TransactionInput{
		Kind:        KindIncome,
		Description: "Salary",
		Amount:      dec("2500"),
		Timestamp:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Source:      "Employer",
	}, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Source != "Employer" || created.Category != "" {
		t.Fatalf("expected income fields, got %+v", created)
	}
	if repo.transactions[created.ID] == nil {
		t.Fatalf("transaction not stored")
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewService(repo)

	cases := []struct {
		name  string
		input TransactionInput
	}{
		{"bad kind", TransactionInput{Kind: "transfer", Description: "x", Amount: dec("1"), Timestamp: time.Now()}},
		{"zero amount", TransactionInput{Kind: KindExpense, Description: "x", Amount: decimal.Zero, Timestamp: time.Now(), Category: "Food"}},
		{"negative amount", TransactionInput{Kind: KindExpense, Description: "x", Amount: dec("-5"), Timestamp: time.Now(), Category: "Food"}},
		{"expense without category", TransactionInput{Kind: KindExpense, Description: "x", Amount: dec("5"), Timestamp: time.Now()}},
		{"income without source", TransactionInput{Kind: KindIncome, Description: "x", Amount: dec("5"), Timestamp: time.Now()}},
		{"recurring debt link", TransactionInput{Kind: KindExpense, Description: "x", Amount: dec("5"), Timestamp: time.Now(), LinkedDebtID: debtID1, IsRecurring: true}},
		{"income debt link", TransactionInput{Kind: KindIncome, Description: "x", Amount: dec("5"), Timestamp: time.Now(), Source: "y", LinkedDebtID: debtID1}},
	}
	for _, tc := range cases {
		if _, err := svc.RecordTransaction(context.Background(), "user-1", tc.input, ""); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(repo.transactions))
	}
}

func TestRecordLinkedExpenseAdvancesDebt(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "0", DebtStatusActive)
	svc := NewService(repo)

	created, err := svc.RecordTransaction(context.Background(), "user-1", TransactionInput{
		Kind:         KindExpense,
		Description:  "Monthly payment",
		Amount:       dec("40"),
		Timestamp:    time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		LinkedDebtID: debtID1,
	}, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Category != DebtPaymentCategory {
		t.Fatalf("expected forced category, got %q", created.Category)
	}
	if created.LinkedDebtID == nil || *created.LinkedDebtID != debtID1 {
		t.Fatalf("expected debt link, got %+v", created.LinkedDebtID)
	}

	debt := repo.debts[debtID1]
	if !debt.PaidAmount.Equal(dec("40")) {
		t.Fatalf("expected paid 40, got %s", debt.PaidAmount)
	}
	if debt.Status != DebtStatusActive {
		t.Fatalf("expected active, got %s", debt.Status)
	}
}

func TestRecordLinkedExpenseSettlesDebt(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "60", DebtStatusActive)
	svc := NewService(repo)

	_, err := svc.RecordTransaction(context.Background(), "user-1", TransactionInput{
		Kind:         KindExpense,
		Description:  "Final payment",
		Amount:       dec("40"),
		Timestamp:    time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		LinkedDebtID: debtID1,
	}, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.debts[debtID1].Status != DebtStatusPaid {
		t.Fatalf("expected paid status, got %s", repo.debts[debtID1].Status)
	}
}

func TestRecordLinkedExpenseDebtMissing(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewService(repo)

	_, err := svc.RecordTransaction(context.Background(), "user-1", TransactionInput{
		Kind:         KindExpense,
		Description:  "Payment",
		Amount:       dec("40"),
		Timestamp:    time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		LinkedDebtID: debtID1,
	}, "")
	if !errors.Is(err, ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound, got %v", err)
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("expected no transaction stored")
	}
}

func TestRecordLinkedExpenseRollsBackOnFailure(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "0", DebtStatusActive)
	repo.failCreateTransaction = true
	svc := NewService(repo)

	_, err := svc.RecordTransaction(context.Background(), "user-1", TransactionInput{
		Kind:         KindExpense,
		Description:  "Payment",
		Amount:       dec("40"),
		Timestamp:    time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		LinkedDebtID: debtID1,
	}, "")
	if !errors.Is(err, errRepoBroken) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if !repo.debts[debtID1].PaidAmount.IsZero() {
		t.Fatalf("expected debt untouched, got paid %s", repo.debts[debtID1].PaidAmount)
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("expected no transaction stored")
	}
}

func TestEditTransactionOverwrites(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.transactions["tx-1"] = &Transaction{
		ID:          "tx-1",
		UserID:      "user-1",
		Kind:        KindExpense,
		Description: "Groceries",
		Amount:      dec("30"),
		Timestamp:   time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Category:    "Food",
	}
	svc := NewService(repo)

	updated, err := svc.RecordTransaction(context.Background(), "user-1", TransactionInput{
		Kind:        KindIncome,
		Description: "Refund",
		Amount:      dec("30"),
		Timestamp:   time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		Source:      "Store",
	}, "tx-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Kind != KindIncome || updated.Source != "Store" {
		t.Fatalf("expected overwritten fields, got %+v", updated)
	}
	if updated.Category != "" {
		t.Fatalf("expected category cleared on kind switch, got %q", updated.Category)
	}
	if len(repo.transactions) != 1 {
		t.Fatalf("expected overwrite, not a second entry")
	}
}

func TestEditLinkedTransactionRejected(t *testing.T) {
	repo := newFakeLedgerRepo()
	linked := debtID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Description:  "PAYMENT: CAR LOAN",
		Amount:       dec("40"),
		Timestamp:    time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Category:     DebtPaymentCategory,
		LinkedDebtID: &linked,
	}
	svc := NewService(repo)

	_, err := svc.RecordTransaction(context.Background(), "user-1", TransactionInput{
		Kind:        KindExpense,
		Description: "Edited",
		Amount:      dec("10"),
		Timestamp:   time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		Category:    "Food",
	}, "tx-1")
	if !errors.Is(err, ErrLinkedTransactionImmutable) {
		t.Fatalf("expected ErrLinkedTransactionImmutable, got %v", err)
	}
	if repo.transactions["tx-1"].Description != "PAYMENT: CAR LOAN" {
		t.Fatalf("expected transaction untouched")
	}
}

func TestDeletePaymentReversesDebt(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "100", DebtStatusPaid)
	linked := debtID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("40"),
		Category:     DebtPaymentCategory,
		LinkedDebtID: &linked,
	}
	svc := NewService(repo)

	if err := svc.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	debt := repo.debts[debtID1]
	if !debt.PaidAmount.Equal(dec("60")) {
		t.Fatalf("expected paid 60, got %s", debt.PaidAmount)
	}
	if debt.Status != DebtStatusActive {
		t.Fatalf("expected debt reopened, got %s", debt.Status)
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("expected transaction removed")
	}
}

func TestDeletePaymentFloorsAtZero(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "10", DebtStatusActive)
	linked := debtID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("40"),
		LinkedDebtID: &linked,
	}
	svc := NewService(repo)

	if err := svc.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.debts[debtID1].PaidAmount.IsZero() {
		t.Fatalf("expected paid floored at zero, got %s", repo.debts[debtID1].PaidAmount)
	}
}

func TestDeleteTransactionDanglingDebtLink(t *testing.T) {
	repo := newFakeLedgerRepo()
	linked := debtID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("40"),
		LinkedDebtID: &linked,
	}
	svc := NewService(repo)

	if err := svc.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("expected dangling link tolerated, got %v", err)
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("expected transaction removed")
	}
}

func TestDeleteTransactionRollsBackOnFailure(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "40", DebtStatusActive)
	linked := debtID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("40"),
		LinkedDebtID: &linked,
	}
	repo.failUpdateDebt = true
	svc := NewService(repo)

	if err := svc.DeleteTransaction(context.Background(), "user-1", "tx-1"); !errors.Is(err, errRepoBroken) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if repo.transactions["tx-1"] == nil {
		t.Fatalf("expected transaction kept on rollback")
	}
	if !repo.debts[debtID1].PaidAmount.Equal(dec("40")) {
		t.Fatalf("expected debt untouched, got %s", repo.debts[debtID1].PaidAmount)
	}
}

func TestRecordDebtPayment(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "60", DebtStatusActive)
	svc := NewService(repo)

	created, err := svc.RecordDebtPayment(context.Background(), "user-1", debtID1, dec("40"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Description != "PAYMENT: CAR LOAN" {
		t.Fatalf("expected uppercased description, got %q", created.Description)
	}
	if created.Category != DebtPaymentCategory {
		t.Fatalf("expected payment category, got %q", created.Category)
	}
	if repo.debts[debtID1].Status != DebtStatusPaid {
		t.Fatalf("expected debt settled")
	}
}

func TestRecordDebtPaymentExceedsRemaining(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "80", DebtStatusActive)
	svc := NewService(repo)

	_, err := svc.RecordDebtPayment(context.Background(), "user-1", debtID1, dec("30"))
	if !errors.Is(err, ErrPaymentExceedsDebt) {
		t.Fatalf("expected ErrPaymentExceedsDebt, got %v", err)
	}
	if !repo.debts[debtID1].PaidAmount.Equal(dec("80")) {
		t.Fatalf("expected debt untouched, got %s", repo.debts[debtID1].PaidAmount)
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("expected no transaction stored")
	}
}

func TestRecordDebtPaymentRejectsNonPositive(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "0", DebtStatusActive)
	svc := NewService(repo)

	if _, err := svc.RecordDebtPayment(context.Background(), "user-1", debtID1, decimal.Zero); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, err := svc.RecordDebtPayment(context.Background(), "user-1", debtID1, dec("-5")); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestContributeToGoal(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedGoal(repo, "1000", "100")
	svc := NewService(repo)

	updated, err := svc.ContributeToGoal(context.Background(), "user-1", goalID1, dec("50"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.CurrentAmount.Equal(dec("150")) {
		t.Fatalf("expected current 150, got %s", updated.CurrentAmount)
	}

	if len(repo.transactions) != 1 {
		t.Fatalf("expected contribution transaction stored")
	}
	for _, transaction := range repo.transactions {
		if transaction.Category != SavingsCategory {
			t.Fatalf("expected savings category, got %q", transaction.Category)
		}
		if transaction.Description != "CONTRIBUTION: VACATION" {
			t.Fatalf("expected uppercased description, got %q", transaction.Description)
		}
		if transaction.LinkedGoalID == nil || *transaction.LinkedGoalID != goalID1 {
			t.Fatalf("expected goal link, got %+v", transaction.LinkedGoalID)
		}
	}
}

func TestDeleteContributionReversesGoal(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedGoal(repo, "1000", "150")
	linked := goalID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("50"),
		Category:     SavingsCategory,
		LinkedGoalID: &linked,
	}
	svc := NewService(repo)

	if err := svc.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.goals[goalID1].CurrentAmount.Equal(dec("100")) {
		t.Fatalf("expected current 100, got %s", repo.goals[goalID1].CurrentAmount)
	}
}

func TestDeleteContributionFloorsAtZero(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedGoal(repo, "1000", "20")
	linked := goalID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("50"),
		LinkedGoalID: &linked,
	}
	svc := NewService(repo)

	if err := svc.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.goals[goalID1].CurrentAmount.IsZero() {
		t.Fatalf("expected current floored at zero, got %s", repo.goals[goalID1].CurrentAmount)
	}
}

func TestDeleteDebtGuardedByPayments(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedDebt(repo, "100", "40", DebtStatusActive)
	linked := debtID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("40"),
		LinkedDebtID: &linked,
	}
	svc := NewService(repo)

	if err := svc.DeleteDebt(context.Background(), "user-1", debtID1); !errors.Is(err, ErrDebtHasPayments) {
		t.Fatalf("expected ErrDebtHasPayments, got %v", err)
	}
	if repo.debts[debtID1] == nil {
		t.Fatalf("expected debt kept")
	}

	if err := svc.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.DeleteDebt(context.Background(), "user-1", debtID1); err != nil {
		t.Fatalf("expected delete after payment removed, got %v", err)
	}
}

func TestDeleteGoalGuardedByContributions(t *testing.T) {
	repo := newFakeLedgerRepo()
	seedGoal(repo, "1000", "50")
	linked := goalID1
	repo.transactions["tx-1"] = &Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		Kind:         KindExpense,
		Amount:       dec("50"),
		LinkedGoalID: &linked,
	}
	svc := NewService(repo)

	if err := svc.DeleteGoal(context.Background(), "user-1", goalID1); !errors.Is(err, ErrGoalHasContributions) {
		t.Fatalf("expected ErrGoalHasContributions, got %v", err)
	}
}

func TestDeleteDebtNotFound(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewService(repo)
	if err := svc.DeleteDebt(context.Background(), "user-1", debtID1); !errors.Is(err, ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound, got %v", err)
	}
}

func TestCreateDebtDefaults(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewService(repo)

	created, err := svc.CreateDebt(context.Background(), "user-1", CreateDebtInput{
		Description: "Car loan",
		TotalAmount: dec("100"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !created.PaidAmount.IsZero() || created.Status != DebtStatusActive {
		t.Fatalf("expected fresh debt defaults, got %+v", created)
	}
}

func TestCreateGoalDefaults(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewService(repo)

	created, err := svc.CreateGoal(context.Background(), "user-1", CreateGoalInput{
		Name:         "Vacation",
		TargetAmount: dec("1000"),
		TargetDate:   time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !created.CurrentAmount.IsZero() {
		t.Fatalf("expected current zero, got %s", created.CurrentAmount)
	}
}

func TestTotalsSkipsRecurring(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.transactions["tx-1"] = &Transaction{ID: "tx-1", UserID: "user-1", Kind: KindIncome, Amount: dec("100"), Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	repo.transactions["tx-2"] = &Transaction{ID: "tx-2", UserID: "user-1", Kind: KindExpense, Amount: dec("30"), Timestamp: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)}
	repo.transactions["tx-3"] = &Transaction{ID: "tx-3", UserID: "user-1", Kind: KindExpense, Amount: dec("999"), Timestamp: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), IsRecurring: true}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC) }

	totals, err := svc.Totals(context.Background(), "user-1", PeriodAll)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !totals.Income.Equal(dec("100")) || !totals.Expenses.Equal(dec("30")) || !totals.Balance.Equal(dec("70")) {
		t.Fatalf("unexpected totals %+v", totals)
	}
}
