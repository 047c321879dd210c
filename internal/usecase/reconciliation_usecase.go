package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when a balance diverges from its log.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balance does not match the log")
)

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	state  *State
	ledger *LedgerUseCase
	clock  Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(state *State, ledger *LedgerUseCase, clock Clock) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		state:  state,
		ledger: ledger,
		clock:  clock,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountNumber     string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	Entries           int
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount replays the account's log and compares it with the stored balance
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountNumber string) (*ReconciliationResult, error) {
	account, ok := uc.state.Account(accountNumber)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	calculated := decimal.Zero
	entries := 0
	for e := range uc.ledger.History(HistoryFilter{AccountNumber: accountNumber}) {
		calculated = calculated.Add(e.Kind.Signed(e.Amount))
		entries++
	}

	difference := account.Balance.Sub(calculated)

	return &ReconciliationResult{
		AccountNumber:     accountNumber,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        difference,
		Entries:           entries,
		IsReconciled:      difference.IsZero(),
		LastChecked:       uc.clock.Now(),
	}, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	accounts := uc.state.Accounts()

	results := make([]*ReconciliationResult, 0, len(accounts))
	for _, account := range accounts {
		result, err := uc.ReconcileAccount(ctx, account.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.Number, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// CheckLedgerConsistency verifies every balance against the log
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	for e := range uc.state.Entries() {
		if e.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: entry %s has non-positive amount %s", ErrInconsistentLedger, e.ID, e.Amount)
		}
	}

	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.IsReconciled {
			return fmt.Errorf(
				"%w: account=%s recorded=%s calculated=%s difference=%s",
				ErrInconsistentLedger,
				r.AccountNumber,
				r.RecordedBalance.StringFixed(2),
				r.CalculatedBalance.StringFixed(2),
				r.Difference.StringFixed(2),
			)
		}
	}

	return nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	TotalEntries       int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	ledgerErr := uc.CheckLedgerConsistency(ctx)

	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		TotalEntries:     uc.state.EntryCount(),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        uc.clock.Now(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
