package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/glcore/internal/core/domain"
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	portssvc "github.com/finbooks/glcore/internal/core/ports/services"
	"github.com/finbooks/glcore/internal/utils/accounting"
)

// ledgerService answers ledger and trial balance queries. It is strictly
// read-only: running balances are reconstructed from posted entries through
// the same Effect function posting uses, never re-derived ad hoc.
type ledgerService struct {
	BaseService
	accountSvc portssvc.AccountSvcFacade
	ledgerRepo portsrepo.LedgerRepository
}

// NewLedgerService creates a new ledger query service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository, accountSvc portssvc.AccountSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountSvc: accountSvc,
		ledgerRepo: ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetLedger reconstructs one account's chronological ledger within the date
// range. The opening balance is the cumulative effect of every posted entry
// strictly before the range; each returned entry carries the running balance
// immediately after it.
func (s *ledgerService) GetLedger(ctx context.Context, companyID, accountID string, from, to *time.Time) (*domain.LedgerResult, error) {
	logger := s.GetLogger(ctx)

	account, err := s.accountSvc.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	openingBalance := decimal.Zero
	if from != nil {
		debit, credit, err := s.ledgerRepo.SumAccountEntries(ctx, companyID, accountID, *from)
		if err != nil {
			logger.Error("Failed to compute opening balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to compute opening balance: %w", err)
		}
		// Effect is linear, so the effect of the sums equals the sum of the
		// per-entry effects.
		openingBalance, err = accounting.Effect(account.AccountType, debit, credit)
		if err != nil {
			return nil, fmt.Errorf("failed to compute opening balance: %w", err)
		}
	}

	rows, err := s.ledgerRepo.FindLedgerRows(ctx, companyID, accountID, from, to)
	if err != nil {
		logger.Error("Failed to fetch ledger rows", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}

	running := openingBalance
	for i := range rows {
		delta, err := accounting.Effect(account.AccountType, rows[i].Debit, rows[i].Credit)
		if err != nil {
			return nil, fmt.Errorf("failed to compute running balance: %w", err)
		}
		running = running.Add(delta)
		rows[i].RunningBalance = running
	}

	logger.Debug("Ledger reconstructed",
		slog.String("account_id", accountID),
		slog.Int("entry_count", len(rows)))
	return &domain.LedgerResult{
		Account:        *account,
		Entries:        rows,
		OpeningBalance: openingBalance,
		ClosingBalance: running,
	}, nil
}

// GetTrialBalance sums raw debits and credits per active account over posted
// journals in the range. Totals must balance for any history produced solely
// through this core; an imbalance indicates storage corruption.
func (s *ledgerService) GetTrialBalance(ctx context.Context, companyID string, from, to *time.Time) (*domain.TrialBalanceResult, error) {
	logger := s.GetLogger(ctx)

	lines, err := s.ledgerRepo.GetTrialBalanceData(ctx, companyID, from, to)
	if err != nil {
		logger.Error("Failed to fetch trial balance data", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	isBalanced := totalDebit.Equal(totalCredit)
	if !isBalanced {
		logger.Error("Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("total_debit", totalDebit.String()),
			slog.String("total_credit", totalCredit.String()))
	}

	return &domain.TrialBalanceResult{
		Accounts:    lines,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		IsBalanced:  isBalanced,
	}, nil
}

// GetAccountBalance returns the account's balance as of the given date. It
// is the ledger's closing balance with the range open at the start.
func (s *ledgerService) GetAccountBalance(ctx context.Context, companyID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	result, err := s.GetLedger(ctx, companyID, accountID, nil, &asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return result.ClosingBalance, nil
}
