package repositories

import (
	"context"
	"time"

	"github.com/finbooks/glcore/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the persistence operations for Accounts the
// ledger core needs. Account master data is managed elsewhere; this interface
// only reads accounts and moves balances under posting.
type AccountRepository interface {
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, limit, offset int) ([]domain.Account, error)

	// FindAccountsByIDsForUpdate locks the account rows for the duration of
	// the surrounding transaction. Must be called within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance deltas for multiple accounts
	// within the surrounding transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// JournalRepository defines the persistence operations for Journals and
// their entries. Saving a journal persists its entries atomically and
// assigns the next journal number for the tenant+date.
type JournalRepository interface {
	// SaveJournal inserts the journal and all of its entries as one unit and
	// returns the journal with its assigned JournalNo.
	SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.JournalEntry) (*domain.Journal, error)

	FindJournalByID(ctx context.Context, companyID, journalID string) (*domain.Journal, error)
	FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.JournalEntry, error)
	FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalEntry, error)
	FindJournalBySource(ctx context.Context, companyID, sourceType, sourceID string) (*domain.Journal, error)
	ListJournalsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error)

	// MarkJournalPosted flips a DRAFT journal to POSTED and applies the given
	// balance deltas, all within one transaction. Returns
	// apperrors.ErrConflict when the journal is no longer DRAFT.
	MarkJournalPosted(ctx context.Context, companyID, journalID string, balanceChanges map[string]decimal.Decimal, userID string, postedAt time.Time) error

	// MarkJournalVoid flips a DRAFT journal to VOID. Returns
	// apperrors.ErrConflict when the journal is no longer DRAFT.
	MarkJournalVoid(ctx context.Context, companyID, journalID string, userID string, now time.Time) error

	// SaveReversal inserts an already-POSTED reversing journal with its
	// entries, applies the balance deltas, and links the original to it, all
	// within one transaction. A failed reversal leaves no trace. Returns
	// apperrors.ErrConflict when the original is no longer an unreversed
	// POSTED journal.
	SaveReversal(ctx context.Context, originalJournalID string, reversal domain.Journal, entries []domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.Journal, error)
}

// LedgerRepository defines the read-side queries backing ledger and trial
// balance reconstruction. All queries consider POSTED journals only.
type LedgerRepository interface {
	// FindLedgerRows returns one row per posted entry for the account within
	// [from, to], ordered by journal date ascending with journal creation
	// order and line number as tie-breaks. RunningBalance is left zero; the
	// service computes it.
	FindLedgerRows(ctx context.Context, companyID, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error)

	// SumAccountEntries returns the raw debit and credit sums for the account
	// over posted journals dated strictly before the given date.
	SumAccountEntries(ctx context.Context, companyID, accountID string, before time.Time) (debit, credit decimal.Decimal, err error)

	// GetTrialBalanceData returns raw per-account debit/credit sums over
	// posted journals within [from, to], active accounts only, rows where
	// both sums are zero omitted.
	GetTrialBalanceData(ctx context.Context, companyID string, from, to *time.Time) ([]domain.TrialBalanceLine, error)
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo AccountRepository
	JournalRepo JournalRepository
	LedgerRepo  LedgerRepository
}
