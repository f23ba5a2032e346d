package services

import (
	"context"
	"time"

	"github.com/finbooks/glcore/internal/core/domain"
	"github.com/finbooks/glcore/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade is the read-only account directory consumed by the
// journal and ledger services and exposed to handlers.
type AccountSvcFacade interface {
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, limit, offset int) ([]domain.Account, error)
}

// JournalSvcFacade is the journal lifecycle manager: the only component
// allowed to mutate journals and account balances.
type JournalSvcFacade interface {
	CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)
	PostJournal(ctx context.Context, companyID, journalID string, userID string) (*domain.Journal, error)
	ReverseJournal(ctx context.Context, companyID, journalID string, req dto.ReverseJournalRequest, userID string) (*domain.Journal, error)
	VoidJournal(ctx context.Context, companyID, journalID string, userID string) (*domain.Journal, error)
	GetJournalByID(ctx context.Context, companyID, journalID string) (*domain.Journal, error)
	ListJournals(ctx context.Context, companyID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// LedgerSvcFacade answers ledger and trial balance queries over posted
// journals.
type LedgerSvcFacade interface {
	GetLedger(ctx context.Context, companyID, accountID string, from, to *time.Time) (*domain.LedgerResult, error)
	GetTrialBalance(ctx context.Context, companyID string, from, to *time.Time) (*domain.TrialBalanceResult, error)
	GetAccountBalance(ctx context.Context, companyID, accountID string, asOf time.Time) (decimal.Decimal, error)
}

// ServiceContainer holds all service facades for route registration.
type ServiceContainer struct {
	Account AccountSvcFacade
	Journal JournalSvcFacade
	Ledger  LedgerSvcFacade
}
