package dto

import (
	"time"

	"github.com/finbooks/glcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse is one row of an account ledger statement.
type LedgerEntryResponse struct {
	Date           time.Time       `json:"date"`
	JournalID      string          `json:"journalID"`
	JournalNo      string          `json:"journalNo"`
	Description    string          `json:"description"`
	ReferenceNo    string          `json:"referenceNo,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerResponse is the full ledger statement for one account.
type LedgerResponse struct {
	Account        AccountResponse       `json:"account"`
	OpeningBalance decimal.Decimal       `json:"openingBalance"`
	Entries        []LedgerEntryResponse `json:"entries"`
	ClosingBalance decimal.Decimal       `json:"closingBalance"`
}

// BalanceResponse is a single account balance as of a date.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// TrialBalanceLineResponse is one account row of a trial balance.
type TrialBalanceLineResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse is the trial balance report.
type TrialBalanceResponse struct {
	Accounts    []TrialBalanceLineResponse `json:"accounts"`
	TotalDebit  decimal.Decimal            `json:"totalDebit"`
	TotalCredit decimal.Decimal            `json:"totalCredit"`
	IsBalanced  bool                       `json:"isBalanced"`
}

// ToLedgerResponse converts a domain.LedgerResult to LedgerResponse.
func ToLedgerResponse(r *domain.LedgerResult) LedgerResponse {
	entries := make([]LedgerEntryResponse, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = LedgerEntryResponse{
			Date:           e.Date,
			JournalID:      e.JournalID,
			JournalNo:      e.JournalNo,
			Description:    e.Description,
			ReferenceNo:    e.ReferenceNo,
			Debit:          e.Debit,
			Credit:         e.Credit,
			RunningBalance: e.RunningBalance,
		}
	}
	return LedgerResponse{
		Account:        ToAccountResponse(&r.Account),
		OpeningBalance: r.OpeningBalance,
		Entries:        entries,
		ClosingBalance: r.ClosingBalance,
	}
}

// ToTrialBalanceResponse converts a domain.TrialBalanceResult to TrialBalanceResponse.
func ToTrialBalanceResponse(r *domain.TrialBalanceResult) TrialBalanceResponse {
	lines := make([]TrialBalanceLineResponse, len(r.Accounts))
	for i, l := range r.Accounts {
		lines[i] = TrialBalanceLineResponse{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			AccountType: string(l.AccountType),
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	return TrialBalanceResponse{
		Accounts:    lines,
		TotalDebit:  r.TotalDebit,
		TotalCredit: r.TotalCredit,
		IsBalanced:  r.IsBalanced,
	}
}
