package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a derived, query-only view of one posted entry for a
// specific account, carrying the running balance after that entry.
type LedgerEntry struct {
	Date           time.Time       `json:"date"`
	JournalID      string          `json:"journalID"`
	JournalNo      string          `json:"journalNo"`
	Description    string          `json:"description"`
	ReferenceNo    string          `json:"referenceNo,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerResult is the full ledger reconstruction for one account over a
// date range.
type LedgerResult struct {
	Account        Account         `json:"account"`
	Entries        []LedgerEntry   `json:"entries"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// TrialBalanceLine is one account's raw debit/credit totals over a period.
// No normal-balance sign flipping is applied here.
type TrialBalanceLine struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResult aggregates trial balance lines with grand totals.
// IsBalanced must always be true for a history produced solely through this
// core; false indicates storage corruption.
type TrialBalanceResult struct {
	Accounts    []TrialBalanceLine `json:"accounts"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	IsBalanced  bool               `json:"isBalanced"`
}
