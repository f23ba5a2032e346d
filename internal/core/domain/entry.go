package domain

import "github.com/shopspring/decimal"

// JournalEntry represents a single debit-or-credit line within a Journal.
// Exactly one of Debit/Credit is strictly positive and the other is zero.
// Entries are created atomically with their journal and never individually
// mutated afterwards; a correction is a new journal.
type JournalEntry struct {
	EntryID      string          `json:"entryID"`   // Primary Key (UUID)
	JournalID    string          `json:"journalID"` // FK -> Journal.journalID (Not Null)
	AccountID    string          `json:"accountID"` // FK -> Account.accountID (Not Null)
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"`
	DepartmentID string          `json:"departmentID,omitempty"` // Cost-center tag, opaque here
	LineNo       int             `json:"lineNo"`                 // Position within the journal
	AuditFields
}
