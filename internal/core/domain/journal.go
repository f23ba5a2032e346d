package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal in its lifecycle.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
	Void   JournalStatus = "VOID"
)

// SourceTypeReversing marks a journal created by reversing a posted journal.
// Its SourceID holds the original journal's ID.
const SourceTypeReversing = "REVERSING"

// Journal represents a single, balanced financial event composed of multiple
// entries. TotalDebit always equals TotalCredit; the pair is fixed at
// creation and never changes afterwards.
type Journal struct {
	JournalID   string        `json:"journalID"` // Primary Key (UUID)
	CompanyID   string        `json:"companyID"` // Tenant reference (Not Null)
	JournalNo   string        `json:"journalNo"` // Human readable, e.g. JRN-20250901-0001
	JournalDate time.Time     `json:"journalDate"`
	Description string        `json:"description"`
	ReferenceNo string        `json:"referenceNo,omitempty"` // External document number
	SourceType  string        `json:"sourceType,omitempty"`  // e.g. SALES_INVOICE, REVERSING
	SourceID    string        `json:"sourceID,omitempty"`    // Opaque link to the source document
	Status      JournalStatus `json:"status"`

	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`

	PostedAt            *time.Time `json:"postedAt,omitempty"`
	ReversedByJournalID *string    `json:"reversedByJournalID,omitempty"` // Set once a reversal exists

	AuditFields
	Entries []JournalEntry `json:"entries,omitempty"` // Often loaded separately
}

// IsReversal reports whether this journal was created to compensate another
// posted journal.
func (j *Journal) IsReversal() bool {
	return j.SourceType == SourceTypeReversing
}
