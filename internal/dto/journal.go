package dto

import (
	"time"

	"github.com/finbooks/glcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one proposed journal line. Exactly one of
// debit/credit must be positive; the validator reports violations.
type CreateEntryRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description"`
	DepartmentID string          `json:"departmentID"`
}

// CreateJournalRequest defines the expected structure for creating a journal.
// Only the calendar day of Date is kept; any time-of-day portion is dropped
// so that day-granular ledger ranges stay inclusive.
type CreateJournalRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Description string               `json:"description" binding:"required"`
	ReferenceNo string               `json:"referenceNo"`
	SourceType  string               `json:"sourceType"`
	SourceID    string               `json:"sourceID"`
	Entries     []CreateEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// ReverseJournalRequest defines the input for reversing a posted journal.
type ReverseJournalRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit          int     `form:"limit"`
	NextToken      *string `form:"nextToken"`
	IncludeEntries bool    `form:"includeEntries"`
}

// EntryResponse defines the data returned for a journal entry line.
type EntryResponse struct {
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"`
	DepartmentID string          `json:"departmentID,omitempty"`
	LineNo       int             `json:"lineNo"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID           string          `json:"journalID"`
	JournalNo           string          `json:"journalNo"`
	Date                time.Time       `json:"date"`
	Description         string          `json:"description"`
	ReferenceNo         string          `json:"referenceNo,omitempty"`
	SourceType          string          `json:"sourceType,omitempty"`
	SourceID            string          `json:"sourceID,omitempty"`
	Status              string          `json:"status"`
	TotalDebit          decimal.Decimal `json:"totalDebit"`
	TotalCredit         decimal.Decimal `json:"totalCredit"`
	PostedAt            *time.Time      `json:"postedAt,omitempty"`
	ReversedByJournalID *string         `json:"reversedByJournalID,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	CreatedBy           string          `json:"createdBy"`
	Entries             []EntryResponse `json:"entries,omitempty"`
}

// ListJournalsResponse is the paginated journal listing.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:      e.EntryID,
		AccountID:    e.AccountID,
		Debit:        e.Debit,
		Credit:       e.Credit,
		Description:  e.Description,
		DepartmentID: e.DepartmentID,
		LineNo:       e.LineNo,
	}
}

// ToEntryResponses converts a slice of domain.JournalEntry to []EntryResponse.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:           j.JournalID,
		JournalNo:           j.JournalNo,
		Date:                j.JournalDate,
		Description:         j.Description,
		ReferenceNo:         j.ReferenceNo,
		SourceType:          j.SourceType,
		SourceID:            j.SourceID,
		Status:              string(j.Status),
		TotalDebit:          j.TotalDebit,
		TotalCredit:         j.TotalCredit,
		PostedAt:            j.PostedAt,
		ReversedByJournalID: j.ReversedByJournalID,
		CreatedAt:           j.CreatedAt,
		CreatedBy:           j.CreatedBy,
	}
	if len(j.Entries) > 0 {
		resp.Entries = ToEntryResponses(j.Entries)
	}
	return resp
}
