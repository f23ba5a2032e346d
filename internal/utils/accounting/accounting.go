// Package accounting holds the normal-balance rule and the journal entry
// validator. The sign convention lives here and only here; posting, ledger
// reconstruction and balance queries all go through Effect so the rule can
// never drift between write and read paths.
package accounting

import (
	"fmt"

	"github.com/finbooks/glcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IsDebitNormal reports whether the account type naturally increases on the
// debit side.
func IsDebitNormal(accountType domain.AccountType) bool {
	switch accountType {
	case domain.Asset, domain.Expense, domain.COGS:
		return true
	default:
		return false
	}
}

// Effect computes the balance delta one entry line applies to an account of
// the given type:
//
//	ASSET/EXPENSE/COGS        -> debit - credit
//	LIABILITY/EQUITY/REVENUE  -> credit - debit
func Effect(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense, domain.COGS:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// EntryInput is one proposed journal line as submitted by a caller, before
// anything is persisted.
type EntryInput struct {
	AccountID    string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Description  string
	DepartmentID string
}

// ValidateEntries checks a proposed list of entry lines for double-entry
// correctness. It touches no storage and reports every violated rule, not
// just the first:
//
//  1. at least two entries
//  2. per entry: exactly one of debit/credit strictly positive, neither negative
//  3. sum(debit) exactly equals sum(credit)
//
// An empty result means the list may become a journal.
func ValidateEntries(entries []EntryInput) []string {
	var errs []string

	if len(entries) < 2 {
		errs = append(errs, fmt.Sprintf("journal must have at least 2 entries, got %d", len(entries)))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, e := range entries {
		if e.Debit.IsNegative() {
			errs = append(errs, fmt.Sprintf("entry %d: debit must not be negative, got %s", i, e.Debit.String()))
		}
		if e.Credit.IsNegative() {
			errs = append(errs, fmt.Sprintf("entry %d: credit must not be negative, got %s", i, e.Credit.String()))
		}
		if e.Debit.IsZero() && e.Credit.IsZero() {
			errs = append(errs, fmt.Sprintf("entry %d: either debit or credit must be greater than zero", i))
		}
		if e.Debit.IsPositive() && e.Credit.IsPositive() {
			errs = append(errs, fmt.Sprintf("entry %d: entry cannot have both debit and credit", i))
		}
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		errs = append(errs, fmt.Sprintf("total debit %s does not equal total credit %s (difference %s)",
			totalDebit.String(), totalCredit.String(), totalDebit.Sub(totalCredit).Abs().String()))
	}

	return errs
}
