package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	COGS      AccountType = "COGS"
	Expense   AccountType = "EXPENSE"
)

// Account represents one chart-of-accounts node. Accounts are created and
// archived outside this service; the ledger core only reads them and moves
// Balance when journals are posted.
type Account struct {
	AccountID   string          `json:"accountID"`   // Primary Key (UUID)
	CompanyID   string          `json:"companyID"`   // Tenant reference (Not Null)
	Code        string          `json:"code"`        // Hierarchical code, unique per company
	Name        string          `json:"name"`        // Display name
	AccountType AccountType     `json:"accountType"` // ASSET, LIABILITY, etc.
	IsActive    bool            `json:"isActive"`
	IsSystem    bool            `json:"isSystem"` // Seeded accounts that cannot be archived
	AuditFields                 // Embed CreatedAt, CreatedBy, etc.
	Balance     decimal.Decimal `json:"balance"` // Cumulative effect of every posted entry
}
