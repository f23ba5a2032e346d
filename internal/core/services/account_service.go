package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finbooks/glcore/internal/apperrors"
	"github.com/finbooks/glcore/internal/core/domain"
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	portssvc "github.com/finbooks/glcore/internal/core/ports/services"
)

// accountService is the read-only account directory. The chart of accounts
// is owned by the surrounding application; the ledger core never creates,
// renames or archives accounts here.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new read-only account directory facade.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves a single account for the company.
func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts in one round trip. The map
// simply omits IDs that were not found; callers check completeness.
func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts by IDs", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of active accounts for the company.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, limit, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
