package services

import (
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	portssvc "github.com/finbooks/glcore/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The account directory comes first since the journal and ledger
	// services read accounts through it.
	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account)
	container.Ledger = NewLedgerService(repos.LedgerRepo, container.Account)

	return container
}
