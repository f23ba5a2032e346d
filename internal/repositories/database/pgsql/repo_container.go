package pgsql

import (
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires up all pgsql-backed repositories against the
// shared connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool, journalNoPrefix string) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		JournalRepo: newPgxJournalRepository(pool, accountRepo, journalNoPrefix),
		LedgerRepo:  newPgxLedgerRepository(pool),
	}
}
