package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/finbooks/glcore/internal/apperrors"
	"github.com/finbooks/glcore/internal/core/domain"
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger and trial
// balance queries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// FindLedgerRows returns one row per posted entry for the account within the
// optional date range. Rows come back in posting order: journal date, then
// journal creation time, then line number. RunningBalance is filled in by
// the service.
func (r *PgxLedgerRepository) FindLedgerRows(ctx context.Context, companyID, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT j.journal_date, j.journal_id, j.journal_no,
		       COALESCE(NULLIF(e.description, ''), j.description) AS description,
		       j.reference_no, e.debit, e.credit
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE j.company_id = $1 AND e.account_id = $2 AND j.status = 'POSTED'`

	args := []interface{}{companyID, accountID}
	if from != nil {
		args = append(args, *from)
		query += ` AND j.journal_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND j.journal_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY j.journal_date ASC, j.created_at ASC, e.line_no ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger rows for account "+accountID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var le domain.LedgerEntry
		var referenceNo *string
		if err := rows.Scan(&le.Date, &le.JournalID, &le.JournalNo, &le.Description, &referenceNo, &le.Debit, &le.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row for account "+accountID, err)
		}
		if referenceNo != nil {
			le.ReferenceNo = *referenceNo
		}
		entries = append(entries, le)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows for account "+accountID, err)
	}

	return entries, nil
}

// SumAccountEntries returns the raw debit and credit sums over posted
// journals dated strictly before the given date. The zero sums come back as
// zero decimals, never as an error.
func (r *PgxLedgerRepository) SumAccountEntries(ctx context.Context, companyID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE j.company_id = $1 AND e.account_id = $2 AND j.status = 'POSTED' AND j.journal_date < $3;
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, accountID, before).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum entries for account "+accountID, err)
	}
	return debit, credit, nil
}

// GetTrialBalanceData returns raw per-account debit/credit sums over posted
// journals within the optional date range. Active accounts only; accounts
// with no posted activity in the range are omitted.
func (r *PgxLedgerRepository) GetTrialBalanceData(ctx context.Context, companyID string, from, to *time.Time) ([]domain.TrialBalanceLine, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(e.debit), 0) AS total_debit,
		       COALESCE(SUM(e.credit), 0) AS total_credit
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		JOIN accounts a ON a.account_id = e.account_id AND a.company_id = j.company_id
		WHERE j.company_id = $1 AND j.status = 'POSTED' AND a.is_active = TRUE`

	args := []interface{}{companyID}
	if from != nil {
		args = append(args, *from)
		query += ` AND j.journal_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND j.journal_date <= $` + strconv.Itoa(len(args))
	}
	query += `
		GROUP BY a.account_id, a.code, a.name, a.account_type
		HAVING SUM(e.debit) <> 0 OR SUM(e.credit) <> 0
		ORDER BY a.code ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance data for company "+companyID, err)
	}
	defer rows.Close()

	lines := []domain.TrialBalanceLine{}
	for rows.Next() {
		var l domain.TrialBalanceLine
		if err := rows.Scan(&l.AccountID, &l.AccountCode, &l.AccountName, &l.AccountType, &l.Debit, &l.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row for company "+companyID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows for company "+companyID, err)
	}

	return lines, nil
}
