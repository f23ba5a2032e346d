package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finbooks/glcore/internal/apperrors"
	"github.com/finbooks/glcore/internal/core/domain"
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	"github.com/finbooks/glcore/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const journalColumns = `journal_id, company_id, journal_no, journal_date, description, reference_no, source_type, source_id, status, total_debit, total_credit, posted_at, reversed_by_journal_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo     portsrepo.AccountRepository
	journalNoPrefix string
}

// newPgxJournalRepository creates a new repository for journal and entry data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepository, journalNoPrefix string) portsrepo.JournalRepository {
	return &PgxJournalRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		accountRepo:     accountRepo,
		journalNoPrefix: journalNoPrefix,
	}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (*domain.Journal, error) {
	var j domain.Journal
	var referenceNo, sourceType, sourceID, reversedBy sql.NullString
	var postedAt *time.Time

	err := row.Scan(
		&j.JournalID,
		&j.CompanyID,
		&j.JournalNo,
		&j.JournalDate,
		&j.Description,
		&referenceNo,
		&sourceType,
		&sourceID,
		&j.Status,
		&j.TotalDebit,
		&j.TotalCredit,
		&postedAt,
		&reversedBy,
		&j.CreatedAt,
		&j.CreatedBy,
		&j.LastUpdatedAt,
		&j.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	j.ReferenceNo = referenceNo.String
	j.SourceType = sourceType.String
	j.SourceID = sourceID.String
	j.PostedAt = postedAt
	if reversedBy.Valid {
		j.ReversedByJournalID = &reversedBy.String
	}
	return &j, nil
}

// nullable converts an empty string into a NULL parameter.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SaveJournal assigns the next journal number for the tenant+date and
// inserts the journal with all of its entries as one transaction. The
// sequence row upsert is a storage-native atomic increment, so concurrent
// creators serialize on it and numbers never duplicate.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.JournalEntry) (*domain.Journal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved, err := r.insertJournalTx(ctx, tx, journal, entries)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// insertJournalTx allocates the journal number and inserts the journal with
// its entries on the given transaction.
func (r *PgxJournalRepository) insertJournalTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, entries []domain.JournalEntry) (*domain.Journal, error) {
	seqQuery := `
		INSERT INTO journal_sequences (company_id, seq_date, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, seq_date)
		DO UPDATE SET last_seq = journal_sequences.last_seq + 1
		RETURNING last_seq;
	`
	seqDate := journal.JournalDate.Format("2006-01-02")
	var seq int
	if err := tx.QueryRow(ctx, seqQuery, journal.CompanyID, seqDate).Scan(&seq); err != nil {
		return nil, apperrors.NewAppError(500, "failed to allocate journal number for "+seqDate, err)
	}
	journal.JournalNo = fmt.Sprintf("%s-%s-%04d", r.journalNoPrefix, journal.JournalDate.Format("20060102"), seq)

	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, journalQuery,
		journal.JournalID,
		journal.CompanyID,
		journal.JournalNo,
		journal.JournalDate,
		journal.Description,
		nullable(journal.ReferenceNo),
		nullable(journal.SourceType),
		nullable(journal.SourceID),
		journal.Status,
		journal.TotalDebit,
		journal.TotalCredit,
		journal.PostedAt,
		journal.ReversedByJournalID,
		journal.CreatedAt,
		journal.CreatedBy,
		journal.LastUpdatedAt,
		journal.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrDuplicate, journal.JournalID)
		}
		return nil, apperrors.NewAppError(500, "failed to insert journal "+journal.JournalID, err)
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO journal_entries (entry_id, journal_id, account_id, debit, credit, description, department_id, line_no, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, e := range entries {
		batch.Queue(entryQuery,
			e.EntryID,
			e.JournalID,
			e.AccountID,
			e.Debit,
			e.Credit,
			nullable(e.Description),
			nullable(e.DepartmentID),
			e.LineNo,
			e.CreatedAt,
			e.CreatedBy,
			e.LastUpdatedAt,
			e.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert entries for journal "+journal.JournalID, err)
	}

	journal.Entries = entries
	return &journal, nil
}

// FindJournalByID retrieves a journal by its ID within the company.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, companyID, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 AND company_id = $2;`

	journal, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}
	return journal, nil
}

// FindJournalBySource retrieves the latest journal linked to a source
// document, if any.
func (r *PgxJournalRepository) FindJournalBySource(ctx context.Context, companyID, sourceType, sourceID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals
		WHERE company_id = $1 AND source_type = $2 AND source_id = $3
		ORDER BY created_at DESC
		LIMIT 1;`

	journal, err := scanJournal(r.Pool.QueryRow(ctx, query, companyID, sourceType, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal for source "+sourceType+"/"+sourceID, err)
	}
	return journal, nil
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var description, departmentID sql.NullString
	err := row.Scan(
		&e.EntryID,
		&e.JournalID,
		&e.AccountID,
		&e.Debit,
		&e.Credit,
		&description,
		&departmentID,
		&e.LineNo,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	e.Description = description.String
	e.DepartmentID = departmentID.String
	return &e, nil
}

const entryColumns = `entry_id, journal_id, account_id, debit, credit, description, department_id, line_no, created_at, created_by, last_updated_at, last_updated_by`

// FindEntriesByJournalID retrieves all entries of a journal in line order.
func (r *PgxJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE journal_id = $1 ORDER BY line_no;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for journal "+journalID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row for journal "+journalID, err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows for journal "+journalID, err)
	}

	return entries, nil
}

// FindEntriesByJournalIDs retrieves all entries for a list of journal IDs,
// keyed by journal ID.
func (r *PgxJournalRepository) FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalEntry, error) {
	if len(journalIDs) == 0 {
		return map[string][]domain.JournalEntry{}, nil
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE journal_id = ANY($1) ORDER BY journal_id, line_no;`

	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for journal IDs", err)
	}
	defer rows.Close()

	entriesMap := make(map[string][]domain.JournalEntry)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row during batch fetch", err)
		}
		entriesMap[e.JournalID] = append(entriesMap[e.JournalID], *e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows during batch fetch", err)
	}

	for _, jid := range journalIDs {
		if _, exists := entriesMap[jid]; !exists {
			entriesMap[jid] = []domain.JournalEntry{}
		}
	}

	return entriesMap, nil
}

// ListJournalsByCompany retrieves a paginated list of journals using
// token-based cursor pagination, newest first.
func (r *PgxJournalRepository) ListJournalsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalColumns + ` FROM journals WHERE company_id = $1`
	// Ordering must be stable: journal_date DESC with created_at DESC as a
	// tie-breaker.
	orderByClause := `ORDER BY journal_date DESC, created_at DESC`

	args := []interface{}{companyID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (journal_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}

	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals for company "+companyID, err)
	}
	defer rows.Close()

	journals := make([]domain.Journal, 0, fetchLimit)
	for rows.Next() {
		j, scanErr := scanJournal(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row for company "+companyID, scanErr)
		}
		journals = append(journals, *j)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows for company "+companyID, err)
	}

	var nextTokenVal *string
	results := journals
	if len(journals) > limit {
		lastJournal := journals[limit-1]
		token := pagination.EncodeToken(lastJournal.JournalDate, lastJournal.CreatedAt)
		nextTokenVal = &token
		results = journals[:limit]
	}

	return results, nextTokenVal, nil
}

// MarkJournalPosted flips a DRAFT journal to POSTED and applies the balance
// deltas, all within one transaction. Account rows are locked before the
// status flip; the status guard in the UPDATE loses gracefully when another
// poster got there first.
func (r *PgxJournalRepository) MarkJournalPosted(ctx context.Context, companyID, journalID string, balanceChanges map[string]decimal.Decimal, userID string, postedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, companyID, accountIDs); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for posting", err)
	}

	statusQuery := `
		UPDATE journals
		SET status = $3, posted_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1 AND company_id = $2 AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, statusQuery, journalID, companyID, domain.Posted, postedAt, userID, domain.Draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal status for "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the journal is gone or it left DRAFT concurrently.
		if _, findErr := r.FindJournalByID(ctx, companyID, journalID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: journal %s is not in DRAFT status", apperrors.ErrConflict, journalID)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, postedAt); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	return r.Commit(ctx, tx)
}

// MarkJournalVoid flips a DRAFT journal to VOID.
func (r *PgxJournalRepository) MarkJournalVoid(ctx context.Context, companyID, journalID string, userID string, now time.Time) error {
	query := `
		UPDATE journals
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1 AND company_id = $2 AND status = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, journalID, companyID, domain.Void, now, userID, domain.Draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindJournalByID(ctx, companyID, journalID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: journal %s is not in DRAFT status", apperrors.ErrConflict, journalID)
	}
	return nil
}

// SaveReversal inserts a POSTED reversing journal with its entries, applies
// the balance deltas, and links the original, all within one transaction. If
// any step fails the whole reversal rolls back, so a retry starts from a
// clean state. The guard on the original's row makes a raced second reversal
// lose with a conflict.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, originalJournalID string, reversal domain.Journal, entries []domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.Journal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, reversal.CompanyID, accountIDs); err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock accounts for reversal", err)
	}

	saved, err := r.insertJournalTx(ctx, tx, reversal, entries)
	if err != nil {
		return nil, err
	}

	linkQuery := `
		UPDATE journals
		SET reversed_by_journal_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1 AND company_id = $2 AND status = $6 AND reversed_by_journal_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, linkQuery, originalJournalID, reversal.CompanyID, saved.JournalID, reversal.LastUpdatedAt, reversal.LastUpdatedBy, domain.Posted)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to link reversal for journal "+originalJournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindJournalByID(ctx, reversal.CompanyID, originalJournalID); errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: journal %s is not posted or already reversed", apperrors.ErrConflict, originalJournalID)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, reversal.LastUpdatedBy, reversal.LastUpdatedAt); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update account balances for reversal", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}
