package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/glcore/internal/apperrors"
	"github.com/finbooks/glcore/internal/core/domain"
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	portssvc "github.com/finbooks/glcore/internal/core/ports/services"
	"github.com/finbooks/glcore/internal/dto"
	"github.com/finbooks/glcore/internal/utils/accounting"
)

// journalService is the sole writer of journals, entries and account
// balances. Every mutation is one atomic repository operation.
type journalService struct {
	BaseService
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepository
	now         func() time.Time
}

// JournalServiceOption is a functional option for configuring the journal service.
type JournalServiceOption func(*journalService)

// WithClock overrides the clock, used by tests for deterministic timestamps.
func WithClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJournalService creates a new journal lifecycle service.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountSvcFacade, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournal validates the proposed entries and persists a new DRAFT
// journal with all of its entries atomically. DRAFT journals never touch
// account balances.
func (s *journalService) CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := s.GetLogger(ctx)

	// --- Structural validation (pure, storage-free) ---
	inputs := make([]accounting.EntryInput, len(req.Entries))
	for i, e := range req.Entries {
		inputs[i] = accounting.EntryInput{
			AccountID:    e.AccountID,
			Debit:        e.Debit,
			Credit:       e.Credit,
			Description:  e.Description,
			DepartmentID: e.DepartmentID,
		}
	}
	if violations := accounting.ValidateEntries(inputs); len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	// --- Duplicate source guard ---
	if req.SourceType != "" && req.SourceID != "" {
		existing, err := s.journalRepo.FindJournalBySource(ctx, companyID, req.SourceType, req.SourceID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to check source journal", slog.String("error", err.Error()), slog.String("source_id", req.SourceID))
			return nil, fmt.Errorf("failed to check existing journal for source: %w", err)
		}
		if existing != nil && existing.Status != domain.Void {
			return nil, fmt.Errorf("%w: journal %s already exists for source %s/%s",
				apperrors.ErrConflict, existing.JournalNo, req.SourceType, req.SourceID)
		}
	}

	// --- Account checks ---
	accountIDs := make([]string, 0, len(req.Entries))
	for _, e := range req.Entries {
		accountIDs = append(accountIDs, e.AccountID)
	}
	uniqueAccountIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueAccountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for journal creation", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	// --- Build domain objects ---
	now := s.now().UTC()
	journalID := uuid.NewString()

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	entries := make([]domain.JournalEntry, len(req.Entries))
	for i, e := range req.Entries {
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
		entries[i] = domain.JournalEntry{
			EntryID:      uuid.NewString(),
			JournalID:    journalID,
			AccountID:    e.AccountID,
			Debit:        e.Debit,
			Credit:       e.Credit,
			Description:  e.Description,
			DepartmentID: e.DepartmentID,
			LineNo:       i + 1,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}

	journal := domain.Journal{
		JournalID:   journalID,
		CompanyID:   companyID,
		JournalDate: normalizeJournalDate(req.Date),
		Description: req.Description,
		ReferenceNo: req.ReferenceNo,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		Status:      domain.Draft,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// SaveJournal assigns the journal number inside the same transaction as
	// the insert so concurrent creators cannot take the same sequence.
	saved, err := s.journalRepo.SaveJournal(ctx, journal, entries)
	if err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal created",
		slog.String("journal_id", saved.JournalID),
		slog.String("journal_no", saved.JournalNo),
		slog.String("company_id", companyID))
	saved.Entries = nil
	return saved, nil
}

// PostJournal transitions a DRAFT journal to POSTED and applies the
// normal-balance effect of every entry to its account, atomically. Posting
// is irreversible; corrections are new reversing journals.
func (s *journalService) PostJournal(ctx context.Context, companyID, journalID string, userID string) (*domain.Journal, error) {
	logger := s.GetLogger(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	switch journal.Status {
	case domain.Posted:
		return nil, fmt.Errorf("%w: journal %s already posted", apperrors.ErrConflict, journal.JournalNo)
	case domain.Void:
		return nil, fmt.Errorf("%w: cannot post void journal %s", apperrors.ErrConflict, journal.JournalNo)
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch entries for posting", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to fetch journal entries: %w", err)
	}

	balanceChanges, err := s.calculateBalanceChanges(ctx, companyID, entries)
	if err != nil {
		return nil, err
	}

	postedAt := s.now().UTC()
	if err := s.journalRepo.MarkJournalPosted(ctx, companyID, journalID, balanceChanges, userID, postedAt); err != nil {
		logger.Error("Failed to post journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	journal.Status = domain.Posted
	journal.PostedAt = &postedAt
	journal.LastUpdatedAt = postedAt
	journal.LastUpdatedBy = userID

	logger.Info("Journal posted",
		slog.String("journal_id", journalID),
		slog.String("journal_no", journal.JournalNo),
		slog.Int("entry_count", len(entries)))
	return journal, nil
}

// ReverseJournal creates and posts a compensating journal whose entries are
// the debit/credit swap of the original's, in a single transaction that also
// links the original to its reversal. The original is otherwise untouched.
// The reversal is dated on the caller's day; back-dated reversals are allowed
// so prior periods can absorb the compensation.
func (s *journalService) ReverseJournal(ctx context.Context, companyID, journalID string, req dto.ReverseJournalRequest, userID string) (*domain.Journal, error) {
	logger := s.GetLogger(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: can only reverse posted journals, journal %s is %s",
			apperrors.ErrConflict, original.JournalNo, original.Status)
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: journal %s is itself a reversal", apperrors.ErrConflict, original.JournalNo)
	}
	if original.ReversedByJournalID != nil {
		return nil, fmt.Errorf("%w: journal %s already reversed", apperrors.ErrConflict, original.JournalNo)
	}

	originalEntries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch original entries for reversal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to fetch journal entries: %w", err)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Reversal of %s: %s", original.JournalNo, original.Description)
	}

	now := s.now().UTC()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	reversedEntries := make([]domain.JournalEntry, len(originalEntries))
	for i, e := range originalEntries {
		lineDesc := e.Description
		if lineDesc != "" {
			lineDesc = "Reversal of: " + lineDesc
		}
		reversedEntries[i] = domain.JournalEntry{
			EntryID:      uuid.NewString(),
			JournalID:    reversalID,
			AccountID:    e.AccountID,
			Debit:        e.Credit, // Swap sides
			Credit:       e.Debit,
			Description:  lineDesc,
			DepartmentID: e.DepartmentID,
			LineNo:       i + 1,
			AuditFields:  audit,
		}
	}

	// Fetching accounts here also confirms every account still exists.
	// Inactive accounts do not block a reversal: correcting a posted journal
	// must stay possible after an account is closed.
	balanceChanges, err := s.calculateBalanceChanges(ctx, companyID, reversedEntries)
	if err != nil {
		return nil, err
	}

	reversal := domain.Journal{
		JournalID:   reversalID,
		CompanyID:   companyID,
		JournalDate: normalizeJournalDate(req.Date),
		Description: description,
		ReferenceNo: original.ReferenceNo,
		SourceType:  domain.SourceTypeReversing,
		SourceID:    original.JournalID,
		Status:      domain.Posted,
		TotalDebit:  original.TotalCredit,
		TotalCredit: original.TotalDebit,
		PostedAt:    &now,
		AuditFields: audit,
	}

	// One repository call so the insert, the posting deltas and the link on
	// the original commit or roll back together. A failure leaves no dangling
	// reversal draft behind.
	saved, err := s.journalRepo.SaveReversal(ctx, original.JournalID, reversal, reversedEntries, balanceChanges)
	if err != nil {
		logger.Error("Failed to save reversal",
			slog.String("original_journal_id", original.JournalID),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal reversed",
		slog.String("original_journal_id", original.JournalID),
		slog.String("reversing_journal_id", saved.JournalID))
	saved.Entries = nil
	return saved, nil
}

// VoidJournal cancels a DRAFT journal. Void journals never affected any
// balance, so no compensation is needed.
func (s *journalService) VoidJournal(ctx context.Context, companyID, journalID string, userID string) (*domain.Journal, error) {
	logger := s.GetLogger(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	switch journal.Status {
	case domain.Posted:
		return nil, fmt.Errorf("%w: cannot void posted journal %s, reverse it instead",
			apperrors.ErrConflict, journal.JournalNo)
	case domain.Void:
		return nil, fmt.Errorf("%w: journal %s already void", apperrors.ErrConflict, journal.JournalNo)
	}

	now := s.now().UTC()
	if err := s.journalRepo.MarkJournalVoid(ctx, companyID, journalID, userID, now); err != nil {
		return nil, err
	}

	journal.Status = domain.Void
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = userID

	logger.Info("Journal voided", slog.String("journal_id", journalID), slog.String("journal_no", journal.JournalNo))
	return journal, nil
}

// GetJournalByID retrieves a journal together with its entries.
func (s *journalService) GetJournalByID(ctx context.Context, companyID, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve entries for journal %s: %w", journalID, err)
	}
	journal.Entries = entries
	return journal, nil
}

// ListJournals retrieves a paginated list of journals for the company.
func (s *journalService) ListJournals(ctx context.Context, companyID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := s.GetLogger(ctx)

	journals, nextToken, err := s.journalRepo.ListJournalsByCompany(ctx, companyID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journals", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	var entriesMap map[string][]domain.JournalEntry
	if params.IncludeEntries && len(journals) > 0 {
		journalIDs := make([]string, len(journals))
		for i, j := range journals {
			journalIDs[i] = j.JournalID
		}
		entriesMap, err = s.journalRepo.FindEntriesByJournalIDs(ctx, journalIDs)
		if err != nil {
			// Continue without entries rather than failing the whole request
			logger.Warn("Failed to fetch entries for journals", slog.String("error", err.Error()))
		}
	}

	journalResponses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		if entriesMap != nil {
			journals[i].Entries = entriesMap[journals[i].JournalID]
		}
		journalResponses[i] = dto.ToJournalResponse(&journals[i])
	}

	return &dto.ListJournalsResponse{
		Journals:  journalResponses,
		NextToken: nextToken,
	}, nil
}

// calculateBalanceChanges folds every entry's normal-balance effect into a
// per-account delta map.
func (s *journalService) calculateBalanceChanges(ctx context.Context, companyID string, entries []domain.JournalEntry) (map[string]decimal.Decimal, error) {
	accountIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		accountIDs = append(accountIDs, e.AccountID)
	}
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for balance calculation: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal)
	for _, e := range entries {
		acc, found := accountsMap[e.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, e.AccountID)
		}
		delta, err := accounting.Effect(acc.AccountType, e.Debit, e.Credit)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate effect for entry %s: %w", e.EntryID, err)
		}
		balanceChanges[e.AccountID] = balanceChanges[e.AccountID].Add(delta)
	}
	return balanceChanges, nil
}

// normalizeJournalDate keeps only the calendar day of the accounting date.
// Ledger and balance queries bound ranges at UTC midnight, so intraday
// timestamps would otherwise slip past an inclusive end date.
func normalizeJournalDate(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
