package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finbooks/glcore/internal/apperrors"
	"github.com/finbooks/glcore/internal/core/domain"
	portsrepo "github.com/finbooks/glcore/internal/core/ports/repositories"
	portssvc "github.com/finbooks/glcore/internal/core/ports/services"
	"github.com/finbooks/glcore/internal/core/services"
	"github.com/finbooks/glcore/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepository = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.JournalEntry) (*domain.Journal, error) {
	args := m.Called(ctx, journal, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, companyID, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, companyID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalEntry, error) {
	args := m.Called(ctx, journalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindJournalBySource(ctx context.Context, companyID, sourceType, sourceID string) (*domain.Journal, error) {
	args := m.Called(ctx, companyID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournalsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) MarkJournalPosted(ctx context.Context, companyID, journalID string, balanceChanges map[string]decimal.Decimal, userID string, postedAt time.Time) error {
	args := m.Called(ctx, companyID, journalID, balanceChanges, userID, postedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkJournalVoid(ctx context.Context, companyID, journalID string, userID string, now time.Time) error {
	args := m.Called(ctx, companyID, journalID, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, originalJournalID string, reversal domain.Journal, entries []domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.Journal, error) {
	args := m.Called(ctx, originalJournalID, reversal, entries, balanceChanges)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

// --- Mock AccountService (as used by JournalService) ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountService
	service         portssvc.JournalSvcFacade

	companyID      string
	userID         string
	fixedTime      time.Time
	cashAccount    domain.Account
	revenueAccount domain.Account
	closedAccount  domain.Account
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockAccountSvc = new(MockAccountService)
	s.fixedTime = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	s.service = services.NewJournalService(s.mockJournalRepo, s.mockAccountSvc,
		services.WithClock(func() time.Time { return s.fixedTime }))

	s.companyID = uuid.NewString()
	s.userID = uuid.NewString()

	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   s.companyID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	s.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   s.companyID,
		Code:        "4000",
		Name:        "Sales Revenue",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	s.closedAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   s.companyID,
		Code:        "1999",
		Name:        "Old Petty Cash",
		AccountType: domain.Asset,
		IsActive:    false,
	}
}

func (s *JournalServiceTestSuite) balancedRequest() dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Date:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Entries: []dto.CreateEntryRequest{
			{AccountID: s.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: s.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (s *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		s.cashAccount.AccountID:    s.cashAccount,
		s.revenueAccount.AccountID: s.revenueAccount,
	}
}

func (s *JournalServiceTestSuite) TestCreateJournalSuccess() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID,
		[]string{s.cashAccount.AccountID, s.revenueAccount.AccountID}).Return(s.accountsMap(), nil).Once()

	s.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalEntry")).
		Return(&domain.Journal{
			JournalID:   "jrn-id-1",
			CompanyID:   s.companyID,
			JournalNo:   "JRN-20250615-0001",
			JournalDate: req.Date,
			Description: req.Description,
			Status:      domain.Draft,
			TotalDebit:  decimal.NewFromInt(100),
			TotalCredit: decimal.NewFromInt(100),
		}, nil).Once()

	created, err := s.service.CreateJournal(ctx, s.companyID, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(created)
	s.Equal(domain.Draft, created.Status)
	s.Equal("JRN-20250615-0001", created.JournalNo)
	s.Nil(created.Entries)

	// The journal handed to the repository is a balanced DRAFT with numbered lines.
	savedJournal := s.mockJournalRepo.Calls[0].Arguments.Get(1).(domain.Journal)
	savedEntries := s.mockJournalRepo.Calls[0].Arguments.Get(2).([]domain.JournalEntry)
	s.Equal(domain.Draft, savedJournal.Status)
	s.True(savedJournal.TotalDebit.Equal(decimal.NewFromInt(100)))
	s.True(savedJournal.TotalCredit.Equal(decimal.NewFromInt(100)))
	s.Require().Len(savedEntries, 2)
	s.Equal(1, savedEntries[0].LineNo)
	s.Equal(2, savedEntries[1].LineNo)
	s.Equal(s.fixedTime, savedJournal.CreatedAt)
	s.Equal(s.userID, savedJournal.CreatedBy)

	s.mockAccountSvc.AssertExpectations(s.T())
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateJournalNormalizesIntradayDate() {
	ctx := context.Background()
	req := s.balancedRequest()
	// An afternoon timestamp must not push the journal past a day-granular
	// range end; only the calendar day is kept.
	req.Date = time.Date(2025, 9, 1, 14, 0, 0, 0, time.UTC)

	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID, mock.Anything).Return(s.accountsMap(), nil).Once()
	s.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalEntry")).
		Return(&domain.Journal{JournalID: "jrn-id-1", Status: domain.Draft}, nil).Once()

	_, err := s.service.CreateJournal(ctx, s.companyID, req, s.userID)

	s.Require().NoError(err)
	savedJournal := s.mockJournalRepo.Calls[0].Arguments.Get(1).(domain.Journal)
	s.True(savedJournal.JournalDate.Equal(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)))
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateJournalReportsAllViolations() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:        s.fixedTime,
		Description: "broken",
		Entries: []dto.CreateEntryRequest{
			{AccountID: s.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: s.revenueAccount.AccountID, Credit: decimal.NewFromInt(90)},
		},
	}

	_, err := s.service.CreateJournal(ctx, s.companyID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	var validationErr *apperrors.ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Require().Len(validationErr.Violations, 1)
	s.Contains(validationErr.Violations[0], "difference 10")

	// Nothing was persisted and no accounts were fetched.
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
	s.mockAccountSvc.AssertNotCalled(s.T(), "GetAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateJournalDuplicateSource() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.SourceType = "INVOICE"
	req.SourceID = "inv-42"

	s.mockJournalRepo.On("FindJournalBySource", ctx, s.companyID, "INVOICE", "inv-42").
		Return(&domain.Journal{JournalID: "existing", JournalNo: "JRN-20250601-0007", Status: domain.Posted}, nil).Once()

	_, err := s.service.CreateJournal(ctx, s.companyID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateJournalVoidedSourceDoesNotBlock() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.SourceType = "INVOICE"
	req.SourceID = "inv-42"

	s.mockJournalRepo.On("FindJournalBySource", ctx, s.companyID, "INVOICE", "inv-42").
		Return(&domain.Journal{JournalID: "existing", Status: domain.Void}, nil).Once()
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID, mock.Anything).Return(s.accountsMap(), nil).Once()
	s.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalEntry")).
		Return(&domain.Journal{JournalID: "new", Status: domain.Draft}, nil).Once()

	created, err := s.service.CreateJournal(ctx, s.companyID, req, s.userID)

	s.Require().NoError(err)
	s.NotNil(created)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateJournalUnknownAccount() {
	ctx := context.Background()
	req := s.balancedRequest()

	// The revenue account does not exist in this company.
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID, mock.Anything).
		Return(map[string]domain.Account{s.cashAccount.AccountID: s.cashAccount}, nil).Once()

	_, err := s.service.CreateJournal(ctx, s.companyID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateJournalInactiveAccount() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:        s.fixedTime,
		Description: "uses closed account",
		Entries: []dto.CreateEntryRequest{
			{AccountID: s.closedAccount.AccountID, Debit: decimal.NewFromInt(50)},
			{AccountID: s.revenueAccount.AccountID, Credit: decimal.NewFromInt(50)},
		},
	}

	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID, mock.Anything).
		Return(map[string]domain.Account{
			s.closedAccount.AccountID:  s.closedAccount,
			s.revenueAccount.AccountID: s.revenueAccount,
		}, nil).Once()

	_, err := s.service.CreateJournal(ctx, s.companyID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "inactive")
}

func (s *JournalServiceTestSuite) draftJournal() *domain.Journal {
	return &domain.Journal{
		JournalID:   "jrn-id-1",
		CompanyID:   s.companyID,
		JournalNo:   "JRN-20250615-0001",
		JournalDate: s.fixedTime,
		Description: "Cash sale",
		Status:      domain.Draft,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
	}
}

func (s *JournalServiceTestSuite) draftEntries() []domain.JournalEntry {
	return []domain.JournalEntry{
		{EntryID: "e1", JournalID: "jrn-id-1", AccountID: s.cashAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero, LineNo: 1},
		{EntryID: "e2", JournalID: "jrn-id-1", AccountID: s.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(100), LineNo: 2},
	}
}

func (s *JournalServiceTestSuite) TestPostJournalAppliesNormalBalanceEffect() {
	ctx := context.Background()

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(s.draftJournal(), nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, "jrn-id-1").Return(s.draftEntries(), nil).Once()
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID, mock.Anything).Return(s.accountsMap(), nil).Once()

	// Debit 100 to an asset raises it by 100; credit 100 to revenue raises it by 100.
	expectedChanges := func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 2 &&
			changes[s.cashAccount.AccountID].Equal(decimal.NewFromInt(100)) &&
			changes[s.revenueAccount.AccountID].Equal(decimal.NewFromInt(100))
	}
	s.mockJournalRepo.On("MarkJournalPosted", ctx, s.companyID, "jrn-id-1",
		mock.MatchedBy(expectedChanges), s.userID, s.fixedTime).Return(nil).Once()

	posted, err := s.service.PostJournal(ctx, s.companyID, "jrn-id-1", s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Posted, posted.Status)
	s.Require().NotNil(posted.PostedAt)
	s.Equal(s.fixedTime, *posted.PostedAt)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestPostJournalAlreadyPosted() {
	ctx := context.Background()
	journal := s.draftJournal()
	journal.Status = domain.Posted

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(journal, nil).Once()

	_, err := s.service.PostJournal(ctx, s.companyID, "jrn-id-1", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(err.Error(), "already posted")
	s.mockJournalRepo.AssertNotCalled(s.T(), "MarkJournalPosted",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestPostJournalVoid() {
	ctx := context.Background()
	journal := s.draftJournal()
	journal.Status = domain.Void

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(journal, nil).Once()

	_, err := s.service.PostJournal(ctx, s.companyID, "jrn-id-1", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestPostJournalNotFound() {
	ctx := context.Background()

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.PostJournal(ctx, s.companyID, "missing", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *JournalServiceTestSuite) TestReverseJournalSwapsSidesAndLinks() {
	ctx := context.Background()

	original := s.draftJournal()
	original.Status = domain.Posted
	postedAt := s.fixedTime.Add(-24 * time.Hour)
	original.PostedAt = &postedAt

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(original, nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, "jrn-id-1").Return(s.draftEntries(), nil).Once()
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID, mock.Anything).Return(s.accountsMap(), nil).Once()

	// The reversal must apply the exact opposite deltas.
	negatedChanges := func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 2 &&
			changes[s.cashAccount.AccountID].Equal(decimal.NewFromInt(-100)) &&
			changes[s.revenueAccount.AccountID].Equal(decimal.NewFromInt(-100))
	}
	reversalPosted := &domain.Journal{
		JournalID:   "rev-id-1",
		CompanyID:   s.companyID,
		JournalNo:   "JRN-20250615-0002",
		JournalDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Description: "Reversal of JRN-20250615-0001: Cash sale",
		SourceType:  domain.SourceTypeReversing,
		SourceID:    "jrn-id-1",
		Status:      domain.Posted,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
		PostedAt:    &s.fixedTime,
	}
	s.mockJournalRepo.On("SaveReversal", ctx, "jrn-id-1",
		mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalEntry"), mock.MatchedBy(negatedChanges)).
		Return(reversalPosted, nil).Once()

	reversal, err := s.service.ReverseJournal(ctx, s.companyID, "jrn-id-1", dto.ReverseJournalRequest{Date: s.fixedTime}, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Posted, reversal.Status)
	s.Equal(domain.SourceTypeReversing, reversal.SourceType)
	s.Equal("jrn-id-1", reversal.SourceID)
	s.Nil(reversal.Entries)

	// The journal handed to the repository arrives already POSTED, dated at
	// UTC midnight, with the debit/credit swap of the original's entries.
	var savedJournal domain.Journal
	var savedEntries []domain.JournalEntry
	for _, call := range s.mockJournalRepo.Calls {
		if call.Method == "SaveReversal" {
			savedJournal = call.Arguments.Get(2).(domain.Journal)
			savedEntries = call.Arguments.Get(3).([]domain.JournalEntry)
		}
	}
	s.Equal(domain.Posted, savedJournal.Status)
	s.Require().NotNil(savedJournal.PostedAt)
	s.Equal(s.fixedTime, *savedJournal.PostedAt)
	s.True(savedJournal.JournalDate.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	s.True(savedJournal.TotalDebit.Equal(decimal.NewFromInt(100)))
	s.True(savedJournal.TotalCredit.Equal(decimal.NewFromInt(100)))
	s.Require().Len(savedEntries, 2)
	s.True(savedEntries[0].Credit.Equal(decimal.NewFromInt(100)), "original debit line becomes a credit")
	s.True(savedEntries[0].Debit.IsZero())
	s.True(savedEntries[1].Debit.Equal(decimal.NewFromInt(100)), "original credit line becomes a debit")
	s.True(savedEntries[1].Credit.IsZero())
	s.Equal(1, savedEntries[0].LineNo)
	s.Equal(2, savedEntries[1].LineNo)

	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestReverseJournalFailedAttemptLeavesNoPartialWrites() {
	ctx := context.Background()

	original := s.draftJournal()
	original.Status = domain.Posted

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(original, nil).Twice()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, "jrn-id-1").Return(s.draftEntries(), nil).Twice()
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, s.companyID, mock.Anything).Return(s.accountsMap(), nil).Twice()

	// The whole reversal rides on one repository call; when it fails no
	// journal, entry or balance write can have been committed.
	s.mockJournalRepo.On("SaveReversal", ctx, "jrn-id-1", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(500, "failed to save reversal", errors.New("connection reset"))).Once()

	_, err := s.service.ReverseJournal(ctx, s.companyID, "jrn-id-1", dto.ReverseJournalRequest{Date: s.fixedTime}, s.userID)
	s.Require().Error(err)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
	s.mockJournalRepo.AssertNotCalled(s.T(), "MarkJournalPosted",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// With nothing left behind, retrying the same reversal succeeds.
	s.mockJournalRepo.On("SaveReversal", ctx, "jrn-id-1", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Journal{JournalID: "rev-id-2", Status: domain.Posted}, nil).Once()

	reversal, err := s.service.ReverseJournal(ctx, s.companyID, "jrn-id-1", dto.ReverseJournalRequest{Date: s.fixedTime}, s.userID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, reversal.Status)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestReverseJournalNotPosted() {
	ctx := context.Background()

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(s.draftJournal(), nil).Once()

	_, err := s.service.ReverseJournal(ctx, s.companyID, "jrn-id-1", dto.ReverseJournalRequest{Date: s.fixedTime}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(err.Error(), "can only reverse posted journals")
}

func (s *JournalServiceTestSuite) TestReverseJournalAlreadyReversed() {
	ctx := context.Background()
	original := s.draftJournal()
	original.Status = domain.Posted
	reversedBy := "rev-id-1"
	original.ReversedByJournalID = &reversedBy

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(original, nil).Once()

	_, err := s.service.ReverseJournal(ctx, s.companyID, "jrn-id-1", dto.ReverseJournalRequest{Date: s.fixedTime}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(err.Error(), "already reversed")
}

func (s *JournalServiceTestSuite) TestReverseJournalOfReversal() {
	ctx := context.Background()
	reversal := s.draftJournal()
	reversal.Status = domain.Posted
	reversal.SourceType = domain.SourceTypeReversing
	reversal.SourceID = "some-original"

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(reversal, nil).Once()

	_, err := s.service.ReverseJournal(ctx, s.companyID, "jrn-id-1", dto.ReverseJournalRequest{Date: s.fixedTime}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(err.Error(), "itself a reversal")
}

func (s *JournalServiceTestSuite) TestVoidJournalDraft() {
	ctx := context.Background()

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(s.draftJournal(), nil).Once()
	s.mockJournalRepo.On("MarkJournalVoid", ctx, s.companyID, "jrn-id-1", s.userID, s.fixedTime).Return(nil).Once()

	voided, err := s.service.VoidJournal(ctx, s.companyID, "jrn-id-1", s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Void, voided.Status)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestVoidJournalPosted() {
	ctx := context.Background()
	journal := s.draftJournal()
	journal.Status = domain.Posted

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(journal, nil).Once()

	_, err := s.service.VoidJournal(ctx, s.companyID, "jrn-id-1", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(err.Error(), "reverse it instead")
	s.mockJournalRepo.AssertNotCalled(s.T(), "MarkJournalVoid",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestVoidJournalAlreadyVoid() {
	ctx := context.Background()
	journal := s.draftJournal()
	journal.Status = domain.Void

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(journal, nil).Once()

	_, err := s.service.VoidJournal(ctx, s.companyID, "jrn-id-1", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(err.Error(), "already void")
}

func (s *JournalServiceTestSuite) TestListJournalsWithEntries() {
	ctx := context.Background()
	journals := []domain.Journal{*s.draftJournal()}

	s.mockJournalRepo.On("ListJournalsByCompany", ctx, s.companyID, 10, (*string)(nil)).
		Return(journals, "next-token", nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalIDs", ctx, []string{"jrn-id-1"}).
		Return(map[string][]domain.JournalEntry{"jrn-id-1": s.draftEntries()}, nil).Once()

	resp, err := s.service.ListJournals(ctx, s.companyID, dto.ListJournalsParams{Limit: 10, IncludeEntries: true})

	s.Require().NoError(err)
	s.Require().Len(resp.Journals, 1)
	s.Len(resp.Journals[0].Entries, 2)
	s.Require().NotNil(resp.NextToken)
	s.Equal("next-token", *resp.NextToken)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestGetJournalByIDIncludesEntries() {
	ctx := context.Background()

	s.mockJournalRepo.On("FindJournalByID", ctx, s.companyID, "jrn-id-1").Return(s.draftJournal(), nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, "jrn-id-1").Return(s.draftEntries(), nil).Once()

	journal, err := s.service.GetJournalByID(ctx, s.companyID, "jrn-id-1")

	s.Require().NoError(err)
	s.Len(journal.Entries, 2)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
