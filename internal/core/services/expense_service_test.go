package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/WayfareLabs/trip_split_app/internal/apperrors"
	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/core/services"
	"github.com/WayfareLabs/trip_split_app/internal/dto"
)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryWithTx = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindSplitsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseSplit, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseSplit), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByTrip(ctx context.Context, tripID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := m.Called(ctx, tripID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Expense), returnedNextToken, args.Error(2)
}

func (m *MockExpenseRepository) FindExpensesWithSplitsByTrip(ctx context.Context, tripID string) ([]domain.ExpenseWithSplits, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseWithSplits), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpenseWithSplits(ctx context.Context, expense domain.Expense, splits []domain.ExpenseSplit) error {
	args := m.Called(ctx, expense, splits)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpenseWithSplits(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

func (m *MockExpenseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockExpenseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockExpenseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock TripService (as consumed by expense and settlement services) ---
type MockTripService struct {
	mock.Mock
}

var _ portssvc.TripSvcFacade = (*MockTripService)(nil)

func (m *MockTripService) GetTripByID(ctx context.Context, tripID string, requestingUserID string) (*domain.Trip, error) {
	args := m.Called(ctx, tripID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripService) ListUserTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockTripService) ListTripParticipants(ctx context.Context, tripID string, requestingUserID string) ([]domain.TripParticipant, error) {
	args := m.Called(ctx, tripID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripParticipant), args.Error(1)
}

func (m *MockTripService) ListActiveParticipants(ctx context.Context, tripID string) ([]domain.TripParticipant, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripParticipant), args.Error(1)
}

func (m *MockTripService) CreateTrip(ctx context.Context, req dto.CreateTripRequest, creatorUserID string) (*domain.Trip, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripService) UpdateTrip(ctx context.Context, tripID string, req dto.UpdateTripRequest, requestingUserID string) (*domain.Trip, error) {
	args := m.Called(ctx, tripID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripService) DeactivateTrip(ctx context.Context, tripID string, requestingUserID string) error {
	args := m.Called(ctx, tripID, requestingUserID)
	return args.Error(0)
}

func (m *MockTripService) ActivateTrip(ctx context.Context, tripID string, requestingUserID string) error {
	args := m.Called(ctx, tripID, requestingUserID)
	return args.Error(0)
}

func (m *MockTripService) AddParticipant(ctx context.Context, addingUserID, targetUserID, tripID string, role domain.ParticipantRole) error {
	args := m.Called(ctx, addingUserID, targetUserID, tripID, role)
	return args.Error(0)
}

func (m *MockTripService) RespondToInvite(ctx context.Context, userID, tripID string, accept bool) error {
	args := m.Called(ctx, userID, tripID, accept)
	return args.Error(0)
}

func (m *MockTripService) RemoveParticipant(ctx context.Context, requestingUserID, targetUserID, tripID string) error {
	args := m.Called(ctx, requestingUserID, targetUserID, tripID)
	return args.Error(0)
}

func (m *MockTripService) UpdateParticipantRole(ctx context.Context, requestingUserID, targetUserID, tripID string, newRole domain.ParticipantRole) error {
	args := m.Called(ctx, requestingUserID, targetUserID, tripID, newRole)
	return args.Error(0)
}

func (m *MockTripService) AuthorizeUserAction(ctx context.Context, userID, tripID string, requiredRole domain.ParticipantRole) error {
	args := m.Called(ctx, userID, tripID, requiredRole)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockTripSvc     *MockTripService
	service         portssvc.ExpenseSvcFacade
	trip            domain.Trip
	tripID          string
	payerID         string
	memberID        string
	thirdID         string
	roster          []domain.TripParticipant
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockTripSvc = new(MockTripService)
	suite.service = services.NewExpenseService(suite.mockExpenseRepo, suite.mockTripSvc)

	suite.tripID = uuid.NewString()
	suite.payerID = "user-a"
	suite.memberID = "user-b"
	suite.thirdID = "user-c"

	suite.trip = domain.Trip{
		TripID:       suite.tripID,
		Name:         "Alps 2026",
		CurrencyCode: "EUR",
		IsActive:     true,
	}

	suite.roster = []domain.TripParticipant{
		{UserID: suite.payerID, TripID: suite.tripID, Role: domain.RoleOwner, Status: domain.ParticipantActive},
		{UserID: suite.memberID, TripID: suite.tripID, Role: domain.RoleEditor, Status: domain.ParticipantActive},
		{UserID: suite.thirdID, TripID: suite.tripID, Role: domain.RoleEditor, Status: domain.ParticipantActive},
	}
}

func (suite *ExpenseServiceTestSuite) expectAuthorized(ctx context.Context, userID string, role domain.ParticipantRole) {
	suite.mockTripSvc.On("AuthorizeUserAction", ctx, userID, suite.tripID, role).Return(nil).Once()
}

// --- Test Cases ---

func (suite *ExpenseServiceTestSuite) TestRecordExpense_EqualSplit() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Dinner",
		Amount:      decimal.RequireFromString("30.00"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()
	suite.mockTripSvc.On("ListActiveParticipants", ctx, suite.tripID).Return(suite.roster, nil).Once()
	suite.mockExpenseRepo.On("SaveExpenseWithSplits", ctx, mock.AnythingOfType("domain.Expense"), mock.AnythingOfType("[]domain.ExpenseSplit")).Return(nil).Once()

	expense, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(expense)
	suite.NotEmpty(expense.ExpenseID)
	suite.Equal("EUR", expense.CurrencyCode)
	suite.Equal(suite.payerID, expense.PayerID)
	suite.Require().Len(expense.Splits, 3)

	sum := decimal.Zero
	for _, split := range expense.Splits {
		suite.Equal(expense.ExpenseID, split.ExpenseID)
		suite.NotEmpty(split.SplitID)
		suite.Equal(split.UserID == suite.payerID, split.SettledAtCreation)
		sum = sum.Add(split.Amount)
	}
	suite.True(sum.Equal(req.Amount), "splits must sum to the expense amount exactly")

	suite.mockTripSvc.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_ExplicitSplits() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Cable car",
		Amount:      decimal.RequireFromString("25.00"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
		Splits: []dto.CreateExpenseSplitRequest{
			{UserID: suite.payerID, Amount: decimal.RequireFromString("5.00")},
			{UserID: suite.memberID, Amount: decimal.RequireFromString("20.00")},
		},
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()
	suite.mockTripSvc.On("ListActiveParticipants", ctx, suite.tripID).Return(suite.roster, nil).Once()
	suite.mockExpenseRepo.On("SaveExpenseWithSplits", ctx, mock.AnythingOfType("domain.Expense"), mock.AnythingOfType("[]domain.ExpenseSplit")).Return(nil).Once()

	expense, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().NoError(err)
	suite.Require().Len(expense.Splits, 2)
	suite.True(expense.Splits[0].SettledAtCreation)
	suite.False(expense.Splits[1].SettledAtCreation)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_SplitsUnbalanced() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Groceries",
		Amount:      decimal.RequireFromString("30.00"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
		Splits: []dto.CreateExpenseSplitRequest{
			{UserID: suite.payerID, Amount: decimal.RequireFromString("10.00")},
			{UserID: suite.memberID, Amount: decimal.RequireFromString("10.00")},
		},
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()
	suite.mockTripSvc.On("ListActiveParticipants", ctx, suite.tripID).Return(suite.roster, nil).Once()

	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSplitsUnbalanced)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpenseWithSplits", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_PayerNotParticipant() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Taxi",
		Amount:      decimal.RequireFromString("12.00"),
		ExpenseDate: time.Now(),
		PayerID:     "user-outsider",
	}

	suite.expectAuthorized(ctx, suite.memberID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.memberID).Return(&suite.trip, nil).Once()
	suite.mockTripSvc.On("ListActiveParticipants", ctx, suite.tripID).Return(suite.roster, nil).Once()

	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPayerNotParticipant)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpenseWithSplits", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_SplitUserNotOnRoster() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Museum",
		Amount:      decimal.RequireFromString("20.00"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
		Splits: []dto.CreateExpenseSplitRequest{
			{UserID: suite.payerID, Amount: decimal.RequireFromString("10.00")},
			{UserID: "user-outsider", Amount: decimal.RequireFromString("10.00")},
		},
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()
	suite.mockTripSvc.On("ListActiveParticipants", ctx, suite.tripID).Return(suite.roster, nil).Once()

	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSplitNotParticipant)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_NegativeAmount() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Refund entered as expense",
		Amount:      decimal.RequireFromString("-5.00"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()

	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountNotPositive)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_SubCentPrecision() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Fuel",
		Amount:      decimal.RequireFromString("10.005"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()

	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountPrecision)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_AmountTooSmallToSplit() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Parking meter",
		Amount:      decimal.RequireFromString("0.02"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()
	suite.mockTripSvc.On("ListActiveParticipants", ctx, suite.tripID).Return(suite.roster, nil).Once()

	// 0.02 over three heads cannot give everyone a positive cent.
	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountTooSmall)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpenseWithSplits", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_OneCentPerHeadAllowed() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Coin fountain",
		Amount:      decimal.RequireFromString("0.03"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&suite.trip, nil).Once()
	suite.mockTripSvc.On("ListActiveParticipants", ctx, suite.tripID).Return(suite.roster, nil).Once()
	suite.mockExpenseRepo.On("SaveExpenseWithSplits", ctx, mock.AnythingOfType("domain.Expense"), mock.AnythingOfType("[]domain.ExpenseSplit")).Return(nil).Once()

	expense, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().NoError(err)
	suite.Require().Len(expense.Splits, 3)
	for _, split := range expense.Splits {
		suite.True(split.Amount.Equal(decimal.RequireFromString("0.01")))
	}
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_TripInactive() {
	ctx := context.Background()
	inactiveTrip := suite.trip
	inactiveTrip.IsActive = false
	req := dto.CreateExpenseRequest{
		Description: "Late entry",
		Amount:      decimal.RequireFromString("9.00"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
	}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleEditor)
	suite.mockTripSvc.On("GetTripByID", ctx, suite.tripID, suite.payerID).Return(&inactiveTrip, nil).Once()

	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTripInactive)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_AuthorizationFail() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Dinner",
		Amount:      decimal.RequireFromString("30.00"),
		ExpenseDate: time.Now(),
		PayerID:     suite.payerID,
	}

	suite.mockTripSvc.On("AuthorizeUserAction", ctx, "user-viewer", suite.tripID, domain.RoleEditor).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.RecordExpense(ctx, suite.tripID, req, "user-viewer")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpenseWithSplits", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_WrongTrip() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	foreign := domain.Expense{ExpenseID: expenseID, TripID: uuid.NewString()}

	suite.expectAuthorized(ctx, suite.memberID, domain.RoleViewer)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&foreign, nil).Once()

	_, err := suite.service.GetExpenseByID(ctx, suite.tripID, expenseID, suite.memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_Success() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := domain.Expense{ExpenseID: expenseID, TripID: suite.tripID, PayerID: suite.payerID}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleViewer)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&expense, nil).Once()
	suite.mockExpenseRepo.On("DeleteExpenseWithSplits", ctx, expenseID).Return(nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.tripID, expenseID, suite.payerID)

	suite.Require().NoError(err)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_NonPayerEditorForbidden() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := domain.Expense{ExpenseID: expenseID, TripID: suite.tripID, PayerID: suite.payerID}

	// memberID is an active EDITOR but neither the payer nor an owner.
	suite.expectAuthorized(ctx, suite.memberID, domain.RoleViewer)
	suite.mockTripSvc.On("AuthorizeUserAction", ctx, suite.memberID, suite.tripID, domain.RoleOwner).Return(apperrors.ErrForbidden).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&expense, nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.tripID, expenseID, suite.memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "DeleteExpenseWithSplits", ctx, expenseID)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_OwnerMayRemoveOthersExpense() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := domain.Expense{ExpenseID: expenseID, TripID: suite.tripID, PayerID: suite.memberID}

	suite.expectAuthorized(ctx, suite.payerID, domain.RoleViewer)
	suite.mockTripSvc.On("AuthorizeUserAction", ctx, suite.payerID, suite.tripID, domain.RoleOwner).Return(nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&expense, nil).Once()
	suite.mockExpenseRepo.On("DeleteExpenseWithSplits", ctx, expenseID).Return(nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.tripID, expenseID, suite.payerID)

	suite.Require().NoError(err)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_PayerWithViewerRoleAllowed() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := domain.Expense{ExpenseID: expenseID, TripID: suite.tripID, PayerID: suite.thirdID, Description: "Taxi"}
	newDescription := "Taxi from airport"

	// The payer may correct their own expense even when they only hold the
	// VIEWER role; no owner check is made for the payer.
	suite.expectAuthorized(ctx, suite.thirdID, domain.RoleViewer)
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&expense, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Description == newDescription && e.LastUpdatedBy == suite.thirdID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateExpense(ctx, suite.tripID, expenseID, dto.UpdateExpenseRequest{Description: &newDescription}, suite.thirdID)

	suite.Require().NoError(err)
	suite.Equal(newDescription, updated.Description)
	suite.mockTripSvc.AssertNotCalled(suite.T(), "AuthorizeUserAction", ctx, suite.thirdID, suite.tripID, domain.RoleOwner)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_NonPayerEditorForbidden() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := domain.Expense{ExpenseID: expenseID, TripID: suite.tripID, PayerID: suite.payerID}
	newDescription := "Edited"

	suite.expectAuthorized(ctx, suite.memberID, domain.RoleViewer)
	suite.mockTripSvc.On("AuthorizeUserAction", ctx, suite.memberID, suite.tripID, domain.RoleOwner).Return(apperrors.ErrForbidden).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(&expense, nil).Once()

	_, err := suite.service.UpdateExpense(ctx, suite.tripID, expenseID, dto.UpdateExpenseRequest{Description: &newDescription}, suite.memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpense", ctx, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_DefaultLimit() {
	ctx := context.Background()
	expenses := []domain.Expense{{ExpenseID: uuid.NewString(), TripID: suite.tripID}}

	suite.expectAuthorized(ctx, suite.memberID, domain.RoleViewer)
	suite.mockExpenseRepo.On("ListExpensesByTrip", ctx, suite.tripID, 20, (*string)(nil)).Return(expenses, nil, nil).Once()

	resp, err := suite.service.ListExpenses(ctx, suite.tripID, suite.memberID, dto.ListExpensesParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Expenses, 1)
	suite.Nil(resp.NextToken)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
