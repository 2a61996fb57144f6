package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/utils"
	"github.com/WayfareLabs/trip_split_app/internal/utils/settling"
)

// settlementService computes balances and settlement plans. It reads one
// snapshot of the roster and ledger per call and hands the math to the
// settling package, so results are deterministic for unchanged data.
type settlementService struct {
	BaseService
	expenseRepo portsrepo.ExpenseReader
	tripSvc     portssvc.TripSvcFacade
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(expenseRepo portsrepo.ExpenseReader, tripSvc portssvc.TripSvcFacade) portssvc.SettlementSvcFacade {
	return &settlementService{
		BaseService: BaseService{TripAuthorizer: tripSvc},
		expenseRepo: expenseRepo,
		tripSvc:     tripSvc,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// snapshot loads the active roster and the full expense ledger of a trip.
func (s *settlementService) snapshot(ctx context.Context, tripID string) ([]domain.TripParticipant, []domain.ExpenseWithSplits, error) {
	participants, err := s.tripSvc.ListActiveParticipants(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := s.expenseRepo.FindExpensesWithSplitsByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expense ledger for trip %s: %w", tripID, err)
	}
	return participants, ledger, nil
}

// ComputeBalances returns the net position of every active participant,
// zero balances included, sorted by participant ID.
func (s *settlementService) ComputeBalances(ctx context.Context, tripID string, requestingUserID string) ([]domain.ParticipantBalance, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return nil, err
	}

	participants, ledger, err := s.snapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return settling.AggregateBalances(participants, ledger), nil
}

// ComputeSettlementPlan returns the balances plus the greedy transfer plan
// that settles them and the residual the transfers cannot cancel.
func (s *settlementService) ComputeSettlementPlan(ctx context.Context, tripID string, requestingUserID string) (*domain.SettlementPlan, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeUser(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return nil, err
	}

	trip, err := s.tripSvc.GetTripByID(ctx, tripID, requestingUserID)
	if err != nil {
		return nil, err
	}

	participants, ledger, err := s.snapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances := settling.AggregateBalances(participants, ledger)
	instructions, residual := settling.PlanSettlements(balances)

	if !residual.IsZero() {
		logger.Debug("Settlement plan carries a residual", slog.String("trip_id", tripID), slog.String("residual", utils.FormatWithPrecision(residual, 2)))
	}

	return &domain.SettlementPlan{
		CurrencyCode: trip.CurrencyCode,
		Balances:     balances,
		Settlements:  instructions,
		Residual:     residual,
	}, nil
}
